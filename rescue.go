/**
 * Filename: /Users/marcin/code/sbh/rescue.go
 * Path: /Users/marcin/code/sbh
 * Created Date: Thursday, March 7th 2024, 10:44:09 pm
 * Author: marcin
 *
 * Copyright (c) 2024 Marcin Konicki
 */

package sbh

import (
	"encoding/binary"
	"hash/fnv"
	"strings"
	"time"

	"github.com/willf/bitset"
)

// goodFrameScore is the extension score above which the current state is
// worth keeping as a backtrack restore point
const goodFrameScore = 1.5

// RescueOptions carries the target and the per-run budgets of the rescue
// engine
type RescueOptions struct {
	Target        int
	CandidateSize int
	MaxIterations int
	Deadline      time.Time
}

// rescueState is the only entity mutated across a rescue run. Availability
// is not tracked by hand: it is recomputed from the multiset difference
// between the working spectrum and the k-mer decomposition of the current
// sequence, which guards against double use even when a k-mer legitimately
// occurs at several positions.
type rescueState struct {
	k          int
	target     int
	spectrum   *Spectrum
	sequence   string
	byValue    map[string][]uint
	available  *bitset.BitSet
	availCount map[string]int
	failed     map[uint64]bool
	frames     []string
	backtracks int
	iterations int
}

func newRescueState(seed string, spectrum *Spectrum, target int) *rescueState {
	st := &rescueState{
		k:         spectrum.K,
		target:    target,
		spectrum:  spectrum,
		sequence:  seed,
		byValue:   map[string][]uint{},
		available: bitset.New(uint(spectrum.Total())),
		failed:    map[uint64]bool{},
	}
	for i, kmer := range spectrum.Kmers {
		st.byValue[kmer] = append(st.byValue[kmer], uint(i))
	}
	return st
}

// refresh recomputes the available set. For each value, the occurrences not
// yet explained by the sequence's own decomposition stay available; gap
// k-mers containing N never match a spectrum value, so they subtract
// nothing.
func (st *rescueState) refresh() {
	seqCounts := kmerCounts(st.sequence, st.k)
	st.available.ClearAll()
	st.availCount = make(map[string]int, st.spectrum.Unique())
	for _, value := range st.spectrum.Values {
		remain := st.spectrum.Counts[value] - seqCounts[value]
		if remain < 0 {
			remain = 0
		}
		st.availCount[value] = remain
		for i := 0; i < remain; i++ {
			st.available.Set(st.byValue[value][i])
		}
	}
}

// stateFingerprint hashes a (suffix, available multiset) pair. The search
// from a state is fully determined by those two, so the fingerprint is what
// the failure memory is keyed on.
func stateFingerprint(suffix string, available *bitset.BitSet) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(suffix))
	var buf [8]byte
	for _, word := range available.Bytes() {
		binary.LittleEndian.PutUint64(buf[:], word)
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

func (st *rescueState) stateKey() uint64 {
	suffix := ""
	if len(st.sequence) >= st.k-1 {
		suffix = st.sequence[len(st.sequence)-(st.k-1):]
	}
	return stateFingerprint(suffix, st.available)
}

// successorKey fingerprints the state reached by extending with value,
// without mutating the current one. refresh keeps the first remaining
// occurrences of each value, so consuming one clears the highest set index.
func (st *rescueState) successorKey(value string) uint64 {
	next := st.available.Clone()
	occurrences := st.byValue[value]
	for i := len(occurrences) - 1; i >= 0; i-- {
		if next.Test(occurrences[i]) {
			next.Clear(occurrences[i])
			break
		}
	}
	return stateFingerprint(value[1:], next)
}

// followers counts the available spectrum entries that could extend a given
// (k-1)-suffix, with multiplicity. exclude removes one k-mer value from
// consideration, matching the extension score which must not count the
// candidate itself.
func (st *rescueState) followers(suffix, exclude string) int {
	n := 0
	for _, value := range st.spectrum.Values {
		if value == exclude || st.availCount[value] == 0 {
			continue
		}
		if strings.HasPrefix(value, suffix) {
			n += st.availCount[value]
		}
	}
	return n
}

// firstAvailable returns the first available value in spectrum order
func (st *rescueState) firstAvailable() (string, bool) {
	for _, value := range st.spectrum.Values {
		if st.availCount[value] > 0 {
			return value, true
		}
	}
	return "", false
}

// bestStartingKmer scores every distinct k-mer by connectivity and
// complexity and returns the winner, preferring source-like k-mers with
// many ways forward. First occurrence wins ties.
func (st *rescueState) bestStartingKmer() (string, bool) {
	best, bestScore := "", 0.0
	for _, value := range st.spectrum.Values {
		outDegree, inDegree := 0, 0
		suffix, prefix := value[1:], value[:len(value)-1]
		for _, other := range st.spectrum.Values {
			if strings.HasPrefix(other, suffix) {
				outDegree += st.spectrum.Counts[other]
			}
			if strings.HasSuffix(other, prefix) {
				inDegree += st.spectrum.Counts[other]
			}
		}
		score := float64(outDegree) - 0.5*float64(inDegree) + complexity(value)
		if best == "" || score > bestScore {
			best, bestScore = value, score
		}
	}
	return best, best != ""
}

// bestExtension implements the EXTEND state: among available k-mers whose
// prefix equals the current (k-1)-suffix, score by onward connectivity and
// complexity, keep the top candidateSize, and return the top scorer.
// Candidates leading into a state the failure memory already condemned are
// skipped, which is how a restored frame ends up trying an alternative.
func (st *rescueState) bestExtension(candidateSize int) (string, float64, bool) {
	if len(st.sequence) < st.k {
		return "", 0, false
	}
	suffix := st.sequence[len(st.sequence)-(st.k-1):]

	type scored struct {
		kmer  string
		score float64
	}
	var candidates []scored
	for _, value := range st.spectrum.Values {
		if st.availCount[value] == 0 || !strings.HasPrefix(value, suffix) {
			continue
		}
		if st.failed[st.successorKey(value)] {
			continue
		}
		score := 1.0 + 0.1*float64(st.followers(value[1:], value)) + complexity(value)
		candidates = append(candidates, scored{value, score})
	}
	if len(candidates) == 0 {
		return "", 0, false
	}
	// Stable selection sort of the top candidateSize; ties keep spectrum
	// order so the search is deterministic
	for i := 0; i < len(candidates) && i < candidateSize; i++ {
		top := i
		for j := i + 1; j < len(candidates); j++ {
			if candidates[j].score > candidates[top].score {
				top = j
			}
		}
		candidates[i], candidates[top] = candidates[top], candidates[i]
	}
	return candidates[0].kmer, candidates[0].score, true
}

// jumpTarget implements the JUMP state, gated by the strategy class
func (st *rescueState) jumpTarget(cfg StrategyConfig, candidateSize int) (string, bool) {
	switch cfg.Strategy {
	case StrategyAggressive:
		return st.aggressiveJump(candidateSize)
	case StrategyRescue:
		return st.rescueJump()
	default:
		return st.conservativeJump()
	}
}

// aggressiveJump picks the available k-mer with the highest onward
// connectivity. The score is a single scalar; ties resolve to the
// lexicographically smaller k-mer.
func (st *rescueState) aggressiveJump(candidateSize int) (string, bool) {
	best, bestConn := "", -1
	for _, value := range st.spectrum.Values {
		if st.availCount[value] == 0 {
			continue
		}
		conn := st.followers(value[1:], "")
		if conn > bestConn || (conn == bestConn && value < best) {
			best, bestConn = value, conn
		}
	}
	return best, best != ""
}

// conservativeJump looks for the best partial suffix/prefix overlap, even a
// single symbol, between the current tail and an available k-mer.
func (st *rescueState) conservativeJump() (string, bool) {
	tail := st.sequence
	if st.k > 2 && len(tail) >= st.k-2 {
		tail = tail[len(tail)-(st.k-2):]
	}
	best, bestOverlap := "", 0
	for _, value := range st.spectrum.Values {
		if st.availCount[value] == 0 {
			continue
		}
		for i := min(len(tail), st.k-1); i > 0; i-- {
			if strings.HasSuffix(tail, value[:i]) {
				if i > bestOverlap {
					best, bestOverlap = value, i
				}
				break
			}
		}
	}
	return best, best != ""
}

// rescueJump discards low-complexity k-mers and prefers the one with the
// most further extension options, falling back to any available k-mer.
func (st *rescueState) rescueJump() (string, bool) {
	best, bestConn := "", -1
	for _, value := range st.spectrum.Values {
		if st.availCount[value] == 0 || lowComplexity(value, JumpComplexity) {
			continue
		}
		conn := st.followers(value[1:], "")
		if conn > bestConn {
			best, bestConn = value, conn
		}
	}
	if best != "" {
		return best, true
	}
	return st.firstAvailable()
}

// backtrack restores the most recent good frame so the search can try an
// alternative candidate from there. A frame equal to the current sequence
// has already been searched out and is dropped. It refuses once the total
// backtrack budget is spent, and periodically clears the failure memory so
// the search may explore paths it previously gave up on.
func (st *rescueState) backtrack() bool {
	for len(st.frames) > 0 && st.frames[len(st.frames)-1] == st.sequence {
		st.frames = st.frames[:len(st.frames)-1]
	}
	if st.backtracks >= MaxBacktracks || len(st.frames) == 0 {
		return false
	}
	st.backtracks++
	st.sequence = st.frames[len(st.frames)-1]
	if st.backtracks%BacktrackMemoryReset == 0 {
		st.failed = map[uint64]bool{}
		log.Debugf("Cleared failure memory after %d backtracks", st.backtracks)
	}
	log.Debugf("Backtracked to %d bp (attempt %d)", len(st.sequence), st.backtracks)
	return true
}

// RescueExtend runs the bounded EXTEND -> JUMP -> EMERGENCY loop until the
// sequence reaches the target length, the spectrum is exhausted, or a
// budget hits. It always returns a sequence of at most target symbols, and
// never an empty one as long as the spectrum holds a k-mer.
func RescueExtend(seed string, spectrum *Spectrum, cfg StrategyConfig, opts RescueOptions) string {
	st := newRescueState(seed, spectrum, opts.Target)
	if st.sequence == "" {
		start, ok := st.bestStartingKmer()
		if !ok {
			return ""
		}
		st.sequence = start
	}
	st.refresh()
	log.Noticef("Rescue starts from %d bp with %d available k-mers",
		len(st.sequence), st.available.Count())

	for len(st.sequence) < st.target && st.available.Any() && st.iterations < opts.MaxIterations {
		st.iterations++
		if !opts.Deadline.IsZero() && time.Now().After(opts.Deadline) {
			log.Warningf("Rescue hit the time budget after %d iterations", st.iterations)
			break
		}

		key := st.stateKey()
		if !st.failed[key] {
			if kmer, score, ok := st.bestExtension(opts.CandidateSize); ok {
				st.sequence += string(kmer[len(kmer)-1])
				if score >= goodFrameScore && len(st.frames) < MaxBacktrackFrames {
					st.frames = append(st.frames, st.sequence)
				}
				st.refresh()
				continue
			}
			// Dead end: every extension from here leads nowhere, so the
			// failure memory keeps any restored frame from retrying it
			st.failed[key] = true
		}

		if st.backtrack() {
			st.refresh()
			continue
		}

		if jump, ok := st.jumpTarget(cfg, opts.CandidateSize); ok {
			gap := max(1, min(MaxJumpGap, st.target-len(st.sequence)-len(jump)))
			st.sequence += strings.Repeat(string(Gap), gap) + jump
			st.refresh()
			continue
		}

		if kmer, ok := st.firstAvailable(); ok {
			st.sequence += strings.Repeat(string(Gap), min(3, st.k-1)) + kmer
			st.refresh()
			continue
		}

		break
	}

	if st.iterations >= opts.MaxIterations {
		log.Warningf("Rescue hit the iteration cap (%d)", opts.MaxIterations)
	}
	log.Noticef("Rescue completed after %d iterations, %d backtracks: %d/%d bp",
		st.iterations, st.backtracks, min(len(st.sequence), st.target), st.target)

	if len(st.sequence) > st.target {
		return st.sequence[:st.target]
	}
	return st.sequence
}
