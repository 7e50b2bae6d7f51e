/**
 * Filename: /Users/marcin/code/sbh/reconstruct.go
 * Path: /Users/marcin/code/sbh
 * Created Date: Wednesday, March 6th 2024, 8:03:25 pm
 * Author: marcin
 *
 * Copyright (c) 2024 Marcin Konicki
 */

package sbh

import (
	"math/rand"
	"sort"
	"strings"
	"time"
)

// Reconstructor runs the adaptive multi-phase reconstruction: spectrum
// quality analysis, reliability-filtered contig assembly, contig stitching,
// and the bounded rescue extension. Zero-valued tunables fall back to the
// package defaults.
type Reconstructor struct {
	Spectrum     []string
	TargetLength int
	K            int

	// CandidateSize caps the scored candidate list per rescue iteration
	CandidateSize int
	// TimeLimit is the wall-clock budget; exceeding it returns the best
	// partial sequence, never an error
	TimeLimit time.Duration
	// GAOrder switches the connector scan order to the GA-refined tour
	GAOrder    bool
	NPop, NGen int
	// Rand seeds any randomized variant (the GA ordering); injectable so
	// runs stay reproducible
	Rand *rand.Rand
}

// Run reconstructs the sequence. The only error it can return is
// ErrInvalidInput, raised before any work begins; every later failure is
// absorbed by a weaker phase.
func (r *Reconstructor) Run() (string, error) {
	if err := validateInput(r.Spectrum, r.TargetLength, r.K); err != nil {
		return "", err
	}
	candidateSize := r.CandidateSize
	if candidateSize <= 0 {
		candidateSize = DefaultCandidateSize
	}
	timeLimit := r.TimeLimit
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}
	deadline := time.Now().Add(timeLimit)

	log.Noticef("Reconstruction target %d bp, k = %d, spectrum %d k-mers",
		r.TargetLength, r.K, len(r.Spectrum))

	// The engine works on its own copy; the caller's spectrum is never
	// touched
	spectrum := NewSpectrum(r.Spectrum, r.K)
	cfg := AnalyzeSpectrum(spectrum)

	// Phase 1: reliable contigs
	reliable := ReliableKmers(spectrum, cfg)
	contigs := BuildContigs(reliable, r.K)

	// Phase 2: stitch contigs into a seed
	seed := ""
	if len(contigs) > 0 {
		scanOrder := r.scanOrder(contigs)
		seed = ConnectContigs(contigs, r.TargetLength, r.K, scanOrder)
	} else {
		log.Notice("No contigs built, starting from the best k-mer")
	}

	// Phase 3: rescue extension
	sequence := RescueExtend(seed, spectrum, cfg, RescueOptions{
		Target:        r.TargetLength,
		CandidateSize: candidateSize,
		MaxIterations: 2 * r.TargetLength,
		Deadline:      deadline,
	})

	if len(sequence) > r.TargetLength {
		sequence = sequence[:r.TargetLength]
	}
	return sequence, nil
}

// scanOrder picks the connector's scan preference: the GA tour when asked
// for, otherwise the assignment chain, otherwise plain confidence order.
func (r *Reconstructor) scanOrder(contigs []*Contig) []int {
	sorted := make([]*Contig, len(contigs))
	copy(sorted, contigs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})
	if r.GAOrder {
		npop, ngen := r.NPop, r.NGen
		if npop <= 0 {
			npop = DefaultNPop
		}
		if ngen <= 0 {
			ngen = DefaultNGen
		}
		rng := r.Rand
		if rng == nil {
			rng = rand.New(rand.NewSource(42))
		}
		if order := GAOrder(sorted, r.K, npop, ngen, rng); order != nil {
			return order
		}
	}
	return assignmentOrder(sorted, r.K)
}

// validateInput enforces the reconstruct preconditions. All violations are
// ErrInvalidInput; nothing else is ever surfaced.
func validateInput(spectrum []string, targetLength, k int) error {
	if k < 1 {
		return invalidf("k must be positive, got %d", k)
	}
	if len(spectrum) == 0 {
		return invalidf("spectrum is empty")
	}
	if targetLength < k {
		return invalidf("target length %d is shorter than k = %d", targetLength, k)
	}
	for _, kmer := range spectrum {
		if len(kmer) != k {
			return invalidf("k-mer %q has length %d, want %d", kmer, len(kmer), k)
		}
	}
	return nil
}

// Reconstruct is the single-call form of the engine with default tunables
func Reconstruct(spectrum []string, targetLength, k int) (string, error) {
	r := &Reconstructor{Spectrum: spectrum, TargetLength: targetLength, K: k}
	return r.Run()
}

// Similarity is the fraction of positions agreeing between two sequences,
// compared over the longer length
func Similarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	matches := 0
	for i := 0; i < min(len(a), len(b)); i++ {
		if a[i] == b[i] {
			matches++
		}
	}
	return float64(matches) / float64(max(len(a), len(b)))
}

// CleanSequence reports whether a sequence stays inside the reconstruction
// alphabet, gaps included
func CleanSequence(sequence string) bool {
	return strings.IndexFunc(sequence, func(r rune) bool {
		return !strings.ContainsRune(Bases, r) && r != rune(Gap)
	}) < 0
}
