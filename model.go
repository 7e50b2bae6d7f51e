/**
 * Filename: /Users/marcin/code/sbh/model.go
 * Path: /Users/marcin/code/sbh
 * Created Date: Saturday, March 2nd 2024, 8:15:40 pm
 * Author: marcin
 *
 * Copyright (c) 2024 Marcin Konicki
 */

package sbh

// Spectrum is the working multiset of k-mers. Kmers preserves occurrence
// order including duplicates; Counts collapses them to multiplicities.
// Values holds each distinct k-mer once, in first-occurrence order, so that
// every scan over the spectrum is deterministic.
type Spectrum struct {
	K      int
	Kmers  []string
	Values []string
	Counts map[string]int
}

// NewSpectrum copies the caller's k-mer list into a working spectrum. The
// engine only ever mutates this copy.
func NewSpectrum(kmers []string, k int) *Spectrum {
	r := &Spectrum{
		K:      k,
		Kmers:  make([]string, len(kmers)),
		Counts: map[string]int{},
	}
	copy(r.Kmers, kmers)
	for _, kmer := range r.Kmers {
		if r.Counts[kmer] == 0 {
			r.Values = append(r.Values, kmer)
		}
		r.Counts[kmer]++
	}
	return r
}

// Total is the spectrum size with duplicates
func (r *Spectrum) Total() int {
	return len(r.Kmers)
}

// Unique is the number of distinct k-mer values
func (r *Spectrum) Unique() int {
	return len(r.Values)
}

// MaxCount is the largest multiplicity of any k-mer
func (r *Spectrum) MaxCount() int {
	best := 0
	for _, count := range r.Counts {
		best = max(best, count)
	}
	return best
}

// Strategy labels the spectrum-quality class chosen by the analyzer
type Strategy int

// The three strategy classes, from cleanest data to noisiest
const (
	StrategyConservative Strategy = iota
	StrategyAggressive
	StrategyRescue
)

// String returns the lowercase class name
func (s Strategy) String() string {
	switch s {
	case StrategyAggressive:
		return "aggressive"
	case StrategyRescue:
		return "rescue"
	default:
		return "conservative"
	}
}

// StrategyConfig is the immutable outcome of spectrum quality analysis. It
// is computed once per run and threaded as a value through every downstream
// phase; nothing mutates it after Run starts.
type StrategyConfig struct {
	Strategy            Strategy
	Coverage            float64
	Variance            float64
	ConfidenceThreshold float64
	// MinFreq and MaxFreqFactor bound the acceptable frequency band used
	// by the reliability filter; MaxFreq = MaxFreqFactor * max multiplicity
	MinFreq       int
	MaxFreqFactor float64
}

// Contig is a maximal non-branching assembled fragment. Contigs live only
// between the builder and the connector; nothing retains them afterwards.
type Contig struct {
	Sequence   string
	Confidence float64
	StartKmer  string
	EndKmer    string
	Support    map[string]bool
}
