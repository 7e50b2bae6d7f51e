/**
 * Filename: /Users/marcin/code/sbh/base.go
 * Path: /Users/marcin/code/sbh
 * Created Date: Saturday, March 2nd 2024, 7:48:11 pm
 * Author: marcin
 *
 * Copyright (c) 2024 Marcin Konicki
 */

package sbh

import (
	"errors"
	"fmt"
	"os"
	"time"

	logging "github.com/op/go-logging"
)

const (
	// Version is the current version of SBH
	Version = "0.3.1"
	// Bases are the four DNA symbols every k-mer is drawn from
	Bases = "ACGT"
	// Gap marks unresolved positions inserted by the rescue engine
	Gap = byte('N')
	// DefaultCandidateSize caps how many scored candidates each rescue
	// iteration keeps around
	DefaultCandidateSize = 10
	// DefaultTimeLimit is the wall-clock budget for a single reconstruction
	DefaultTimeLimit = 30 * time.Second
	// MaxBacktracks bounds the total number of backtracks per run
	MaxBacktracks = 10
	// MaxBacktrackFrames bounds how many restore points we keep
	MaxBacktrackFrames = 20
	// BacktrackMemoryReset is the number of backtracks after which the
	// failed-state memory is cleared to allow re-exploration
	BacktrackMemoryReset = 5
	// MinComplexity is the distinct-symbol fraction below which a k-mer is
	// considered low-complexity
	MinComplexity = 0.5
	// JumpComplexity is the stricter fraction used by the rescue jump
	JumpComplexity = 0.6
	// MaxJumpGap is the largest run of N symbols a jump may insert
	MaxJumpGap = 5
	// DefaultNPop is the GA population size for contig ordering
	DefaultNPop = 50
	// DefaultNGen is the number of GA generations for contig ordering
	DefaultNGen = 200
	// MaxAssignmentContigs caps the O(n^3) assignment-based scan ordering
	MaxAssignmentContigs = 64
)

// ErrInvalidInput flags malformed reconstruction parameters. It is the only
// error the engine ever surfaces to a caller.
var ErrInvalidInput = errors.New("invalid input")

var log = logging.MustGetLogger("sbh")
var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05} %{shortfunc} | %{level:.6s} %{color:reset} %{message}`,
)

// Backend is the default stderr output
var Backend = logging.NewLogBackend(os.Stderr, "", 0)

// BackendFormatter contains the fancy debug formatter
var BackendFormatter = logging.NewBackendFormatter(Backend, format)

// min gets the minimum for two ints
func min(x, y int) int {
	if x < y {
		return x
	}
	return y
}

// max gets the maximum for two ints
func max(x, y int) int {
	if x > y {
		return x
	}
	return y
}

// minf gets the minimum for two float64s
func minf(x, y float64) float64 {
	if x < y {
		return x
	}
	return y
}

// complexity is the fraction of distinct symbols in a k-mer, between 1/len
// and 1. Long homopolymer runs score low.
func complexity(kmer string) float64 {
	if kmer == "" {
		return 0
	}
	var seen [256]bool
	distinct := 0
	for i := 0; i < len(kmer); i++ {
		if !seen[kmer[i]] {
			seen[kmer[i]] = true
			distinct++
		}
	}
	return float64(distinct) / float64(len(kmer))
}

// lowComplexity tests a k-mer against a distinct-symbol fraction cutoff
func lowComplexity(kmer string, cutoff float64) bool {
	return complexity(kmer) < cutoff
}

// kmersOf decomposes a sequence into its consecutive k-mers, in order
func kmersOf(sequence string, k int) []string {
	if len(sequence) < k {
		return nil
	}
	kmers := make([]string, 0, len(sequence)-k+1)
	for i := 0; i+k <= len(sequence); i++ {
		kmers = append(kmers, sequence[i:i+k])
	}
	return kmers
}

// kmerCounts decomposes a sequence into k-mer multiplicities
func kmerCounts(sequence string, k int) map[string]int {
	counts := map[string]int{}
	for _, kmer := range kmersOf(sequence, k) {
		counts[kmer]++
	}
	return counts
}

// Percentage prints a human readable message of the percentage
func Percentage(a, b int) string {
	return fmt.Sprintf("%d of %d (%.1f %%)", a, b, float64(a)*100./float64(b))
}

// invalidf builds an ErrInvalidInput with context
func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
