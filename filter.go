/*
 *  filter.go
 *  sbh
 *
 *  Created by Marcin Konicki on 03/03/24
 *  Copyright © 2024 Marcin Konicki. All rights reserved.
 */

package sbh

// ReliableKmers selects the distinct k-mers likely to be correct under the
// chosen strategy class. A k-mer passes when its multiplicity lies in the
// class frequency band, it is not low-complexity, and the spectrum holds at
// least one k-mer sharing its (k-1)-prefix and one sharing its (k-1)-suffix.
// The result collapses duplicates; the full multiset stays untouched for
// the later phases.
func ReliableKmers(spectrum *Spectrum, cfg StrategyConfig) map[string]bool {
	reliable := map[string]bool{}
	if spectrum.Unique() == 0 {
		return reliable
	}
	maxFreq := cfg.MaxFreqFactor * float64(spectrum.MaxCount())

	for _, value := range spectrum.Values {
		count := spectrum.Counts[value]
		if count < cfg.MinFreq || float64(count) > maxFreq {
			continue
		}
		if !assessKmerQuality(value, spectrum) {
			continue
		}
		reliable[value] = true
	}
	log.Noticef("Reliable k-mers: %s", Percentage(len(reliable), spectrum.Unique()))
	return reliable
}

// assessKmerQuality applies the complexity and neighborhood checks. A k-mer
// counts as its own prefix/suffix neighbor; requiring a distinct neighbor
// would starve the contig phase on random sequences, where most (k-1)-mers
// occur exactly once.
func assessKmerQuality(kmer string, spectrum *Spectrum) bool {
	if lowComplexity(kmer, MinComplexity) {
		return false
	}

	prefix, suffix := kmer[:len(kmer)-1], kmer[1:]
	hasPrefixNeighbor, hasSuffixNeighbor := false, false
	for _, other := range spectrum.Values {
		if !hasPrefixNeighbor && other[:len(other)-1] == prefix {
			hasPrefixNeighbor = true
		}
		if !hasSuffixNeighbor && other[1:] == suffix {
			hasSuffixNeighbor = true
		}
		if hasPrefixNeighbor && hasSuffixNeighbor {
			return true
		}
	}
	return false
}
