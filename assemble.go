/*
 *  assemble.go
 *  sbh
 *
 *  Created by Marcin Konicki on 03/08/24
 *  Copyright © 2024 Marcin Konicki. All rights reserved.
 */

package sbh

// PathToSequence flattens a k-mer path into a sequence: the first k-mer
// plus the final symbol of each subsequent one. Consecutive k-mers must
// overlap by k-1 symbols; a false return flags the first violation.
func PathToSequence(path []string) (string, bool) {
	if len(path) == 0 {
		return "", true
	}
	sequence := []byte(path[0])
	for i := 1; i < len(path); i++ {
		if path[i][:len(path[i])-1] != path[i-1][1:] {
			return string(sequence), false
		}
		sequence = append(sequence, path[i][len(path[i])-1])
	}
	return string(sequence), true
}

// Validate audits a reconstruction against the original spectrum. Coverage
// is the percentage of distinct spectrum k-mers that reappear in the
// sequence's own decomposition; the boolean is strict superset containment.
// This is an auditing signal, not a gate: low-coverage sequences are still
// returned to callers.
func Validate(sequence string, spectrum []string, k int) (bool, float64) {
	spectrumSet := map[string]bool{}
	for _, kmer := range spectrum {
		spectrumSet[kmer] = true
	}
	if len(spectrumSet) == 0 {
		return true, 0
	}

	sequenceSet := map[string]bool{}
	for _, kmer := range kmersOf(sequence, k) {
		sequenceSet[kmer] = true
	}

	covered := 0
	for kmer := range spectrumSet {
		if sequenceSet[kmer] {
			covered++
		}
	}
	coverage := float64(covered) * 100.0 / float64(len(spectrumSet))
	return covered == len(spectrumSet), coverage
}
