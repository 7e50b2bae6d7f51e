/*
 *  generate.go
 *  sbh
 *
 *  Created by Marcin Konicki on 03/04/24
 *  Copyright © 2024 Marcin Konicki. All rights reserved.
 */

package sbh

import (
	"math/rand"
)

// RandomSequence draws a uniform DNA sequence of the given length
func RandomSequence(length int, rng *rand.Rand) (string, error) {
	if length < 1 {
		return "", invalidf("sequence length must be positive, got %d", length)
	}
	sequence := make([]byte, length)
	for i := range sequence {
		sequence[i] = Bases[rng.Intn(len(Bases))]
	}
	return string(sequence), nil
}

// GenerateSpectrum slices a sequence into its k-mer multiset and then
// corrupts it: negative errors remove k-mers uniformly at random, positive
// errors append freshly generated random k-mers.
func GenerateSpectrum(sequence string, k int, negRate, posRate float64, rng *rand.Rand) ([]string, error) {
	if k < 1 || k > len(sequence) {
		return nil, invalidf("k = %d is out of range for a %d bp sequence", k, len(sequence))
	}
	if negRate < 0 || negRate > 1 || posRate < 0 || posRate > 1 {
		return nil, invalidf("error rates must lie in [0, 1], got %.2f and %.2f", negRate, posRate)
	}

	spectrum := kmersOf(sequence, k)

	if negRate > 0 {
		remove := int(float64(len(spectrum)) * negRate)
		for i := 0; i < remove && len(spectrum) > 0; i++ {
			idx := rng.Intn(len(spectrum))
			spectrum = append(spectrum[:idx], spectrum[idx+1:]...)
		}
	}

	if posRate > 0 {
		add := int(float64(len(spectrum)) * posRate)
		for i := 0; i < add; i++ {
			kmer, err := RandomSequence(k, rng)
			if err != nil {
				return nil, err
			}
			spectrum = append(spectrum, kmer)
		}
	}

	return spectrum, nil
}
