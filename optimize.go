/**
 * Filename: /Users/marcin/code/sbh/optimize.go
 * Path: /Users/marcin/code/sbh
 * Created Date: Tuesday, March 12th 2024, 9:21:54 pm
 * Author: marcin
 *
 * Copyright (c) 2024 Marcin Konicki
 */

package sbh

import (
	"math/rand"

	"github.com/MaxHalford/eaopt"
)

// Tour is a candidate contig ordering evolved by the GA. The fitness is the
// total number of symbols the connector would fail to overlap when merging
// contigs in this order, so tighter chains score lower.
type Tour struct {
	Indices []int
	contigs []*Contig
	k       int
}

// NewTour builds a tour visiting the contigs in the given index order
func NewTour(indices []int, contigs []*Contig, k int) Tour {
	return Tour{Indices: indices, contigs: contigs, k: k}
}

// At method from Slice
func (r Tour) At(i int) interface{} {
	return r.Indices[i]
}

// Set method from Slice
func (r Tour) Set(i int, v interface{}) {
	r.Indices[i] = v.(int)
}

// Len method from Slice
func (r Tour) Len() int {
	return len(r.Indices)
}

// Swap method from Slice
func (r Tour) Swap(i, j int) {
	r.Indices[i], r.Indices[j] = r.Indices[j], r.Indices[i]
}

// Slice method from Slice
func (r Tour) Slice(a, b int) eaopt.Slice {
	return Tour{r.Indices[a:b], r.contigs, r.k}
}

// Split method from Slice
func (r Tour) Split(k int) (eaopt.Slice, eaopt.Slice) {
	return Tour{r.Indices[:k], r.contigs, r.k}, Tour{r.Indices[k:], r.contigs, r.k}
}

// Append method from Slice
func (r Tour) Append(q eaopt.Slice) eaopt.Slice {
	return Tour{append(r.Indices, q.(Tour).Indices...), r.contigs, r.k}
}

// Replace method from Slice
func (r Tour) Replace(q eaopt.Slice) {
	copy(r.Indices, q.(Tour).Indices)
}

// Copy method from Slice
func (r Tour) Copy() eaopt.Slice {
	indices := make([]int, len(r.Indices))
	copy(indices, r.Indices)
	return Tour{indices, r.contigs, r.k}
}

// Evaluate sums the unmatched symbols between consecutive contigs
func (r Tour) Evaluate() (float64, error) {
	cost := 0.0
	for i := 0; i+1 < len(r.Indices); i++ {
		a := r.contigs[r.Indices[i]]
		b := r.contigs[r.Indices[i+1]]
		overlap := connectionOverlap(a.Sequence, b.Sequence, r.k)
		cost += float64(r.k - 1 - overlap)
	}
	return cost, nil
}

// Mutate swaps a few contigs around
func (r Tour) Mutate(rng *rand.Rand) {
	eaopt.MutPermute(r, 2, rng)
}

// Crossover applies ordered crossover with another tour
func (r Tour) Crossover(q eaopt.Genome, rng *rand.Rand) {
	eaopt.CrossOX(r, q.(Tour), rng)
}

// Clone makes an independent copy of the tour
func (r Tour) Clone() eaopt.Genome {
	return r.Copy().(Tour)
}

// GAOrder evolves a contig ordering that minimizes unmatched symbols and
// returns the best permutation found, for use as the connector's scan
// order. The contigs must be sorted by descending confidence; the first
// tour seeded into the population is the identity ordering so the GA can
// only improve on the plain confidence scan.
func GAOrder(contigs []*Contig, k, npop, ngen int, rng *rand.Rand) []int {
	if len(contigs) < 3 {
		return nil
	}

	conf := eaopt.NewDefaultGAConfig()
	conf.PopSize = uint(npop)
	conf.NGenerations = uint(ngen)
	conf.RNG = rng
	ga, err := conf.NewGA()
	if err != nil {
		log.Warningf("GA setup failed, keeping confidence order: %v", err)
		return nil
	}

	first := true
	err = ga.Minimize(func(rng *rand.Rand) eaopt.Genome {
		indices := make([]int, len(contigs))
		if first {
			first = false
			for i := range indices {
				indices[i] = i
			}
		} else {
			copy(indices, rng.Perm(len(contigs)))
		}
		return Tour{indices, contigs, k}
	})
	if err != nil {
		log.Warningf("GA run failed, keeping confidence order: %v", err)
		return nil
	}

	best := ga.HallOfFame[0]
	log.Noticef("GA contig ordering converged with %d unmatched symbols", int(best.Fitness))
	return best.Genome.(Tour).Indices
}
