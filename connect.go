/*
 *  connect.go
 *  sbh
 *
 *  Created by Marcin Konicki on 03/05/24
 *  Copyright © 2024 Marcin Konicki. All rights reserved.
 */

package sbh

import (
	"sort"
	"strings"

	hungarianAlgorithm "github.com/oddg/hungarian-algorithm"
)

// ConnectContigs greedily merges contigs into one seed sequence. The most
// confident contig seeds the sequence; afterwards the remaining contigs are
// scanned for the first one whose prefix overlaps the current tail, and its
// non-overlapping remainder is appended. Contigs merge at most once.
//
// scanOrder, when non-nil, is a preference permutation over the
// confidence-sorted contigs (see assignmentOrder and GAOrder); it changes
// which overlap is found first, never whether an overlap is accepted.
func ConnectContigs(contigs []*Contig, targetLength, k int, scanOrder []int) string {
	if len(contigs) == 0 {
		return ""
	}
	sorted := make([]*Contig, len(contigs))
	copy(sorted, contigs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	seed := sorted[0]
	sequence := seed.Sequence
	used := map[string]bool{}
	markUsed(used, seed)

	remaining := sorted[1:]
	if scanOrder != nil {
		remaining = permuteRemaining(sorted, scanOrder)
	}

	for len(sequence) < targetLength && len(remaining) > 0 {
		merged := false
		for i, contig := range remaining {
			tail, ok := findConnection(sequence, contig.Sequence, k)
			if !ok {
				continue
			}
			sequence += tail
			markUsed(used, contig)
			remaining = append(remaining[:i], remaining[i+1:]...)
			merged = true
			break
		}
		if !merged {
			break
		}
	}

	log.Noticef("Connected contigs into a %d bp seed covering %d reliable k-mers (%d contigs left over)",
		len(sequence), len(used), len(remaining))
	return sequence
}

// findConnection looks for a suffix/prefix overlap between the sequence
// tail and a contig, from k-1 symbols down to 1. It returns the
// non-overlapping remainder of the contig.
func findConnection(sequence, contig string, k int) (string, bool) {
	for overlap := min(k-1, len(contig)); overlap > 0; overlap-- {
		if strings.HasSuffix(sequence, contig[:overlap]) {
			return contig[overlap:], true
		}
	}
	return "", false
}

// connectionOverlap measures the overlap findConnection would accept
func connectionOverlap(sequence, contig string, k int) int {
	for overlap := min(k-1, len(contig)); overlap > 0; overlap-- {
		if strings.HasSuffix(sequence, contig[:overlap]) {
			return overlap
		}
	}
	return 0
}

func markUsed(used map[string]bool, contig *Contig) {
	for kmer := range contig.Support {
		used[kmer] = true
	}
}

// permuteRemaining reorders sorted[1:] according to a preference
// permutation over all contig indices; indices that the permutation leaves
// out keep their confidence order at the end.
func permuteRemaining(sorted []*Contig, scanOrder []int) []*Contig {
	taken := map[int]bool{0: true}
	remaining := make([]*Contig, 0, len(sorted)-1)
	for _, idx := range scanOrder {
		if idx <= 0 || idx >= len(sorted) || taken[idx] {
			continue
		}
		taken[idx] = true
		remaining = append(remaining, sorted[idx])
	}
	for i := 1; i < len(sorted); i++ {
		if !taken[i] {
			remaining = append(remaining, sorted[i])
		}
	}
	return remaining
}

// assignmentOrder proposes a scan order for the connector by solving an
// assignment problem over pairwise contig overlaps: every contig gets the
// successor that maximizes the suffix/prefix overlap, and the successor
// chain starting at the seed becomes the preference order. The contigs must
// already be sorted by descending confidence.
func assignmentOrder(sorted []*Contig, k int) []int {
	n := len(sorted)
	if n < 2 || n > MaxAssignmentContigs {
		return nil
	}

	// Weights are overlap lengths; the solver minimizes cost, so convert
	// by subtracting from the largest weight.
	weights := make([][]int, n)
	maxCell := 0
	for i := range weights {
		weights[i] = make([]int, n)
		for j := range weights[i] {
			if i == j {
				continue
			}
			weights[i][j] = connectionOverlap(sorted[i].Sequence, sorted[j].Sequence, k)
			maxCell = max(maxCell, weights[i][j])
		}
	}
	costs := make([][]int, n)
	for i := range costs {
		costs[i] = make([]int, n)
		for j := range costs[i] {
			costs[i][j] = maxCell - weights[i][j]
			if i == j {
				costs[i][j] = maxCell + 1
			}
		}
	}
	successor, err := hungarianAlgorithm.Solve(costs)
	if err != nil {
		return nil
	}

	// Follow the successor chain from the seed; assignment cycles end the
	// chain at the first revisit.
	order := make([]int, 0, n-1)
	seen := map[int]bool{0: true}
	for at := successor[0]; !seen[at]; at = successor[at] {
		seen[at] = true
		order = append(order, at)
	}
	return order
}
