/*
 *  contig.go
 *  sbh
 *
 *  Created by Marcin Konicki on 03/05/24
 *  Copyright © 2024 Marcin Konicki. All rights reserved.
 */

package sbh

import "sort"

// contigGraph is a restricted overlap graph whose nodes are the reliable
// k-mers themselves. An edge runs A -> B when B's (k-1)-prefix equals A's
// (k-1)-suffix.
type contigGraph struct {
	nodes []string
	out   map[string][]string
	in    map[string]int
}

// buildOverlapGraph wires reliable k-mers by full (k-1) overlap. Edges over
// low-complexity overlaps are carried but weight-penalized, which keeps the
// successor ordering away from homopolymer joins.
func buildOverlapGraph(reliable map[string]bool) *contigGraph {
	g := &contigGraph{
		out: map[string][]string{},
		in:  map[string]int{},
	}
	for kmer := range reliable {
		g.nodes = append(g.nodes, kmer)
	}
	sort.Strings(g.nodes)

	type weighted struct {
		to     string
		weight float64
	}
	for _, a := range g.nodes {
		suffix := a[1:]
		var successors []weighted
		for _, b := range g.nodes {
			if a == b || b[:len(b)-1] != suffix {
				continue
			}
			weight := 1.0
			if lowComplexity(suffix, JumpComplexity) {
				weight *= 0.5
			}
			successors = append(successors, weighted{to: b, weight: weight})
			g.in[b]++
		}
		sort.SliceStable(successors, func(i, j int) bool {
			if successors[i].weight != successors[j].weight {
				return successors[i].weight > successors[j].weight
			}
			return successors[i].to < successors[j].to
		})
		for _, s := range successors {
			g.out[a] = append(g.out[a], s.to)
		}
	}
	return g
}

// BuildContigs extracts maximal non-branching paths from the overlap graph
// of reliable k-mers. Every path of at least two k-mers becomes a Contig;
// each k-mer is consumed by at most one contig.
func BuildContigs(reliable map[string]bool, k int) []*Contig {
	g := buildOverlapGraph(reliable)
	visited := map[string]bool{}
	var contigs []*Contig

	for _, start := range g.nodes {
		if visited[start] {
			continue
		}
		// Contigs begin at sources and at branch points
		if g.in[start] != 0 && g.in[start] <= 1 {
			continue
		}
		path := g.followSimplePath(start, visited)
		if len(path) < 2 {
			continue
		}
		contigs = append(contigs, contigFromPath(path))
	}

	log.Noticef("Built %d contigs from %d reliable k-mers", len(contigs), len(reliable))
	return contigs
}

// followSimplePath walks from start while there is exactly one unvisited
// successor and that successor has in-degree 1, so the path never crosses a
// branch or a convergence.
func (g *contigGraph) followSimplePath(start string, visited map[string]bool) []string {
	path := []string{start}
	visited[start] = true
	current := start
	for {
		var next string
		unvisited := 0
		for _, succ := range g.out[current] {
			if !visited[succ] {
				unvisited++
				next = succ
			}
		}
		if unvisited != 1 || g.in[next] != 1 {
			break
		}
		path = append(path, next)
		visited[next] = true
		current = next
	}
	return path
}

// contigFromPath assembles the path into a fragment: the first k-mer plus
// the final symbol of each subsequent k-mer. Confidence grows with path
// length and saturates at 0.8.
func contigFromPath(path []string) *Contig {
	sequence := []byte(path[0])
	support := map[string]bool{}
	for i, kmer := range path {
		support[kmer] = true
		if i > 0 {
			sequence = append(sequence, kmer[len(kmer)-1])
		}
	}
	confidence := 0.5 + 0.3*minf(float64(len(path))/10.0, 1.0)
	return &Contig{
		Sequence:   string(sequence),
		Confidence: confidence,
		StartKmer:  path[0],
		EndKmer:    path[len(path)-1],
		Support:    support,
	}
}
