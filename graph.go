/*
 * Filename: /Users/marcin/code/sbh/graph.go
 * Path: /Users/marcin/code/sbh
 * Created Date: Sunday, March 3rd 2024, 10:02:17 am
 * Author: marcin
 *
 * Copyright (c) 2024 Marcin Konicki
 */

package sbh

import (
	"sort"
)

// Edge is one directed de Bruijn edge. There is exactly one Edge per k-mer
// occurrence, so a k-mer with multiplicity 3 contributes 3 parallel edges.
type Edge struct {
	To     string
	Kmer   string
	Weight float64
}

// Graph is a directed multigraph over (k-1)-length node strings. Nodes are
// implicit: a node exists iff some edge references it.
type Graph map[string][]Edge

// BuildGraph makes the de Bruijn graph of a spectrum. Edge weights combine
// k-mer multiplicity with a reliability score, so that noisy one-off k-mers
// carry less pull during path search.
func BuildGraph(spectrum *Spectrum) Graph {
	reliability := kmerReliability(spectrum)
	G := make(Graph)
	for _, value := range spectrum.Values {
		prefix, suffix := value[:len(value)-1], value[1:]
		weight := reliability[value] * float64(spectrum.Counts[value])
		for i := 0; i < spectrum.Counts[value]; i++ {
			G[prefix] = append(G[prefix], Edge{To: suffix, Kmer: value, Weight: weight})
		}
		if _, ok := G[suffix]; !ok {
			G[suffix] = nil
		}
	}
	nEdges := 0
	for _, out := range G {
		nEdges += len(out)
	}
	log.Debugf("Graph contains %d nodes and %d edges", len(G), nEdges)
	return G
}

// kmerReliability scores each distinct k-mer by how well its frequency and
// neighborhood agree with the rest of the spectrum.
func kmerReliability(spectrum *Spectrum) map[string]float64 {
	reliability := make(map[string]float64, spectrum.Unique())
	if spectrum.Unique() == 0 {
		return reliability
	}
	avgCount := float64(spectrum.Total()) / float64(spectrum.Unique())

	for _, value := range spectrum.Values {
		score := minf(1.0, float64(spectrum.Counts[value])/avgCount)
		prefix, suffix := value[:len(value)-1], value[1:]
		neighbors := 0
		for _, other := range spectrum.Values {
			if other[:len(other)-1] == prefix {
				neighbors++
			}
			if other[1:] == suffix {
				neighbors++
			}
		}
		score *= minf(1.0, float64(neighbors)/10.0)
		reliability[value] = score
	}
	return reliability
}

// outDegree counts edges leaving a node
func (g Graph) outDegree(node string) int {
	return len(g[node])
}

// inDegrees counts incoming edges for every node in one pass
func (g Graph) inDegrees() map[string]int {
	in := make(map[string]int, len(g))
	for node := range g {
		if _, ok := in[node]; !ok {
			in[node] = 0
		}
	}
	for _, out := range g {
		for _, e := range out {
			in[e.To]++
		}
	}
	return in
}

// Components splits the graph into weakly connected components, each listed
// as a sorted slice of node names.
func (g Graph) Components() [][]string {
	parent := map[string]string{}
	var find func(x string) string
	find = func(x string) string {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b string) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}
	for node := range g {
		parent[node] = node
	}
	for node, out := range g {
		for _, e := range out {
			union(node, e.To)
		}
	}
	grouped := map[string][]string{}
	for node := range g {
		root := find(node)
		grouped[root] = append(grouped[root], node)
	}
	components := make([][]string, 0, len(grouped))
	for _, nodes := range grouped {
		sort.Strings(nodes)
		components = append(components, nodes)
	}
	sort.Slice(components, func(i, j int) bool {
		if len(components[i]) != len(components[j]) {
			return len(components[i]) > len(components[j])
		}
		return components[i][0] < components[j][0]
	})
	return components
}

// Subgraph restricts the graph to the given nodes
func (g Graph) Subgraph(nodes []string) Graph {
	keep := map[string]bool{}
	for _, node := range nodes {
		keep[node] = true
	}
	sub := make(Graph, len(nodes))
	for node, out := range g {
		if !keep[node] {
			continue
		}
		sub[node] = nil
		for _, e := range out {
			if keep[e.To] {
				sub[node] = append(sub[node], e)
			}
		}
	}
	return sub
}

// EulerianWalk runs an explicit stack-based Hierholzer walk from start and
// returns the k-mers labelling the edges, in traversal order. Each parallel
// edge is consumed exactly once via a per-node cursor, so there is no shared
// mutable recursion state and no exception-driven control flow.
func (g Graph) EulerianWalk(start string) []string {
	type step struct {
		node string
		kmer string
	}
	// Heavier edges first so the greedy walk prefers reliable k-mers
	ordered := make(map[string][]Edge, len(g))
	for node, out := range g {
		edges := make([]Edge, len(out))
		copy(edges, out)
		sort.SliceStable(edges, func(i, j int) bool {
			if edges[i].Weight != edges[j].Weight {
				return edges[i].Weight > edges[j].Weight
			}
			return edges[i].Kmer < edges[j].Kmer
		})
		ordered[node] = edges
	}

	cursor := map[string]int{}
	stack := []step{{node: start}}
	var circuit []step
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		if cursor[cur.node] < len(ordered[cur.node]) {
			e := ordered[cur.node][cursor[cur.node]]
			cursor[cur.node]++
			stack = append(stack, step{node: e.To, kmer: e.Kmer})
		} else {
			circuit = append(circuit, cur)
			stack = stack[:len(stack)-1]
		}
	}

	// The circuit comes out reversed, with the artificial start step last
	kmers := make([]string, 0, len(circuit))
	for i := len(circuit) - 1; i >= 0; i-- {
		if circuit[i].kmer != "" {
			kmers = append(kmers, circuit[i].kmer)
		}
	}
	return kmers
}

// WalkStart picks the canonical start node for an Eulerian walk: a node with
// more outgoing than incoming edges if one exists, otherwise the
// lexicographically smallest node with any outgoing edge.
func (g Graph) WalkStart() (string, bool) {
	in := g.inDegrees()
	best := ""
	for node := range g {
		if g.outDegree(node) > in[node] {
			if best == "" || node < best {
				best = node
			}
		}
	}
	if best != "" {
		return best, true
	}
	for node := range g {
		if g.outDegree(node) > 0 {
			if best == "" || node < best {
				best = node
			}
		}
	}
	return best, best != ""
}
