/*
 *  classic.go
 *  sbh
 *
 *  Created by Marcin Konicki on 03/09/24
 *  Copyright © 2024 Marcin Konicki. All rights reserved.
 */

package sbh

import (
	"strings"
	"time"
)

// ClassicReconstruct is the Eulerian-path engine: it walks every edge of
// the de Bruijn graph once, stitching weakly-connected components together
// by their best overlap. On spectra where no full walk exists (error-heavy
// input), it falls back to the adaptive rescue loop seeded with whatever
// the walks produced.
func ClassicReconstruct(spectrum []string, targetLength, k int) (string, error) {
	if err := validateInput(spectrum, targetLength, k); err != nil {
		return "", err
	}
	working := NewSpectrum(spectrum, k)
	G := BuildGraph(working)

	components := G.Components()
	log.Noticef("Found %d connected components", len(components))

	var paths [][]string
	totalEdges := 0
	for _, out := range G {
		totalEdges += len(out)
	}
	walked := 0
	for _, nodes := range components {
		sub := G.Subgraph(nodes)
		start, ok := sub.WalkStart()
		if !ok {
			continue
		}
		path := sub.EulerianWalk(start)
		if len(path) == 0 {
			continue
		}
		walked += len(path)
		paths = append(paths, path)
	}

	sequence := stitchPaths(paths, k)
	if walked < totalEdges || len(sequence) < targetLength {
		log.Noticef("Walk covered %s, extending greedily", Percentage(walked, totalEdges))
		cfg := AnalyzeSpectrum(working)
		sequence = RescueExtend(sequence, working, cfg, RescueOptions{
			Target:        targetLength,
			CandidateSize: DefaultCandidateSize,
			MaxIterations: 2 * targetLength,
			Deadline:      time.Now().Add(DefaultTimeLimit),
		})
	}

	if len(sequence) > targetLength {
		sequence = sequence[:targetLength]
	}
	return sequence, nil
}

// stitchPaths flattens each component walk and repeatedly appends the
// remaining fragment with the best suffix/prefix overlap to the growing
// sequence. Component order puts the largest walk first.
func stitchPaths(paths [][]string, k int) string {
	var fragments []string
	for _, path := range paths {
		fragment, ok := PathToSequence(path)
		if !ok {
			log.Warningf("Component walk broke overlap around %d bp, keeping the prefix", len(fragment))
		}
		if fragment != "" {
			fragments = append(fragments, fragment)
		}
	}
	if len(fragments) == 0 {
		return ""
	}

	sequence := fragments[0]
	remaining := fragments[1:]
	for len(remaining) > 0 {
		bestIdx, bestOverlap := -1, -1
		for i, fragment := range remaining {
			overlap := connectionOverlap(sequence, fragment, k)
			if overlap > bestOverlap {
				bestIdx, bestOverlap = i, overlap
			}
		}
		fragment := remaining[bestIdx]
		if bestOverlap > 0 {
			sequence += fragment[bestOverlap:]
		} else {
			sequence += fragment
		}
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return sequence
}

// padSequence extends a too-short reconstruction with gap symbols; only the
// benchmark uses it to make accuracy comparable across engines.
func padSequence(sequence string, length int) string {
	if len(sequence) >= length {
		return sequence
	}
	return sequence + strings.Repeat(string(Gap), length-len(sequence))
}
