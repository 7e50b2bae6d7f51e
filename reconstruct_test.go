/*
 *  reconstruct_test.go
 *  sbh
 *
 *  Created by Marcin Konicki on 03/10/24
 *  Copyright © 2024 Marcin Konicki. All rights reserved.
 */

package sbh_test

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/mkonicki/sbh"
)

func TestReconstructRoundTrip(t *testing.T) {
	// Spectrum of ACGTACGT with k = 3, duplicates included
	spectrum := []string{"ACG", "CGT", "GTA", "TAC", "ACG", "CGT"}
	got, err := sbh.Reconstruct(spectrum, 8, 3)
	if err != nil {
		t.Fatalf("Reconstruct returned error: %v", err)
	}
	expected := "ACGTACGT"
	if got != expected {
		t.Errorf("Reconstruct()=%s; want %s", got, expected)
	}
}

func TestReconstructInvalidInput(t *testing.T) {
	cases := []struct {
		name     string
		spectrum []string
		length   int
		k        int
	}{
		{"empty spectrum", nil, 10, 3},
		{"k not positive", []string{"ACG"}, 10, 0},
		{"target shorter than k", []string{"ACG"}, 2, 3},
		{"k-mer length mismatch", []string{"ACG", "CGTA"}, 10, 3},
	}
	for _, c := range cases {
		_, err := sbh.Reconstruct(c.spectrum, c.length, c.k)
		if !errors.Is(err, sbh.ErrInvalidInput) {
			t.Errorf("%s: got error %v; want ErrInvalidInput", c.name, err)
		}
	}
}

func TestReconstructRepeatedKmer(t *testing.T) {
	// A spectrum of one repeated homopolymer k-mer must terminate and never
	// exceed the target
	got, err := sbh.Reconstruct([]string{"AAA", "AAA", "AAA"}, 5, 3)
	if err != nil {
		t.Fatalf("Reconstruct returned error: %v", err)
	}
	if len(got) > 5 || len(got) < 3 {
		t.Errorf("got %d bp; want between 3 and 5", len(got))
	}
	if !sbh.CleanSequence(got) {
		t.Errorf("sequence %q leaves the alphabet", got)
	}
}

func TestReconstructDisconnectedSpectrum(t *testing.T) {
	// TTT shares no overlap with the ACG-CGT chain, so reaching the target
	// requires a gap jump
	spectrum := []string{"ACG", "CGT", "TTT"}
	got, err := sbh.Reconstruct(spectrum, 12, 3)
	if err != nil {
		t.Fatalf("Reconstruct returned error: %v", err)
	}
	if len(got) > 12 || len(got) < 4 {
		t.Errorf("got %d bp; want between 4 and 12", len(got))
	}
	if !sbh.CleanSequence(got) {
		t.Errorf("sequence %q leaves the alphabet", got)
	}
	if !strings.Contains(got, "TTT") {
		t.Errorf("sequence %q never places the disconnected k-mer", got)
	}
}

func TestReconstructNoisySpectrum(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	sequence, err := sbh.RandomSequence(300, rng)
	if err != nil {
		t.Fatalf("RandomSequence returned error: %v", err)
	}
	spectrum, err := sbh.GenerateSpectrum(sequence, 8, 0.05, 0.05, rng)
	if err != nil {
		t.Fatalf("GenerateSpectrum returned error: %v", err)
	}
	got, err := sbh.Reconstruct(spectrum, 300, 8)
	if err != nil {
		t.Fatalf("Reconstruct returned error: %v", err)
	}
	if len(got) > 300 {
		t.Errorf("got %d bp; want at most 300", len(got))
	}
	if !sbh.CleanSequence(got) {
		t.Errorf("reconstruction leaves the alphabet: %q", got)
	}
}

func TestReconstructDeterministic(t *testing.T) {
	spectrum := []string{"ACG", "CGT", "GTA", "TAC", "ACG", "CGT", "TTT"}
	first, err := sbh.Reconstruct(spectrum, 10, 3)
	if err != nil {
		t.Fatalf("Reconstruct returned error: %v", err)
	}
	second, err := sbh.Reconstruct(spectrum, 10, 3)
	if err != nil {
		t.Fatalf("Reconstruct returned error: %v", err)
	}
	if first != second {
		t.Errorf("two identical runs disagree: %s vs %s", first, second)
	}
}

func TestReconstructDoesNotMutateInput(t *testing.T) {
	spectrum := []string{"ACG", "CGT", "GTA", "TAC", "ACG", "CGT"}
	original := make([]string, len(spectrum))
	copy(original, spectrum)
	if _, err := sbh.Reconstruct(spectrum, 8, 3); err != nil {
		t.Fatalf("Reconstruct returned error: %v", err)
	}
	for i := range spectrum {
		if spectrum[i] != original[i] {
			t.Fatalf("input spectrum mutated at %d: %s vs %s", i, spectrum[i], original[i])
		}
	}
}

func TestSimilarity(t *testing.T) {
	if got := sbh.Similarity("ACGT", "ACGT"); got != 1.0 {
		t.Errorf("Similarity(identical)=%f; want 1", got)
	}
	if got := sbh.Similarity("ACGT", "ACGA"); got != 0.75 {
		t.Errorf("Similarity(one mismatch)=%f; want 0.75", got)
	}
	// Compared over the longer length
	if got := sbh.Similarity("ACGTACGT", "ACGT"); got != 0.5 {
		t.Errorf("Similarity(half length)=%f; want 0.5", got)
	}
	if got := sbh.Similarity("", ""); got != 1.0 {
		t.Errorf("Similarity(empty)=%f; want 1", got)
	}
}

func TestCleanSequence(t *testing.T) {
	if !sbh.CleanSequence("ACGTNNACGT") {
		t.Error("gapped DNA flagged as dirty")
	}
	if sbh.CleanSequence("ACGTX") {
		t.Error("foreign symbol not flagged")
	}
}
