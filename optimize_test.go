/**
 * Filename: /Users/marcin/code/sbh/optimize_test.go
 * Path: /Users/marcin/code/sbh
 * Created Date: Wednesday, March 13th 2024, 8:40:21 pm
 * Author: marcin
 *
 * Copyright (c) 2024 Marcin Konicki
 */

package sbh_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/mkonicki/sbh"
)

func TestGAOrderPermutation(t *testing.T) {
	contigs := []*sbh.Contig{
		contig("ACGTA", 0.8, "ACG", "CGT", "GTA"),
		contig("TACCC", 0.7, "TAC", "ACC", "CCC"),
		contig("TAGGG", 0.6, "TAG", "AGG", "GGG"),
		contig("GGGTT", 0.5, "GGG", "GGT", "GTT"),
	}
	rng := rand.New(rand.NewSource(42))
	order := sbh.GAOrder(contigs, 3, 20, 10, rng)
	if order == nil {
		t.Fatal("GAOrder returned nil for a valid contig set")
	}
	if len(order) != len(contigs) {
		t.Fatalf("got order of length %d; want %d", len(order), len(contigs))
	}
	check := make([]int, len(order))
	copy(check, order)
	sort.Ints(check)
	for i, idx := range check {
		if idx != i {
			t.Fatalf("order %v is not a permutation of the contig indices", order)
		}
	}
}

func TestGAOrderTooFewContigs(t *testing.T) {
	contigs := []*sbh.Contig{
		contig("ACGTA", 0.8, "ACG", "CGT", "GTA"),
		contig("TACCC", 0.7, "TAC", "ACC", "CCC"),
	}
	rng := rand.New(rand.NewSource(42))
	if order := sbh.GAOrder(contigs, 3, 20, 10, rng); order != nil {
		t.Errorf("GAOrder(%d contigs)=%v; want nil", len(contigs), order)
	}
}

func TestTourEvaluate(t *testing.T) {
	contigs := []*sbh.Contig{
		contig("ACGTA", 0.8, "ACG", "CGT", "GTA"),
		contig("TAGGG", 0.7, "TAG", "AGG", "GGG"),
		contig("CCCAA", 0.6, "CCC", "CCA", "CAA"),
	}
	// ACGTA-TAGGG overlap 2 costs 0 unmatched symbols; TAGGG-CCCAA
	// overlap 0 costs 2
	tour := sbh.NewTour([]int{0, 1, 2}, contigs, 3)
	fitness, err := tour.Evaluate()
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if fitness != 2.0 {
		t.Errorf("Evaluate()=%f; want 2", fitness)
	}
}
