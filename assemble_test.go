/*
 *  assemble_test.go
 *  sbh
 *
 *  Created by Marcin Konicki on 03/08/24
 *  Copyright © 2024 Marcin Konicki. All rights reserved.
 */

package sbh_test

import (
	"math"
	"testing"

	"github.com/mkonicki/sbh"
)

func TestPathToSequence(t *testing.T) {
	got, ok := sbh.PathToSequence([]string{"ACG", "CGT", "GTT"})
	if !ok || got != "ACGTT" {
		t.Errorf("PathToSequence()=%s, %v; want ACGTT, true", got, ok)
	}
}

func TestPathToSequenceBrokenOverlap(t *testing.T) {
	got, ok := sbh.PathToSequence([]string{"ACG", "TTT"})
	if ok {
		t.Error("broken overlap not flagged")
	}
	// The prefix before the break is preserved
	if got != "ACG" {
		t.Errorf("PathToSequence()=%s; want the ACG prefix", got)
	}
}

func TestPathToSequenceEmpty(t *testing.T) {
	got, ok := sbh.PathToSequence(nil)
	if !ok || got != "" {
		t.Errorf("PathToSequence(nil)=%q, %v; want empty, true", got, ok)
	}
}

func TestValidateFullCoverage(t *testing.T) {
	spectrum := []string{"ACG", "CGT", "GTA", "TAC", "ACG", "CGT"}
	valid, coverage := sbh.Validate("ACGTACGT", spectrum, 3)
	if !valid {
		t.Error("perfect reconstruction flagged invalid")
	}
	if math.Abs(coverage-100.0) > 1e-9 {
		t.Errorf("coverage %f; want 100", coverage)
	}
}

func TestValidatePartialCoverage(t *testing.T) {
	// TTT never appears in the sequence: 4 of 5 distinct k-mers covered
	spectrum := []string{"ACG", "CGT", "GTA", "TAC", "TTT"}
	valid, coverage := sbh.Validate("ACGTACGT", spectrum, 3)
	if valid {
		t.Error("incomplete reconstruction flagged valid")
	}
	if math.Abs(coverage-80.0) > 1e-9 {
		t.Errorf("coverage %f; want 80", coverage)
	}
}

func TestValidateEmptySpectrum(t *testing.T) {
	valid, coverage := sbh.Validate("ACGT", nil, 3)
	if !valid || coverage != 0 {
		t.Errorf("Validate(empty)=%v, %f; want true, 0", valid, coverage)
	}
}
