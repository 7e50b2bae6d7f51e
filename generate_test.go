/*
 *  generate_test.go
 *  sbh
 *
 *  Created by Marcin Konicki on 03/04/24
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

func TestRandomSequence(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	got, err := sbh.RandomSequence(100, rng)
	if err != nil {
		t.Fatalf("RandomSequence returned error: %v", err)
	}
	if len(got) != 100 {
		t.Errorf("got %d bp; want 100", len(got))
	}
	for _, base := range got {
		if !strings.ContainsRune(sbh.Bases, base) {
			t.Fatalf("sequence holds foreign symbol %q", base)
		}
	}
}

func TestRandomSequenceInvalidLength(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	if _, err := sbh.RandomSequence(0, rng); !errors.Is(err, sbh.ErrInvalidInput) {
		t.Errorf("got error %v; want ErrInvalidInput", err)
	}
}

func TestGenerateSpectrumClean(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	spectrum, err := sbh.GenerateSpectrum("ACGTACGTACGT", 3, 0, 0, rng)
	if err != nil {
		t.Fatalf("GenerateSpectrum returned error: %v", err)
	}
	if len(spectrum) != 10 {
		t.Errorf("got %d k-mers; want 10", len(spectrum))
	}
	for _, kmer := range spectrum {
		if len(kmer) != 3 {
			t.Errorf("k-mer %s has wrong length", kmer)
		}
	}
}

func TestGenerateSpectrumNegativeErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	spectrum, err := sbh.GenerateSpectrum("ACGTACGTACGT", 3, 0.5, 0, rng)
	if err != nil {
		t.Fatalf("GenerateSpectrum returned error: %v", err)
	}
	if len(spectrum) != 5 {
		t.Errorf("got %d k-mers after 50%% removal; want 5", len(spectrum))
	}
}

func TestGenerateSpectrumPositiveErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	spectrum, err := sbh.GenerateSpectrum("ACGTACGTACGT", 3, 0, 0.5, rng)
	if err != nil {
		t.Fatalf("GenerateSpectrum returned error: %v", err)
	}
	if len(spectrum) != 15 {
		t.Errorf("got %d k-mers after 50%% spurious additions; want 15", len(spectrum))
	}
}

func TestGenerateSpectrumInvalid(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	if _, err := sbh.GenerateSpectrum("ACGT", 5, 0, 0, rng); !errors.Is(err, sbh.ErrInvalidInput) {
		t.Errorf("k > n: got error %v; want ErrInvalidInput", err)
	}
	if _, err := sbh.GenerateSpectrum("ACGT", 3, -0.1, 0, rng); !errors.Is(err, sbh.ErrInvalidInput) {
		t.Errorf("negative rate: got error %v; want ErrInvalidInput", err)
	}
	if _, err := sbh.GenerateSpectrum("ACGT", 3, 0, 1.5, rng); !errors.Is(err, sbh.ErrInvalidInput) {
		t.Errorf("rate above 1: got error %v; want ErrInvalidInput", err)
	}
}
