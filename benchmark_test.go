/**
 * Filename: /Users/marcin/code/sbh/benchmark_test.go
 * Path: /Users/marcin/code/sbh
 * Created Date: Friday, March 15th 2024, 7:58:02 pm
 * Author: marcin
 *
 * Copyright (c) 2024 Marcin Konicki
 */

package sbh_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkonicki/sbh"
)

func TestBenchmarkerRun(t *testing.T) {
	csvFile := filepath.Join(t.TempDir(), "benchmark.csv")
	b := &sbh.Benchmarker{
		K:       5,
		N:       30,
		Trials:  3,
		NegRate: 0.1,
		PosRate: 0.1,
		Seed:    42,
		CSVFile: csvFile,
	}
	results := b.Run()
	require.Len(t, results, 3)
	for _, res := range results {
		require.LessOrEqual(t, res.Length, 30)
		require.GreaterOrEqual(t, res.Coverage, 0.0)
		require.LessOrEqual(t, res.Coverage, 100.0)
		require.GreaterOrEqual(t, res.Identity, 0.0)
		require.LessOrEqual(t, res.Identity, 1.0)
	}

	f, err := os.Open(csvFile)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	// Header plus one row per trial
	require.Len(t, records, 4)
	require.Equal(t, []string{"trial", "n", "k", "length", "coverage", "identity", "seconds", "valid"}, records[0])
}

func TestBenchmarkerClassicEngine(t *testing.T) {
	b := &sbh.Benchmarker{
		K:      5,
		N:      25,
		Trials: 2,
		Seed:   7,
		Engine: "classic",
	}
	results := b.Run()
	require.Len(t, results, 2)
	for _, res := range results {
		// Error-free spectra reconstruct completely under the classic engine
		require.Equal(t, 25, res.Length)
	}
}
