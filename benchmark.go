/**
 * Filename: /Users/marcin/code/sbh/benchmark.go
 * Path: /Users/marcin/code/sbh
 * Created Date: Thursday, March 14th 2024, 9:12:30 pm
 * Author: marcin
 *
 * Copyright (c) 2024 Marcin Konicki
 */

package sbh

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/exascience/pargo/parallel"
	"github.com/kshedden/gonpy"
	"github.com/shenwei356/xopen"
	"gonum.org/v1/gonum/stat"
)

// Benchmarker repeatedly generates a random sequence, corrupts its
// spectrum, reconstructs it, and aggregates accuracy and timing. Trials are
// fully independent reconstructions, so they run in parallel; each trial
// owns a rand source derived from Seed so results stay reproducible
// regardless of scheduling.
type Benchmarker struct {
	K       int
	N       int
	Trials  int
	NegRate float64
	PosRate float64
	Seed    int64
	// Engine selects "adaptive" (default) or "classic"
	Engine  string
	GAOrder bool
	// CSVFile and NpyFile, when set, receive the per-trial results for the
	// external report and chart renderers
	CSVFile string
	NpyFile string
}

// TrialResult is one benchmark data point
type TrialResult struct {
	Trial    int
	Length   int
	Coverage float64
	Identity float64
	Seconds  float64
	Valid    bool
}

// Run executes all trials and writes the requested exports
func (r *Benchmarker) Run() []TrialResult {
	log.Noticef("Benchmark: %d trials, n = %d, k = %d, errors -%.0f%% +%.0f%%, engine %s",
		r.Trials, r.N, r.K, r.NegRate*100, r.PosRate*100, r.engine())

	results := make([]TrialResult, r.Trials)
	parallel.Range(0, r.Trials, 0, func(low, high int) {
		for trial := low; trial < high; trial++ {
			results[trial] = r.runTrial(trial)
		}
	})

	coverages := make([]float64, len(results))
	runtimes := make([]float64, len(results))
	valid := 0
	for i, res := range results {
		coverages[i] = res.Coverage
		runtimes[i] = res.Seconds
		if res.Valid {
			valid++
		}
	}
	log.Noticef("Mean coverage %.2f %%, mean runtime %.3f s, valid %s",
		stat.Mean(coverages, nil), stat.Mean(runtimes, nil), Percentage(valid, len(results)))

	if r.CSVFile != "" {
		if err := r.writeCSV(results); err != nil {
			log.Errorf("CSV export failed: %v", err)
		}
	}
	if r.NpyFile != "" {
		if err := r.writeNpy(results); err != nil {
			log.Errorf("npy export failed: %v", err)
		}
	}
	return results
}

func (r *Benchmarker) engine() string {
	if r.Engine == "" {
		return "adaptive"
	}
	return r.Engine
}

// runTrial performs a single generate/corrupt/reconstruct/validate cycle
func (r *Benchmarker) runTrial(trial int) TrialResult {
	rng := rand.New(rand.NewSource(r.Seed + int64(trial)))

	sequence, err := RandomSequence(r.N, rng)
	if err != nil {
		log.Errorf("Trial %d: %v", trial, err)
		return TrialResult{Trial: trial}
	}
	spectrum, err := GenerateSpectrum(sequence, r.K, r.NegRate, r.PosRate, rng)
	if err != nil {
		log.Errorf("Trial %d: %v", trial, err)
		return TrialResult{Trial: trial}
	}

	start := time.Now()
	var reconstructed string
	if r.engine() == "classic" {
		reconstructed, err = ClassicReconstruct(spectrum, len(sequence), r.K)
	} else {
		engine := &Reconstructor{
			Spectrum:     spectrum,
			TargetLength: len(sequence),
			K:            r.K,
			GAOrder:      r.GAOrder,
			Rand:         rng,
		}
		reconstructed, err = engine.Run()
	}
	elapsed := time.Since(start)
	if err != nil {
		log.Errorf("Trial %d: %v", trial, err)
		return TrialResult{Trial: trial}
	}

	valid, coverage := Validate(reconstructed, spectrum, r.K)
	identity := Similarity(padSequence(reconstructed, len(sequence)), sequence)
	return TrialResult{
		Trial:    trial,
		Length:   len(reconstructed),
		Coverage: coverage,
		Identity: identity,
		Seconds:  elapsed.Seconds(),
		Valid:    valid,
	}
}

// writeCSV exports one row per trial for the report renderer
func (r *Benchmarker) writeCSV(results []TrialResult) error {
	w, err := xopen.Wopen(r.CSVFile)
	if err != nil {
		return err
	}
	defer w.Close()

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"trial", "n", "k", "length", "coverage", "identity", "seconds", "valid"}); err != nil {
		return err
	}
	for _, res := range results {
		record := []string{
			strconv.Itoa(res.Trial),
			strconv.Itoa(r.N),
			strconv.Itoa(r.K),
			strconv.Itoa(res.Length),
			fmt.Sprintf("%.2f", res.Coverage),
			fmt.Sprintf("%.4f", res.Identity),
			fmt.Sprintf("%.4f", res.Seconds),
			strconv.FormatBool(res.Valid),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	log.Noticef("Benchmark results written to `%s`", r.CSVFile)
	return nil
}

// writeNpy serializes a trials x 3 matrix (coverage, identity, seconds) for
// the chart renderer
func (r *Benchmarker) writeNpy(results []TrialResult) error {
	w, err := gonpy.NewFileWriter(r.NpyFile)
	if err != nil {
		return err
	}
	w.Shape = []int{len(results), 3}
	data := make([]float64, 0, len(results)*3)
	for _, res := range results {
		data = append(data, res.Coverage, res.Identity, res.Seconds)
	}
	if err := w.WriteFloat64(data); err != nil {
		return err
	}
	log.Noticef("Benchmark matrix written to `%s`", r.NpyFile)
	return nil
}
