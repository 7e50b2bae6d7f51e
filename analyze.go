/*
 *  analyze.go
 *  sbh
 *
 *  Created by Marcin Konicki on 03/03/24
 *  Copyright © 2024 Marcin Konicki. All rights reserved.
 */

package sbh

import (
	"gonum.org/v1/gonum/stat"
)

// Quality classification cutoffs. First match wins, in this order:
// aggressive, rescue, conservative.
const (
	aggressiveCoverage = 1.2
	aggressiveVariance = 2.0
	rescueCoverage     = 2.0
	rescueVariance     = 10.0
)

// AnalyzeSpectrum classifies a spectrum into a strategy class from its
// coverage ratio (total over unique k-mers) and the variance of per-k-mer
// multiplicities. The returned config is a value: it is computed once per
// run and never mutated afterwards.
func AnalyzeSpectrum(spectrum *Spectrum) StrategyConfig {
	coverage := 1.0
	if spectrum.Unique() > 0 {
		coverage = float64(spectrum.Total()) / float64(spectrum.Unique())
	}

	counts := make([]float64, 0, spectrum.Unique())
	for _, value := range spectrum.Values {
		counts = append(counts, float64(spectrum.Counts[value]))
	}
	variance := 0.0
	if len(counts) > 1 {
		variance = stat.Variance(counts, nil)
	}

	cfg := StrategyConfig{Coverage: coverage, Variance: variance}
	switch {
	case coverage < aggressiveCoverage && variance < aggressiveVariance:
		cfg.Strategy = StrategyAggressive
		cfg.ConfidenceThreshold = 0.5
		cfg.MinFreq = 1
		cfg.MaxFreqFactor = 2.0
	case coverage > rescueCoverage || variance > rescueVariance:
		cfg.Strategy = StrategyRescue
		cfg.ConfidenceThreshold = 0.8
		cfg.MinFreq = 2
		cfg.MaxFreqFactor = 0.8
	default:
		cfg.Strategy = StrategyConservative
		cfg.ConfidenceThreshold = 0.6
		cfg.MinFreq = 1
		cfg.MaxFreqFactor = 1.5
	}

	log.Noticef("Spectrum quality: coverage %.2f, variance %.2f (mean count %.2f)",
		coverage, variance, stat.Mean(counts, nil))
	log.Noticef("Adaptive strategy: %v", cfg.Strategy)
	return cfg
}
