/*
 *  analyze_test.go
 *  sbh
 *
 *  Created by Marcin Konicki on 03/04/24
 *  Copyright © 2024 Marcin Konicki. All rights reserved.
 */

package sbh_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkonicki/sbh"
)

func TestAnalyzeAggressive(t *testing.T) {
	// Every k-mer once: coverage 1.0, variance 0
	spectrum := sbh.NewSpectrum([]string{"ACG", "CGT", "GTA"}, 3)
	cfg := sbh.AnalyzeSpectrum(spectrum)
	assert.Equal(t, sbh.StrategyAggressive, cfg.Strategy)
	assert.Equal(t, 0.5, cfg.ConfidenceThreshold)
	assert.Equal(t, 1, cfg.MinFreq)
	assert.Equal(t, 2.0, cfg.MaxFreqFactor)
}

func TestAnalyzeConservative(t *testing.T) {
	// Coverage 1.5 with mild count variance
	spectrum := sbh.NewSpectrum([]string{"ACG", "CGT", "GTA", "TAC", "ACG", "CGT"}, 3)
	cfg := sbh.AnalyzeSpectrum(spectrum)
	assert.Equal(t, sbh.StrategyConservative, cfg.Strategy)
	assert.Equal(t, 0.6, cfg.ConfidenceThreshold)
	assert.Equal(t, 1, cfg.MinFreq)
	assert.Equal(t, 1.5, cfg.MaxFreqFactor)
	assert.InDelta(t, 1.5, cfg.Coverage, 1e-9)
}

func TestAnalyzeRescue(t *testing.T) {
	// Coverage 3.0 trips the rescue class
	spectrum := sbh.NewSpectrum([]string{"ACG", "ACG", "ACG", "CGT", "CGT", "CGT"}, 3)
	cfg := sbh.AnalyzeSpectrum(spectrum)
	assert.Equal(t, sbh.StrategyRescue, cfg.Strategy)
	assert.Equal(t, 0.8, cfg.ConfidenceThreshold)
	assert.Equal(t, 2, cfg.MinFreq)
	assert.Equal(t, 0.8, cfg.MaxFreqFactor)
}

func TestStrategyString(t *testing.T) {
	assert.Equal(t, "aggressive", sbh.StrategyAggressive.String())
	assert.Equal(t, "conservative", sbh.StrategyConservative.String())
	assert.Equal(t, "rescue", sbh.StrategyRescue.String())
}
