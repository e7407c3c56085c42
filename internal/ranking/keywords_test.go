package ranking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDensityScore(t *testing.T) {
	tests := []struct {
		density float64
		want    float64
	}{
		{0.5, 100},
		{0.4, 80},
		{0, 0},
		{1.7, 100},
		{3.0, 100},
		{4.0, 90},
		{10, 50},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, DensityScore(tt.density), 1e-9, "density %v", tt.density)
	}
}

func TestScoreKeywords_CoverageAndDensity(t *testing.T) {
	// 200 words with one python mention is a 0.5% density
	text := "Python " + strings.Repeat("word ", 199)

	got := scoreKeywords(text, []string{"python", "docker"})

	assert.Equal(t, 200, got.TotalWords)
	assert.InDelta(t, 50, got.Coverage, 1e-9)
	assert.InDelta(t, 0.7*50+0.3*100, got.Score, 1e-9)
	assert.Equal(t, []string{"docker"}, got.MissingKeywords)
	assert.Empty(t, got.HighDensityKeywords)

	require.Len(t, got.Densities, 2)
	assert.Equal(t, 1, got.Densities[0].Count)
	assert.InDelta(t, 0.5, got.Densities[0].Density, 1e-9)
	assert.InDelta(t, 100, got.Densities[0].DensityScore, 1e-9)
	assert.Equal(t, 0, got.Densities[1].Count)
}

func TestScoreKeywords_HighDensity(t *testing.T) {
	got := scoreKeywords("kafka kafka stream", []string{"kafka"})

	require.Len(t, got.HighDensityKeywords, 1)
	assert.Equal(t, "kafka", got.HighDensityKeywords[0].Keyword)
	assert.InDelta(t, 66.67, got.HighDensityKeywords[0].Density, 1e-9)
	// Keyword stuffing bottoms out at a density score of 50
	assert.InDelta(t, 0.7*100+0.3*50, got.Score, 1e-9)
}

func TestScoreKeywords_WholeWordsOnly(t *testing.T) {
	got := scoreKeywords("Pythonic code, data-driven", []string{"python", "data"})

	assert.Equal(t, []string{"python"}, got.MissingKeywords)
	assert.Equal(t, 4, got.TotalWords)
}

func TestScoreKeywords_NoKeywords(t *testing.T) {
	got := scoreKeywords("anything at all", nil)

	assert.Equal(t, 50.0, got.Score)
	assert.Empty(t, got.MissingKeywords)
}

func TestScoreKeywords_EmptyResume(t *testing.T) {
	got := scoreKeywords("", []string{"python"})

	assert.Equal(t, 0.0, got.Score)
	assert.Equal(t, []string{"python"}, got.MissingKeywords)
}
