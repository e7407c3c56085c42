package ranking

import (
	"math"
	"regexp"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

const (
	neutralKeywordScore  = 50.0
	coverageWeight       = 0.7
	densityWeight        = 0.3
	optimalDensityMin    = 0.5
	optimalDensityMax    = 3.0
	highDensityThreshold = 1.0
)

var wordRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// scoreKeywords measures how many job keywords the résumé uses and how densely
func scoreKeywords(resumeText string, keywords []string) types.KeywordAnalysis {
	analysis := types.KeywordAnalysis{
		MissingKeywords:     []string{},
		HighDensityKeywords: []types.KeywordDensity{},
		Densities:           []types.KeywordDensity{},
	}
	if len(keywords) == 0 {
		analysis.Score = neutralKeywordScore
		return analysis
	}

	words := wordRe.FindAllString(strings.ToLower(resumeText), -1)
	analysis.TotalWords = len(words)
	counts := make(map[string]int, len(words))
	for _, w := range words {
		counts[w]++
	}

	covered, densityTotal := 0, 0.0
	for _, kw := range keywords {
		d := types.KeywordDensity{Keyword: kw, Count: counts[strings.ToLower(kw)]}
		if d.Count == 0 {
			analysis.MissingKeywords = append(analysis.MissingKeywords, kw)
			analysis.Densities = append(analysis.Densities, d)
			continue
		}

		d.Density = round(float64(d.Count)/float64(analysis.TotalWords)*100, 2)
		d.DensityScore = DensityScore(d.Density)
		analysis.Densities = append(analysis.Densities, d)

		covered++
		densityTotal += d.DensityScore
		if d.Density >= highDensityThreshold {
			analysis.HighDensityKeywords = append(analysis.HighDensityKeywords, d)
		}
	}

	analysis.Coverage = float64(covered) / float64(len(keywords)) * 100
	avgDensity := 0.0
	if covered > 0 {
		avgDensity = densityTotal / float64(covered)
	}
	analysis.Score = clamp(coverageWeight*analysis.Coverage + densityWeight*avgDensity)
	return analysis
}

// DensityScore rates a keyword density percentage. The optimal band is
// inclusive; sparse use scales linearly and stuffing is penalized down to 50.
func DensityScore(density float64) float64 {
	switch {
	case density >= optimalDensityMin && density <= optimalDensityMax:
		return 100
	case density < optimalDensityMin:
		return density * 200
	default:
		return math.Max(50, 100-(density-optimalDensityMax)*10)
	}
}
