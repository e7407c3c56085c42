// Package parsing provides the job-posting analyzer and the vocabularies shared
// with résumé analysis.
package parsing

import (
	"regexp"
	"strconv"

	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/jonathan/resume-matcher/internal/types"
)

// VoteTable is an ordered keyword-to-category table. Order breaks ties.
type VoteTable []VoteEntry

// VoteEntry is one category of a VoteTable with its indicator keywords
type VoteEntry struct {
	Category string
	Keywords []string
}

// Vote counts word-boundary keyword hits per category in text and returns the
// category with the most hits, the first declared on a tie, or fallback when
// nothing matched. The per-category counts are returned in table order.
func (t VoteTable) Vote(text, fallback string) (string, []int) {
	normalized := skills.NormalizeText(text)
	counts := make([]int, len(t))
	best, bestCount := fallback, 0
	for i, entry := range t {
		for _, kw := range entry.Keywords {
			counts[i] += skills.CountMentions(normalized, kw)
		}
		if counts[i] > bestCount {
			best, bestCount = entry.Category, counts[i]
		}
	}
	return best, counts
}

// SeniorityTable is the seniority vocabulary used for both job postings and résumés
var SeniorityTable = VoteTable{
	{Category: types.SeniorityEntry, Keywords: []string{"entry", "junior", "intern", "trainee", "graduate", "associate", "beginner"}},
	{Category: types.SeniorityMid, Keywords: []string{"mid", "intermediate", "regular", "standard", "developer", "analyst"}},
	{Category: types.SenioritySenior, Keywords: []string{"senior", "sr", "lead", "principal", "expert", "specialist"}},
	{Category: types.SeniorityExecutive, Keywords: []string{"director", "manager", "head", "chief", "cto", "ceo", "vp", "vice president"}},
}

// seniorityRank orders seniority levels; unknown has rank 0
var seniorityRank = map[string]int{
	types.SeniorityEntry:     1,
	types.SeniorityMid:       2,
	types.SenioritySenior:    3,
	types.SeniorityExecutive: 4,
}

// DetectSeniority returns the seniority level voted by text, or unknown
func DetectSeniority(text string) string {
	level, _ := SeniorityTable.Vote(text, types.SeniorityUnknown)
	return level
}

// SeniorityRank returns the rank of a seniority level, 0 when unknown
func SeniorityRank(level string) int {
	return seniorityRank[level]
}

// educationRank orders education levels; unknown has rank 0
var educationRank = map[string]int{
	types.EducationHighSchool:  1,
	types.EducationCertificate: 2,
	types.EducationAssociates:  3,
	types.EducationBachelors:   4,
	types.EducationMasters:     5,
	types.EducationPhD:         6,
}

// EducationRank returns the hierarchy rank of an education level, 0 when unknown
func EducationRank(level string) int {
	return educationRank[level]
}

// yearsPatterns are the shared years-of-experience patterns. Patterns with two
// groups are ranges and yield their upper bound.
var yearsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years?|yrs?)\s*(?:of\s*)?experience`),
	regexp.MustCompile(`(?i)(\d+)\+\s*(?:years?|yrs?)\b`),
	regexp.MustCompile(`(?i)minimum\s*(?:of\s*)?(\d+)\s*years?`),
	regexp.MustCompile(`(?i)at least\s*(\d+)\s*years?`),
	regexp.MustCompile(`(?i)(\d+)\s*(?:to|-|–)\s*(\d+)\s*(?:years?|yrs?)\b`),
}

// ExtractYears scans text with the shared years patterns plus any extra
// patterns and returns the largest value found
func ExtractYears(text string, extra ...*regexp.Regexp) (int, bool) {
	best, found := 0, false
	patterns := append(append([]*regexp.Regexp{}, yearsPatterns...), extra...)
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			group := m[len(m)-1]
			n, err := strconv.Atoi(group)
			if err != nil {
				continue
			}
			if !found || n > best {
				best, found = n, true
			}
		}
	}
	return best, found
}
