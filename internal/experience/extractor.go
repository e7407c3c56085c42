package experience

import (
	"regexp"
	"strings"
	"time"

	"github.com/jonathan/resume-matcher/internal/ingestion"
	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/types"
)

var (
	overYearsRe     = regexp.MustCompile(`(?i)over\s*(\d+)\s*years?`)
	moreThanYearsRe = regexp.MustCompile(`(?i)more\s*than\s*(\d+)\s*years?`)

	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe = regexp.MustCompile(`(?:\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)

	positionRes = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^[ \t]*([A-Z][a-zA-Z \t]*(?:Engineer|Developer|Manager|Analyst|Specialist|Coordinator|Director))`),
		regexp.MustCompile(`(?:Title|Position|Role):[ \t]*([A-Z][a-zA-Z \t]+)`),
	}
)

// educationTable lists résumé degree vocabulary from the highest level down
var educationTable = parsing.VoteTable{
	{Category: types.EducationPhD, Keywords: []string{"phd", "ph.d", "doctorate", "doctoral", "doctor of philosophy"}},
	{Category: types.EducationMasters, Keywords: []string{"masters", "master", "ms", "m.s", "mba", "m.b.a", "m.a"}},
	{Category: types.EducationBachelors, Keywords: []string{"bachelors", "bachelor", "bs", "b.s", "ba", "b.a", "btech", "b.tech"}},
	{Category: types.EducationAssociates, Keywords: []string{"associates", "associate", "a.s", "aa", "a.a"}},
	{Category: types.EducationCertificate, Keywords: []string{"certificate", "certification", "diploma", "bootcamp"}},
	{Category: types.EducationHighSchool, Keywords: []string{"high school", "secondary", "diploma", "ged"}},
}

// Option configures an Extractor
type Option func(*Extractor)

// WithClock sets the clock used to close open-ended positions
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
	}
}

// Extractor derives ResumeFacets from résumé text and the structured record
type Extractor struct {
	now func() time.Time
}

// NewExtractor creates an Extractor
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze extracts the candidate-side facets. The record may be nil; missing
// data yields neutral values rather than an error. Education comes only from
// the declared degrees, so a text-only résumé reports unknown.
func (e *Extractor) Analyze(text string, resume *types.Resume) *types.ResumeFacets {
	facets := &types.ResumeFacets{
		Seniority: parsing.DetectSeniority(text),
		Contact:   DetectContact(text, resume),
		Positions: DetectPositions(text, resume),
		Sections:  ingestion.DetectSections(text),
	}

	if years, ok := parsing.ExtractYears(text, overYearsRe, moreThanYearsRe); ok {
		facets.TotalYears = float64(years)
	} else if resume != nil {
		facets.TotalYears = WorkHistoryYears(resume.WorkExperience, e.now())
	}

	facets.HighestEducation = types.EducationUnknown
	if resume != nil {
		facets.HighestEducation = HighestDegree(resume.Education)
		for _, entry := range resume.Education {
			if field := strings.TrimSpace(entry.Field); field != "" {
				facets.FieldsOfStudy = append(facets.FieldsOfStudy, field)
			}
		}
	}

	return facets
}

// HighestDegree returns the highest education level named by the declared degrees
func HighestDegree(entries []types.EducationEntry) string {
	best := types.EducationUnknown
	for _, entry := range entries {
		level := HighestLevel(entry.Degree)
		if parsing.EducationRank(level) > parsing.EducationRank(best) {
			best = level
		}
	}
	return best
}

// HighestLevel returns the highest education level named in a degree title, or unknown
func HighestLevel(text string) string {
	_, counts := educationTable.Vote(text, types.EducationUnknown)
	for i, entry := range educationTable {
		if counts[i] > 0 {
			return entry.Category
		}
	}
	return types.EducationUnknown
}

// DetectContact reports whether an email address and a phone number appear in
// the text or in the record's contact fields
func DetectContact(text string, resume *types.Resume) types.ContactPresence {
	c := types.ContactPresence{
		HasEmail: emailRe.MatchString(text),
		HasPhone: phoneRe.MatchString(text),
	}
	if resume != nil {
		c.HasEmail = c.HasEmail || emailRe.MatchString(resume.Email)
		c.HasPhone = c.HasPhone || phoneRe.MatchString(resume.Phone)
	}
	return c
}

// DetectPositions returns job titles found in the text followed by the titles
// of the structured work experience, without duplicates
func DetectPositions(text string, resume *types.Resume) []string {
	positions := make([]string, 0)
	seen := make(map[string]bool)
	add := func(title string) {
		title = strings.Join(strings.Fields(title), " ")
		key := strings.ToLower(title)
		if title == "" || seen[key] {
			return
		}
		seen[key] = true
		positions = append(positions, title)
	}

	for _, re := range positionRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			add(m[1])
		}
	}
	if resume != nil {
		for _, w := range resume.WorkExperience {
			add(w.Title)
		}
	}
	return positions
}
