package experience

import (
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

// ComposeText returns the text analyzed for a résumé: the raw text when present,
// otherwise the non-empty structured fields joined with spaces
func ComposeText(resume *types.Resume) string {
	if resume == nil {
		return ""
	}
	if strings.TrimSpace(resume.RawText) != "" {
		return resume.RawText
	}

	parts := make([]string, 0)
	add := func(values ...string) {
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				parts = append(parts, v)
			}
		}
	}

	add(resume.Summary)
	for _, w := range resume.WorkExperience {
		add(w.Title, w.Company, w.Location, w.StartDate, w.EndDate, w.Description)
		add(w.Achievements...)
	}
	for _, e := range resume.Education {
		add(e.Degree, e.Field, e.Institution, e.StartDate, e.EndDate)
	}
	for _, s := range resume.Skills {
		add(s.Name, s.Category, s.Level)
	}
	for _, c := range resume.Certifications {
		add(c.Name, c.Issuer)
	}
	for _, p := range resume.Projects {
		add(p.Name, p.Description)
		add(p.Technologies...)
	}

	return strings.Join(parts, " ")
}
