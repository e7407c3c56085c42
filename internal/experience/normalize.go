package experience

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/jonathan/resume-matcher/internal/types"
)

// NormalizeResume validates a résumé record and canonicalizes its skill names
// against the taxonomy. Malformed entries are rejected with the failing field.
func NormalizeResume(resume *types.Resume, taxonomy *skills.Taxonomy) error {
	if resume == nil {
		return &NormalizationError{Message: "resume is nil"}
	}

	if err := resume.Validate(); err != nil {
		return invalidRecord(err)
	}

	NormalizeSkills(resume, taxonomy)
	for i := range resume.Projects {
		resume.Projects[i].Technologies = normalizeNames(resume.Projects[i].Technologies, taxonomy)
	}

	return nil
}

func invalidRecord(err error) *NormalizationError {
	nerr := &NormalizationError{Message: "invalid resume record", Cause: err}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		nerr.Field = fieldErrs[0].Namespace()
	}
	return nerr
}

// NormalizeSkills rewrites declared skills to their canonical names, fills in
// the taxonomy category when missing and drops duplicates, keeping the first
func NormalizeSkills(resume *types.Resume, taxonomy *skills.Taxonomy) {
	normalized := make([]types.SkillEntry, 0, len(resume.Skills))
	seen := make(map[string]struct{})

	for _, entry := range resume.Skills {
		name := CanonicalName(entry.Name, taxonomy)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}

		entry.Name = name
		if entry.Category == "" {
			entry.Category = taxonomy.CategoryOf(name)
		}
		normalized = append(normalized, entry)
	}

	resume.Skills = normalized
}

// CanonicalName returns the taxonomy name for a skill, or the trimmed input
// when the taxonomy does not know it
func CanonicalName(name string, taxonomy *skills.Taxonomy) string {
	name = strings.TrimSpace(name)
	if canonical, ok := taxonomy.Canonical(name); ok {
		return canonical
	}
	return name
}

func normalizeNames(names []string, taxonomy *skills.Taxonomy) []string {
	if len(names) == 0 {
		return names
	}
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{})
	for _, n := range names {
		n = CanonicalName(n, taxonomy)
		if n == "" {
			continue
		}
		if _, exists := seen[strings.ToLower(n)]; !exists {
			out = append(out, n)
			seen[strings.ToLower(n)] = struct{}{}
		}
	}
	return out
}
