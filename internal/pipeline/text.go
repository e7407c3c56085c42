package pipeline

import (
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

// JobText joins the description, requirements, responsibilities and benefits
// of a posting into the text the analyzer reads. Blank parts are skipped.
func JobText(job *types.JobPosting) string {
	if job == nil {
		return ""
	}
	parts := make([]string, 0, 4)
	for _, part := range []string{job.Description, job.Requirements, job.Responsibilities, job.Benefits} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}
