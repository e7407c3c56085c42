package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-matcher/internal/pipeline/steps"
	"github.com/jonathan/resume-matcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList writes up to maxItemsToShow bullet items under a heading
func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// PrintJobFacets outputs a human-readable summary of the analyzed job posting.
func (p *Printer) PrintJobFacets(facets *types.JobFacets) {
	if facets == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Seniority:   %s\n", facets.Seniority))
	if facets.YearsRequired != nil {
		sb.WriteString(fmt.Sprintf("Experience:  %d+ years\n", *facets.YearsRequired))
	}
	if facets.Education.DegreeRequired {
		sb.WriteString(fmt.Sprintf("Education:   %s\n", facets.Education.Level))
	}
	sb.WriteString(fmt.Sprintf("Industry:    %s\n", facets.Industry.Primary))
	sb.WriteString(fmt.Sprintf("Remote:      %s\n", facets.RemoteWork.Mode))
	sb.WriteString(fmt.Sprintf("Complexity:  %.0f/100\n", facets.ComplexityScore))
	sb.WriteString("\n")

	writeList(&sb, "Critical Skills", facets.Prioritized.Critical)
	writeList(&sb, "Important Skills", facets.Prioritized.Important)
	writeList(&sb, "Nice to Have", facets.Prioritized.NiceToHave)

	p.printBox("JOB ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkillSet outputs the tagged skills grouped by category.
func (p *Printer) PrintSkillSet(set *types.ExtractedSkillSet) {
	if set == nil {
		return
	}

	var sb strings.Builder
	for _, c := range set.Categories {
		if len(c.Skills) == 0 && len(c.Fuzzy) == 0 {
			continue
		}
		names := make([]string, 0, len(c.Skills)+len(c.Fuzzy))
		for _, s := range c.Skills {
			names = append(names, fmt.Sprintf("%s (%.2f)", s.Name, s.Confidence))
		}
		for _, s := range c.Fuzzy {
			names = append(names, fmt.Sprintf("%s ~%.2f", s.Name, s.Confidence))
		}
		writeList(&sb, c.Category, names)
	}
	if sb.Len() == 0 {
		sb.WriteString("No skills found")
	}

	p.printBox(fmt.Sprintf("SKILLS (%d)", set.Total()), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResumeFacets outputs the candidate-side signals.
func (p *Printer) PrintResumeFacets(facets *types.ResumeFacets) {
	if facets == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Experience:  %.1f years\n", facets.TotalYears))
	sb.WriteString(fmt.Sprintf("Seniority:   %s\n", facets.Seniority))
	sb.WriteString(fmt.Sprintf("Education:   %s\n", facets.HighestEducation))
	sb.WriteString(fmt.Sprintf("Email:       %s\n", yesNo(facets.Contact.HasEmail)))
	sb.WriteString(fmt.Sprintf("Phone:       %s\n", yesNo(facets.Contact.HasPhone)))
	if len(facets.Sections) > 0 {
		sb.WriteString(fmt.Sprintf("Sections:    %s\n", strings.Join(facets.Sections, ", ")))
	}
	writeList(&sb, "Positions", facets.Positions)

	p.printBox("RESUME ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatchResult outputs the scores and the top recommendations.
func (p *Printer) PrintMatchResult(result *types.MatchResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall match:  %.1f%%\n", result.OverallScore))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Skills       %5.1f\n", result.ComponentScores.Skills))
	sb.WriteString(fmt.Sprintf("  Experience   %5.1f\n", result.ComponentScores.Experience))
	sb.WriteString(fmt.Sprintf("  Keywords     %5.1f\n", result.ComponentScores.Keywords))
	sb.WriteString(fmt.Sprintf("  Education    %5.1f\n", result.ComponentScores.Education))
	sb.WriteString(fmt.Sprintf("  ATS          %5.1f\n", result.ComponentScores.ATS))
	sb.WriteString("\n")

	writeList(&sb, "Missing Critical Skills", result.Skills.MissingCriticalSkills)
	writeList(&sb, "Strengths", result.MatchStrengths)

	titles := make([]string, 0, len(result.Recommendations))
	for _, r := range result.Recommendations {
		titles = append(titles, fmt.Sprintf("[%s] %s", r.Priority, r.Title))
	}
	writeList(&sb, "Recommendations", titles)

	p.printBox("MATCH RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStageTimings outputs how long each pipeline stage took.
func (p *Printer) PrintStageTimings(results []steps.StageResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("%-16s %-10s %s\n", r.Stage, r.Status, r.Duration))
	}

	p.printBox("STAGES", strings.TrimSuffix(sb.String(), "\n"))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
