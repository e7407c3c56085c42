package main

import (
	"fmt"

	"github.com/jonathan/resume-matcher/internal/experience"
	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/pipeline"
	"github.com/jonathan/resume-matcher/internal/schemas"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Match a résumé against a job posting",
	Long: `Compare a résumé with a job posting and print the MatchResult as JSON.

Both inputs may be structured JSON records or documents (PDF, DOCX, TXT, HTML).`,
	RunE: runAnalyze,
}

var (
	analyzeResumeFile string
	analyzeJobFile    string
	analyzeOutputFile string
	analyzeVerbose    bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResumeFile, "resume", "r", "", "Path to the résumé (JSON record or document)")
	analyzeCmd.Flags().StringVarP(&analyzeJobFile, "job", "j", "", "Path to the job posting (JSON record or document)")
	analyzeCmd.Flags().StringVarP(&analyzeOutputFile, "out", "o", "", "Write the result to this file instead of stdout")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print facets, scores and stage timings to stderr")

	_ = analyzeCmd.MarkFlagRequired("resume")
	_ = analyzeCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	taxonomy, err := loadTaxonomy(cfg.Taxonomy)
	if err != nil {
		return err
	}

	resume, err := readResume(analyzeResumeFile, taxonomy)
	if err != nil {
		return err
	}
	job, err := readJobPosting(analyzeJobFile)
	if err != nil {
		return err
	}

	analysis, err := pipeline.New(taxonomy).AnalyzeText(cmd.Context(), experience.ComposeText(resume), resume, pipeline.JobText(job))
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	if err := schemas.ValidateValue(schemas.MatchResultSchema, analysis.Result); err != nil {
		return fmt.Errorf("match result does not validate against schema: %w", err)
	}

	if analyzeVerbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		printer.PrintJobFacets(analysis.JobFacets)
		printer.PrintResumeFacets(analysis.ResumeFacets)
		printer.PrintSkillSet(analysis.ResumeSkills)
		printer.PrintMatchResult(analysis.Result)
		printer.PrintStageTimings(analysis.Stages)
	}

	return writeJSON(cmd.OutOrStdout(), analyzeOutputFile, analysis.Result)
}
