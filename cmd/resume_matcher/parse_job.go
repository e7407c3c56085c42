package main

import (
	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/pipeline"
	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/spf13/cobra"
)

var parseJobCmd = &cobra.Command{
	Use:   "parse-job",
	Short: "Analyze a job posting into structured JobFacets JSON",
	Long:  "Analyze a job posting (JSON record or document) into JobFacets: sections, prioritized skills, requirements, salary, remote work and complexity.",
	RunE:  runParseJob,
}

var (
	parseInputFile  string
	parseOutputFile string
	parseVerbose    bool
)

func init() {
	parseJobCmd.Flags().StringVarP(&parseInputFile, "in", "i", "", "Path to the job posting")
	parseJobCmd.Flags().StringVarP(&parseOutputFile, "out", "o", "", "Write the facets to this file instead of stdout")
	parseJobCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "Print the facets to stderr")

	_ = parseJobCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(parseJobCmd)
}

func runParseJob(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	taxonomy, err := loadTaxonomy(cfg.Taxonomy)
	if err != nil {
		return err
	}
	job, err := readJobPosting(parseInputFile)
	if err != nil {
		return err
	}

	facets := parsing.NewAnalyzer(skills.NewTagger(taxonomy)).Analyze(pipeline.JobText(job))

	if parseVerbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintJobFacets(facets)
	}
	return writeJSON(cmd.OutOrStdout(), parseOutputFile, facets)
}
