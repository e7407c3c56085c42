package main

import (
	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/spf13/cobra"
)

var tagSkillsCmd = &cobra.Command{
	Use:   "tag-skills",
	Short: "Tag the taxonomy skills mentioned in a document",
	RunE:  runTagSkills,
}

var (
	tagInputFile  string
	tagOutputFile string
	tagExactOnly  bool
	tagVerbose    bool
)

func init() {
	tagSkillsCmd.Flags().StringVarP(&tagInputFile, "in", "i", "", "Path to the document")
	tagSkillsCmd.Flags().StringVarP(&tagOutputFile, "out", "o", "", "Write the skill set to this file instead of stdout")
	tagSkillsCmd.Flags().BoolVar(&tagExactOnly, "exact", false, "Disable fuzzy matching")
	tagSkillsCmd.Flags().BoolVarP(&tagVerbose, "verbose", "v", false, "Print the skill set to stderr")

	_ = tagSkillsCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(tagSkillsCmd)
}

func runTagSkills(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	taxonomy, err := loadTaxonomy(cfg.Taxonomy)
	if err != nil {
		return err
	}
	text, err := readText(tagInputFile)
	if err != nil {
		return err
	}

	tagger := skills.NewTagger(taxonomy)
	set := tagger.Tag(text)
	if tagExactOnly {
		set = tagger.TagExact(text)
	}

	if tagVerbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintSkillSet(set)
	}
	return writeJSON(cmd.OutOrStdout(), tagOutputFile, set)
}
