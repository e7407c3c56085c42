package main

import (
	"fmt"

	"github.com/jonathan/resume-matcher/internal/ingestion"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract clean text from a PDF, DOCX, TXT or HTML document",
	Long: `Extract clean text from a document.

With --out, writes <name>.cleaned.txt and <name>.meta.json to the directory.
Without it, prints the cleaned text to stdout.`,
	RunE: runExtract,
}

var (
	extractInputFile string
	extractOutputDir string
)

func init() {
	extractCmd.Flags().StringVarP(&extractInputFile, "in", "i", "", "Path to the document")
	extractCmd.Flags().StringVarP(&extractOutputDir, "out", "o", "", "Output directory for the text and metadata files")

	_ = extractCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	extraction, err := ingestion.ExtractFile(extractInputFile)
	if err != nil {
		return fmt.Errorf("failed to extract text: %w", err)
	}

	out := cmd.OutOrStdout()
	if extractOutputDir == "" {
		_, err := fmt.Fprintln(out, extraction.Text)
		return err
	}

	name := baseName(extractInputFile)
	if err := ingestion.WriteOutput(extractOutputDir, name, extraction); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "Successfully extracted %s (%d words, %s quality)\n",
		extractInputFile, extraction.Metadata.WordCount, extraction.Metadata.ExtractionQuality)
	_, _ = fmt.Fprintf(out, "Output: %s\n", extractOutputDir)
	return nil
}
