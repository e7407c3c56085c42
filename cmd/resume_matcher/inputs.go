package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-matcher/internal/config"
	"github.com/jonathan/resume-matcher/internal/experience"
	"github.com/jonathan/resume-matcher/internal/ingestion"
	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/jonathan/resume-matcher/internal/types"
	"go.uber.org/zap"
)

// loadConfig reads the config file and environment, then applies the
// persistent flags on top
func loadConfig() (*config.Config, error) {
	loaded, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := config.Config{Log: config.LogConfig{Level: logLevel, Format: logFormat}}
	merged := flags.MergeWithDefaults(*loaded)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// loadTaxonomy returns the taxonomy at path, or the built-in one when path is empty
func loadTaxonomy(path string) (*skills.Taxonomy, error) {
	if path == "" {
		return skills.DefaultTaxonomy(), nil
	}
	taxonomy, err := skills.LoadTaxonomy(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy: %w", err)
	}
	return taxonomy, nil
}

// readResume loads a résumé. A .json file is a structured record; any other
// file is a document whose extracted text becomes the record's raw text.
func readResume(path string, taxonomy *skills.Taxonomy) (*types.Resume, error) {
	if isJSON(path) {
		resume, err := experience.LoadResume(path)
		if err != nil {
			return nil, err
		}
		if err := experience.NormalizeResume(resume, taxonomy); err != nil {
			return nil, err
		}
		return resume, nil
	}

	extraction, err := ingestion.ExtractFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract resume text: %w", err)
	}
	return &types.Resume{FullName: baseName(path), RawText: extraction.Text}, nil
}

// readJobPosting loads a job posting. A .json file is a structured record; any
// other file is a document used as the posting description.
func readJobPosting(path string) (*types.JobPosting, error) {
	if isJSON(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read job posting file: %w", err)
		}
		var job types.JobPosting
		if err := json.Unmarshal(data, &job); err != nil {
			return nil, fmt.Errorf("failed to parse job posting JSON: %w", err)
		}
		if err := job.Validate(); err != nil {
			return nil, fmt.Errorf("invalid job posting: %w", err)
		}
		return &job, nil
	}

	extraction, err := ingestion.ExtractFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract job posting text: %w", err)
	}
	return &types.JobPosting{Title: baseName(path), Description: extraction.Text}, nil
}

// readText returns the cleaned text of any supported document
func readText(path string) (string, error) {
	extraction, err := ingestion.ExtractFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}
	return extraction.Text, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// writeJSON writes v to path, or to out when path is empty
func writeJSON(out io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if path == "" {
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
