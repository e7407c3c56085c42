// Package steps provides stage definitions, dependency validation and stage
// timing for the analysis pipeline.
package steps

import (
	"fmt"
	"sort"
	"time"
)

// Stage names
const (
	StageTagResume     = "tag_resume"
	StageAnalyzeJob    = "analyze_job"
	StageAnalyzeResume = "analyze_resume"
	StageScore         = "score"
)

// Stage categories
const (
	CategoryExtraction = "extraction"
	CategoryScoring    = "scoring"
)

// Stage statuses
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// StageDefinition defines metadata for a pipeline stage
type StageDefinition struct {
	Name         string
	Category     string
	Dependencies []string
}

// StageResult is the outcome and duration of one executed stage
type StageResult struct {
	Stage    string        `json:"stage"`
	Status   string        `json:"status"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
}

// StageRegistry holds all stage definitions
var StageRegistry = map[string]StageDefinition{
	StageTagResume: {
		Name:         StageTagResume,
		Category:     CategoryExtraction,
		Dependencies: []string{},
	},
	StageAnalyzeJob: {
		Name:         StageAnalyzeJob,
		Category:     CategoryExtraction,
		Dependencies: []string{},
	},
	StageAnalyzeResume: {
		Name:         StageAnalyzeResume,
		Category:     CategoryExtraction,
		Dependencies: []string{},
	},
	StageScore: {
		Name:         StageScore,
		Category:     CategoryScoring,
		Dependencies: []string{StageTagResume, StageAnalyzeJob, StageAnalyzeResume},
	},
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Stage               string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("stage %s has missing dependencies: %v", e.Stage, e.MissingDependencies)
}

// ValidateDependencies checks that every dependency of a stage has completed
func ValidateDependencies(completed map[string]bool, stage string) error {
	def, ok := StageRegistry[stage]
	if !ok {
		return fmt.Errorf("unknown stage: %s", stage)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if !completed[dep] {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Stage:               stage,
			MissingDependencies: missing,
		}
	}
	return nil
}

// AvailableStages returns the stages not yet completed whose dependencies are met, sorted by name
func AvailableStages(completed map[string]bool) []string {
	available := make([]string, 0)
	for name := range StageRegistry {
		if completed[name] {
			continue
		}
		if ValidateDependencies(completed, name) != nil {
			continue
		}
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

// BlockedStages returns the stages whose dependencies are not met, sorted by name
func BlockedStages(completed map[string]bool) []string {
	blocked := make([]string, 0)
	for name := range StageRegistry {
		if completed[name] {
			continue
		}
		if ValidateDependencies(completed, name) != nil {
			blocked = append(blocked, name)
		}
	}
	sort.Strings(blocked)
	return blocked
}

// Waves groups the registry into batches that can run concurrently. Every
// stage appears after all of its dependencies.
func Waves() ([][]string, error) {
	completed := make(map[string]bool, len(StageRegistry))
	waves := make([][]string, 0)
	for len(completed) < len(StageRegistry) {
		wave := AvailableStages(completed)
		if len(wave) == 0 {
			return nil, fmt.Errorf("stage registry has a dependency cycle among %v", BlockedStages(completed))
		}
		for _, name := range wave {
			completed[name] = true
		}
		waves = append(waves, wave)
	}
	return waves, nil
}
