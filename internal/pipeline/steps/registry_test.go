package steps

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageRegistry(t *testing.T) {
	expected := map[string]string{
		StageTagResume:     CategoryExtraction,
		StageAnalyzeJob:    CategoryExtraction,
		StageAnalyzeResume: CategoryExtraction,
		StageScore:         CategoryScoring,
	}

	require.Len(t, StageRegistry, len(expected))
	for name, category := range expected {
		def, ok := StageRegistry[name]
		require.True(t, ok, "stage %s should be in registry", name)
		assert.Equal(t, name, def.Name)
		assert.Equal(t, category, def.Category)
	}
}

func TestValidateDependencies(t *testing.T) {
	assert.NoError(t, ValidateDependencies(nil, StageTagResume))

	err := ValidateDependencies(map[string]bool{StageTagResume: true}, StageScore)
	var depErr *DependencyError
	require.True(t, errors.As(err, &depErr))
	assert.Equal(t, StageScore, depErr.Stage)
	assert.Equal(t, []string{StageAnalyzeJob, StageAnalyzeResume}, depErr.MissingDependencies)
	assert.Contains(t, err.Error(), "missing dependencies")

	assert.NoError(t, ValidateDependencies(map[string]bool{
		StageTagResume: true, StageAnalyzeJob: true, StageAnalyzeResume: true,
	}, StageScore))
}

func TestValidateDependencies_UnknownStage(t *testing.T) {
	err := ValidateDependencies(nil, "unknown_stage")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown stage")
}

func TestAvailableAndBlockedStages(t *testing.T) {
	assert.Equal(t, []string{StageAnalyzeJob, StageAnalyzeResume, StageTagResume}, AvailableStages(nil))
	assert.Equal(t, []string{StageScore}, BlockedStages(nil))

	done := map[string]bool{StageTagResume: true, StageAnalyzeJob: true, StageAnalyzeResume: true}
	assert.Equal(t, []string{StageScore}, AvailableStages(done))
	assert.Empty(t, BlockedStages(done))
}

func TestWaves(t *testing.T) {
	waves, err := Waves()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{StageAnalyzeJob, StageAnalyzeResume, StageTagResume},
		{StageScore},
	}, waves)
}
