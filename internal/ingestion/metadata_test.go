package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_JSONMarshaling(t *testing.T) {
	metadata := &Metadata{
		FileType:          "pdf",
		ExtractionMethod:  MethodPDF,
		PagesProcessed:    2,
		WordCount:         120,
		SectionsDetected:  []string{"experience"},
		ExtractionQuality: QualityGood,
		Timestamp:         "2024-01-01T00:00:00Z",
		Hash:              "abcd1234",
	}

	jsonBytes, err := metadata.ToJSON()
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(jsonBytes, &raw))
	assert.Equal(t, "pdf", raw["file_type"])
	assert.Equal(t, "good", raw["extraction_quality"])
	assert.Equal(t, float64(2), raw["pages_processed"])
	assert.NotContains(t, raw, "encoding", "empty encoding should be omitted")
}

func TestComputeHash(t *testing.T) {
	hash1 := computeHash("test content")
	hash2 := computeHash("different content")

	// Hash should be 64 hex characters (SHA256)
	assert.Len(t, hash1, 64)
	assert.Len(t, hash2, 64)
	assert.NotEqual(t, hash1, hash2)
	assert.Equal(t, hash1, computeHash("test content"))
}

func TestNewMetadata(t *testing.T) {
	content := "Experience\nBuilt services in Go.\nEducation\nBS Computer Science"

	metadata := NewMetadata(content, "txt", MethodText)

	assert.Equal(t, "txt", metadata.FileType)
	assert.Equal(t, MethodText, metadata.ExtractionMethod)
	assert.Equal(t, 9, metadata.WordCount)
	assert.Equal(t, []string{"experience", "education"}, metadata.SectionsDetected)
	assert.Equal(t, computeHash(content), metadata.Hash)

	_, err := time.Parse(time.RFC3339, metadata.Timestamp)
	assert.NoError(t, err)
}
