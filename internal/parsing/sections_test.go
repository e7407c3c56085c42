package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSections(t *testing.T) {
	text := "Requirements:\n- Go\n- SQL\n\nBenefits: health insurance\n"

	sections := ExtractSections(text)

	assert.Equal(t, "- Go\n- SQL", sections.Requirements)
	assert.Equal(t, "health insurance", sections.Benefits)
	assert.Empty(t, sections.Preferred)
	assert.Empty(t, sections.Responsibilities)
}

func TestExtractSections_KeepsLongestBlock(t *testing.T) {
	text := "Requirements: Go\nother stuff\n\nRequirements: Go, SQL and Kubernetes\n"

	assert.Equal(t, "Go, SQL and Kubernetes", ExtractSections(text).Requirements)
}

func TestExtractSections_StopsAtNextHeader(t *testing.T) {
	text := "Responsibilities: build services\nBenefits: stock options"

	sections := ExtractSections(text)
	assert.Equal(t, "build services", sections.Responsibilities)
	assert.Equal(t, "stock options", sections.Benefits)
}

func TestExtractSections_NoHeaders(t *testing.T) {
	sections := ExtractSections("We build things with care")

	assert.Empty(t, sections.Requirements)
	assert.Empty(t, sections.Preferred)
	assert.Empty(t, sections.Responsibilities)
	assert.Empty(t, sections.Benefits)
}

func TestClassifySentences(t *testing.T) {
	text := "Python is required but Go is preferred. Kafka would be a bonus here. " +
		"Knowledge of Docker is helpful. We ship weekly to customers."

	got := ClassifySentences(text)

	assert.Equal(t, []string{"Python is required but Go is preferred"}, got.Required)
	assert.Equal(t, []string{"Kafka would be a bonus here"}, got.Preferred)
	assert.Equal(t, []string{
		"Python is required but Go is preferred",
		"Kafka would be a bonus here",
		"Knowledge of Docker is helpful",
	}, got.All)
}

func TestClassifySentences_Empty(t *testing.T) {
	got := ClassifySentences("")

	assert.NotNil(t, got.Required)
	assert.Empty(t, got.Required)
	assert.Empty(t, got.Preferred)
	assert.Empty(t, got.All)
}

func TestSentences(t *testing.T) {
	assert.Equal(t, []string{"This sentence is long enough"}, Sentences("Short. This sentence is long enough!\nTiny"))
}
