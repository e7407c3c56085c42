package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	multiSpaceRe  = regexp.MustCompile(`\s+`)
	blankLinesRe  = regexp.MustCompile(`\n\n\n+`)
	camelCaseRe   = regexp.MustCompile(`([a-z])([A-Z])`)
	bulletGlyphRe = regexp.MustCompile(`(\w)([•·▪▫◦‣⁃])`)
	sentenceRe    = regexp.MustCompile(`([.!?])([A-Z])`)
	brokenWordRe  = regexp.MustCompile(`(\w)\n(\w)`)
)

// bulletPrefixes are the list markers kept verbatim at the start of a line
var bulletPrefixes = []string{"- ", "* ", "• ", "· ", "▪ ", "◦ "}

// CleanText cleans and normalizes text content while preserving structure
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	// 1. Normalize line endings (CRLF → LF)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	// 2. Split into lines for processing
	lines := strings.Split(content, "\n")

	// 3. Process each line
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	// 4. Join lines
	result := strings.Join(cleanedLines, "\n")

	// 5. Remove excessive blank lines (max 2 consecutive)
	result = removeExcessiveBlankLines(result)

	// 6. Repair extraction artifacts
	result = FixArtifacts(result)

	return strings.TrimSpace(result)
}

// FixArtifacts separates bullet glyphs glued to the preceding word and sentences
// glued to the preceding terminator
func FixArtifacts(content string) string {
	content = bulletGlyphRe.ReplaceAllString(content, "$1 $2")
	content = sentenceRe.ReplaceAllString(content, "$1 $2")
	return content
}

// cleanPDFPage repairs words split across lines and camelCase joins left by PDF layout
func cleanPDFPage(page string) string {
	page = camelCaseRe.ReplaceAllString(page, "$1 $2")
	page = brokenWordRe.ReplaceAllString(page, "$1 $2")
	return page
}

// cleanLine cleans a single line while preserving structure
func cleanLine(line string) string {
	line = strings.ReplaceAll(line, "\t", " ")
	line = strings.TrimRight(line, " ")

	if strings.TrimSpace(line) == "" {
		return ""
	}

	trimmed := strings.TrimLeft(line, " ")
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	if isBulletLine(trimmed) {
		indent := len(line) - len(trimmed)
		return strings.Repeat(" ", indent) + trimmed
	}

	// Collapse inner runs of spaces but keep leading indentation
	leadingSpace := len(line) - len(trimmed)
	content := multiSpaceRe.ReplaceAllString(strings.TrimSpace(line), " ")
	if leadingSpace > 0 {
		return strings.Repeat(" ", leadingSpace) + content
	}
	return content
}

// isBulletLine checks if a line is a bullet list item
func isBulletLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	for _, prefix := range bulletPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// removeExcessiveBlankLines reduces consecutive blank lines to max 2
func removeExcessiveBlankLines(content string) string {
	return blankLinesRe.ReplaceAllString(content, "\n\n")
}

// ExtractFile reads a document from disk and extracts its text
func ExtractFile(path string) (*Extraction, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return Extract(content, filepath.Ext(path))
}

// WriteOutput writes the extracted text and metadata to <name>.cleaned.txt and <name>.meta.json
func WriteOutput(outDir, name string, extraction *Extraction) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	cleanedPath := filepath.Join(outDir, name+".cleaned.txt")
	if err := os.WriteFile(cleanedPath, []byte(extraction.Text), 0644); err != nil {
		return fmt.Errorf("failed to write cleaned text file: %w", err)
	}

	metaPath := filepath.Join(outDir, name+".meta.json")
	metaJSON, err := extraction.Metadata.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	return nil
}
