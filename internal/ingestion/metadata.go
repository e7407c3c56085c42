package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes how a document was extracted
type Metadata struct {
	FileType            string   `json:"file_type"`
	ExtractionMethod    string   `json:"extraction_method"`
	Encoding            string   `json:"encoding,omitempty"`
	PagesProcessed      int      `json:"pages_processed,omitempty"`
	ParagraphsProcessed int      `json:"paragraphs_processed,omitempty"`
	TablesProcessed     int      `json:"tables_processed,omitempty"`
	WordCount           int      `json:"word_count"`
	SectionsDetected    []string `json:"sections_detected"`
	ExtractionQuality   string   `json:"extraction_quality"`
	Timestamp           string   `json:"timestamp"` // RFC3339 format
	Hash                string   `json:"hash"`      // SHA256 hex digest of the cleaned text
}

// NewMetadata creates Metadata for cleaned text with the current timestamp
func NewMetadata(content, fileType, method string) *Metadata {
	return &Metadata{
		FileType:          fileType,
		ExtractionMethod:  method,
		WordCount:         WordCount(content),
		SectionsDetected:  DetectSections(content),
		ExtractionQuality: AssessQuality(content),
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
		Hash:              computeHash(content),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
