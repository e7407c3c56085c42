package ingestion

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_UnsupportedFormat(t *testing.T) {
	for _, ext := range []string{".rtf", "odt", ""} {
		t.Run(ext, func(t *testing.T) {
			_, err := Extract([]byte("data"), ext)
			require.Error(t, err)

			var formatErr *UnsupportedFormatError
			assert.True(t, errors.As(err, &formatErr))
		})
	}
}

func TestExtract_ExtensionNormalization(t *testing.T) {
	for _, ext := range []string{"txt", ".TXT", " .txt "} {
		extraction, err := Extract([]byte("hello world"), ext)
		require.NoError(t, err, ext)
		assert.Equal(t, "hello world", extraction.Text)
	}
}

func TestExtract_TextEncodings(t *testing.T) {
	tests := []struct {
		name         string
		data         []byte
		wantText     string
		wantEncoding string
	}{
		{
			name:         "utf-8",
			data:         []byte("Café résumé"),
			wantText:     "Café résumé",
			wantEncoding: "utf-8",
		},
		{
			name:         "utf-8 with bom",
			data:         append([]byte{0xEF, 0xBB, 0xBF}, []byte("Plain")...),
			wantText:     "Plain",
			wantEncoding: "utf-8",
		},
		{
			name:         "utf-16 little endian with bom",
			data:         []byte{0xFF, 0xFE, 'H', 0x00, 'i', 0x00},
			wantText:     "Hi",
			wantEncoding: "utf-16",
		},
		{
			name:         "latin-1",
			data:         []byte{'C', 'a', 'f', 0xE9},
			wantText:     "Café",
			wantEncoding: "latin-1",
		},
		{
			name:         "cp1252 smart quotes",
			data:         []byte{0x93, 'G', 'o', 0x94},
			wantText:     "“Go”",
			wantEncoding: "cp1252",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extraction, err := Extract(tt.data, ".txt")
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, extraction.Text)
			assert.Equal(t, tt.wantEncoding, extraction.Metadata.Encoding)
		})
	}
}

func TestExtract_HTML(t *testing.T) {
	page := `<html><head><style>.x{}</style><script>var a = 1;</script></head>
<body><h1>Jane Doe</h1><p>Backend engineer<br>Go and Postgres</p>
<ul><li>Built APIs</li><li>Led team</li></ul>
<table><tr><td>Go</td><td>5 years</td></tr></table></body></html>`

	extraction, err := Extract([]byte(page), ".html")
	require.NoError(t, err)

	lines := strings.Split(extraction.Text, "\n")
	assert.Contains(t, lines, "Jane Doe")
	assert.Contains(t, lines, "Backend engineer")
	assert.Contains(t, lines, "Go and Postgres")
	assert.Contains(t, lines, "Built APIs")
	assert.Contains(t, lines, "Go | 5 years")
	assert.NotContains(t, extraction.Text, "var a")
	assert.Equal(t, "html", extraction.Metadata.FileType)
}

func TestExtract_HTMLWithoutText(t *testing.T) {
	_, err := Extract([]byte("<html><body><script>x()</script></body></html>"), ".htm")
	require.Error(t, err)

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, "html", extractionErr.Format)
}

func TestExtract_MalformedPDF(t *testing.T) {
	_, err := Extract([]byte("this is not a pdf"), ".pdf")
	require.Error(t, err)

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, "pdf", extractionErr.Format)
}

func TestExtract_MalformedDOCX(t *testing.T) {
	_, err := Extract([]byte("this is not a zip archive"), ".docx")
	require.Error(t, err)

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, "docx", extractionErr.Format)
}

func TestDocxXMLToText(t *testing.T) {
	xml := `<w:document><w:body>` +
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Go &amp; Python</w:t></w:r><w:r><w:tab/><w:t>Remote</w:t></w:r></w:p>` +
		`<w:tbl><w:tr w:rsidR="1"><w:tc><w:tcPr/><w:p><w:r><w:t>Skill</w:t></w:r></w:p></w:tc>` +
		`<w:tc><w:p><w:r><w:t>Years</w:t></w:r></w:p></w:tc></w:tr>` +
		`<w:tr><w:tc><w:p><w:r><w:t>Go</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>5</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		`</w:body></w:document>`

	text, paragraphs, tables := docxXMLToText(xml)

	lines := strings.Split(strings.TrimSpace(text), "\n")
	assert.Equal(t, []string{"Jane Doe", "Go & Python Remote", "Skill | Years", "Go | 5"}, lines)
	assert.Equal(t, 4, paragraphs)
	assert.Equal(t, 1, tables)
}

func TestAssessQuality(t *testing.T) {
	prose := "Experienced backend engineer building distributed systems in Go and Python for ten years."

	tests := []struct {
		name string
		text string
		want string
	}{
		{"too short", "Short text", QualityPoor},
		{"clean prose", prose, QualityExcellent},
		{"some symbols", strings.Repeat("abcdef # ", 10), QualityGood},
		{"mostly symbols", strings.Repeat("a@#$%^&*", 10), QualityPoor},
		{"symbol heavy", strings.Repeat("abcd  @@@ ", 10), QualityFair},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AssessQuality(tt.text))
		})
	}
}

func TestDetectSections(t *testing.T) {
	text := "Contact: jane@example.com\nSummary\nWork Experience\nEducation\nTechnical Skills\nProjects"
	assert.Equal(t, []string{"contact", "summary", "experience", "education", "skills", "projects"}, DetectSections(text))
	assert.Empty(t, DetectSections("nothing relevant here"))
}
