// Package ingestion provides text extraction from uploaded résumé and job documents.
package ingestion

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Extraction is the cleaned text of a document with its extraction metadata
type Extraction struct {
	Text     string    `json:"text"`
	Metadata *Metadata `json:"metadata"`
}

// Extraction methods reported in metadata
const (
	MethodPDF  = "ledongthuc/pdf"
	MethodDOCX = "nguyenthenguyen/docx"
	MethodText = "encoding_detection"
	MethodHTML = "goquery"
)

var (
	docxRowRe   = regexp.MustCompile(`(?s)<w:tr(?:\s[^>]*)?>(.*?)</w:tr>`)
	docxCellRe  = regexp.MustCompile(`(?s)<w:tc(?:\s[^>]*)?>(.*?)</w:tc>`)
	docxParaRe  = regexp.MustCompile(`</w:p>`)
	docxBreakRe = regexp.MustCompile(`<w:(?:tab|br|cr)\s*/>`)
	xmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	inlineWSRe  = regexp.MustCompile(`[ \t]+`)
)

// Extract pulls clean text out of a document. ext selects the parser and may be
// given with or without the leading dot.
func Extract(data []byte, ext string) (*Extraction, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	var (
		raw  string
		meta *Metadata
		err  error
	)

	switch ext {
	case ".pdf":
		var pages int
		raw, pages, err = extractPDF(data)
		if err != nil {
			return nil, err
		}
		raw = CleanText(raw)
		meta = NewMetadata(raw, "pdf", MethodPDF)
		meta.PagesProcessed = pages
	case ".docx", ".doc":
		var paragraphs, tables int
		raw, paragraphs, tables, err = extractDOCX(data)
		if err != nil {
			return nil, err
		}
		raw = CleanText(raw)
		meta = NewMetadata(raw, "docx", MethodDOCX)
		meta.ParagraphsProcessed = paragraphs
		meta.TablesProcessed = tables
	case ".txt":
		var enc string
		raw, enc, err = decodeText(data)
		if err != nil {
			return nil, err
		}
		raw = CleanText(raw)
		meta = NewMetadata(raw, "txt", MethodText)
		meta.Encoding = enc
	case ".html", ".htm":
		raw, err = extractHTML(data)
		if err != nil {
			return nil, err
		}
		raw = CleanText(raw)
		meta = NewMetadata(raw, "html", MethodHTML)
	default:
		return nil, &UnsupportedFormatError{Extension: ext}
	}

	return &Extraction{Text: raw, Metadata: meta}, nil
}

// extractPDF returns the text of every readable page, pages separated by a blank line
func extractPDF(data []byte) (text string, pages int, err error) {
	// The PDF reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			err = &ExtractionError{Format: "pdf", Message: fmt.Sprintf("malformed document: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, &ExtractionError{Format: "pdf", Message: "failed to read pdf", Cause: err}
	}

	parts := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, perr := page.GetPlainText(nil)
		if perr != nil || strings.TrimSpace(pageText) == "" {
			continue
		}
		parts = append(parts, cleanPDFPage(pageText))
		pages++
	}

	if len(parts) == 0 {
		return "", 0, &ExtractionError{Format: "pdf", Message: "no text could be extracted"}
	}
	return strings.Join(parts, "\n\n"), pages, nil
}

// extractDOCX returns paragraph text with table rows rendered as "cell | cell"
func extractDOCX(data []byte) (text string, paragraphs, tables int, err error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, 0, &ExtractionError{Format: "docx", Message: "failed to parse docx", Cause: err}
	}
	defer doc.Close()

	text, paragraphs, tables = docxXMLToText(doc.Editable().GetContent())
	if strings.TrimSpace(text) == "" {
		return "", 0, 0, &ExtractionError{Format: "docx", Message: "document contains no text"}
	}
	return text, paragraphs, tables, nil
}

// docxXMLToText reduces WordprocessingML to plain text
func docxXMLToText(content string) (string, int, int) {
	tables := strings.Count(content, "</w:tbl>")

	content = docxRowRe.ReplaceAllStringFunc(content, func(row string) string {
		cells := docxCellRe.FindAllStringSubmatch(row, -1)
		texts := make([]string, 0, len(cells))
		for _, c := range cells {
			cell := xmlTagRe.ReplaceAllString(docxParaRe.ReplaceAllString(c[1], " "), "")
			if cell = strings.Join(strings.Fields(cell), " "); cell != "" {
				texts = append(texts, cell)
			}
		}
		if len(texts) == 0 {
			return ""
		}
		return strings.Join(texts, " | ") + "</w:p>"
	})

	content = docxBreakRe.ReplaceAllString(content, " ")
	paragraphs := 0
	content = docxParaRe.ReplaceAllStringFunc(content, func(string) string {
		paragraphs++
		return "\n"
	})
	content = html.UnescapeString(xmlTagRe.ReplaceAllString(content, ""))

	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	nonEmpty := 0
	for _, line := range lines {
		line = strings.TrimSpace(inlineWSRe.ReplaceAllString(line, " "))
		if line != "" {
			nonEmpty++
		}
		kept = append(kept, line)
	}
	if nonEmpty < paragraphs {
		paragraphs = nonEmpty
	}
	return strings.Join(kept, "\n"), paragraphs, tables
}

// textEncodings is the decode fallback chain for plain-text files
var textEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"utf-16", unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)},
	{"latin-1", charmap.ISO8859_1},
	{"cp1252", charmap.Windows1252},
}

// decodeText decodes plain text, trying utf-8 first and then the fallback chain.
// utf-16 requires a byte-order mark. latin-1 accepts any byte sequence, so cp1252
// is preferred when the data uses the C1 range that cp1252 maps to printable glyphs.
func decodeText(data []byte) (string, string, error) {
	if utf8.Valid(data) {
		return strings.TrimPrefix(string(data), "\ufeff"), "utf-8", nil
	}

	hasBOM := len(data) >= 2 && ((data[0] == 0xFF && data[1] == 0xFE) || (data[0] == 0xFE && data[1] == 0xFF))
	hasC1 := containsC1(data)

	for _, te := range textEncodings {
		if te.name == "utf-16" && !hasBOM {
			continue
		}
		if te.name == "latin-1" && hasC1 {
			continue
		}
		decoded, err := te.enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		return string(decoded), te.name, nil
	}

	return "", "", &ExtractionError{Format: "txt", Message: "could not decode file with any supported encoding"}
}

func containsC1(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 && b <= 0x9F {
			return true
		}
	}
	return false
}
