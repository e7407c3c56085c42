package ingestion

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Extraction quality classes
const (
	QualityExcellent = "excellent"
	QualityGood      = "good"
	QualityFair      = "fair"
	QualityPoor      = "poor"
)

const minQualityChars = 50

type sectionIndicator struct {
	name     string
	keywords []string
}

// resumeSections maps résumé section names to the substrings that reveal them
var resumeSections = []sectionIndicator{
	{"contact", []string{"contact", "phone", "email", "address", "linkedin"}},
	{"summary", []string{"summary", "profile", "objective", "about", "overview"}},
	{"experience", []string{"experience", "employment", "work", "career", "professional"}},
	{"education", []string{"education", "academic", "degree", "university", "college"}},
	{"skills", []string{"skills", "technical", "competencies", "expertise", "technologies"}},
	{"projects", []string{"projects", "portfolio", "work samples"}},
	{"certifications", []string{"certifications", "certificates", "credentials"}},
	{"awards", []string{"awards", "honors", "achievements", "recognition"}},
	{"languages", []string{"languages", "linguistic"}},
}

// DetectSections returns the résumé sections whose indicators appear in text, in table order
func DetectSections(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0, len(resumeSections))
	for _, s := range resumeSections {
		for _, kw := range s.keywords {
			if strings.Contains(lower, kw) {
				found = append(found, s.name)
				break
			}
		}
	}
	return found
}

// AssessQuality classifies extracted text by its share of alphanumeric and
// unexpected special characters
func AssessQuality(text string) string {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minQualityChars {
		return QualityPoor
	}

	total, alnum, special := 0, 0, 0
	for _, r := range text {
		total++
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			alnum++
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsSpace(r), r == '_':
		case strings.ContainsRune(".,!?()-", r):
		default:
			special++
		}
	}

	alnumRatio := float64(alnum) / float64(total)
	specialRatio := float64(special) / float64(total)

	switch {
	case alnumRatio > 0.7 && specialRatio < 0.1:
		return QualityExcellent
	case alnumRatio > 0.5 && specialRatio < 0.2:
		return QualityGood
	case alnumRatio > 0.3:
		return QualityFair
	default:
		return QualityPoor
	}
}

// WordCount returns the number of whitespace-separated words in text
func WordCount(text string) int {
	return len(strings.Fields(text))
}
