package parsing

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-matcher/internal/types"
)

// sectionIndicators lists the header keywords of each posting section, in search order
var sectionIndicators = []struct {
	section    string
	indicators []string
}{
	{"requirements", []string{"requirements", "required", "must have", "essential", "mandatory", "qualifications", "prerequisites", "minimum qualifications"}},
	{"preferred", []string{"preferred", "nice to have", "bonus", "plus", "advantageous", "desirable", "preferred qualifications", "ideal candidate"}},
	{"responsibilities", []string{"responsibilities", "duties", "role", "what you will do", "key responsibilities", "main duties", "primary responsibilities"}},
	{"benefits", []string{"benefits", "perks", "compensation", "what we offer", "employee benefits", "package", "rewards"}},
}

var (
	// A section runs until a blank line or a new line that starts a "Header:" label
	blankLineRe   = regexp.MustCompile(`\n\s*\n`)
	nextHeaderRe  = regexp.MustCompile(`(?i)\n\s*[a-z][^:]*:`)
	sentenceSplit = regexp.MustCompile(`[.!?\n]`)

	indicatorRes = compileIndicators()
)

var (
	requiredWords      = []string{"require", "must", "need", "essential", "mandatory", "necessary"}
	preferredWords     = []string{"prefer", "nice", "bonus", "plus", "ideal", "advantage"}
	qualificationWords = []string{"experience", "knowledge", "skill", "ability", "proficiency"}
)

const minSentenceLength = 10

func compileIndicators() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp)
	for _, s := range sectionIndicators {
		for _, ind := range s.indicators {
			out[ind] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(ind) + `:?`)
		}
	}
	return out
}

// ExtractSections locates the requirements, preferred, responsibilities and
// benefits blocks of a posting. For each section the first indicator that
// occurs wins, and of its occurrences the longest block is kept.
func ExtractSections(text string) types.JobSections {
	found := make(map[string]string, len(sectionIndicators))
	for _, s := range sectionIndicators {
		for _, ind := range s.indicators {
			if block, ok := longestBlock(text, indicatorRes[ind]); ok {
				found[s.section] = block
				break
			}
		}
	}

	return types.JobSections{
		Requirements:     found["requirements"],
		Preferred:        found["preferred"],
		Responsibilities: found["responsibilities"],
		Benefits:         found["benefits"],
	}
}

func longestBlock(text string, indicator *regexp.Regexp) (string, bool) {
	best, matched := "", false
	for pos := 0; pos < len(text); {
		loc := indicator.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		matched = true
		start := pos + loc[1]
		end := blockEnd(text, start)
		if block := strings.TrimSpace(text[start:end]); len(block) > len(best) {
			best = block
		}
		pos = end
	}
	return best, matched
}

// blockEnd returns the offset where the block starting at start ends
func blockEnd(text string, start int) int {
	end := len(text)
	rest := text[start:]
	if loc := blankLineRe.FindStringIndex(rest); loc != nil && start+loc[0] < end {
		end = start + loc[0]
	}
	if loc := nextHeaderRe.FindStringIndex(rest); loc != nil && start+loc[0] < end {
		end = start + loc[0]
	}
	return end
}

// ClassifySentences splits text into sentences and sorts the qualification
// sentences into required and preferred. A sentence with both a requirement
// and a preference indicator is required only.
func ClassifySentences(text string) types.ClassifiedSentences {
	out := types.ClassifiedSentences{Required: []string{}, Preferred: []string{}, All: []string{}}

	for _, sentence := range Sentences(text) {
		lower := strings.ToLower(sentence)
		switch {
		case containsAny(lower, requiredWords):
			out.Required = append(out.Required, sentence)
			out.All = append(out.All, sentence)
		case containsAny(lower, preferredWords):
			out.Preferred = append(out.Preferred, sentence)
			out.All = append(out.All, sentence)
		case containsAny(lower, qualificationWords):
			out.All = append(out.All, sentence)
		}
	}

	return out
}

// Sentences splits text on sentence terminators and newlines, dropping
// fragments shorter than ten characters
func Sentences(text string) []string {
	parts := sentenceSplit.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if utf8.RuneCountInString(p) < minSentenceLength {
			continue
		}
		out = append(out, p)
	}
	return out
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func countContained(s string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(s, w) {
			n++
		}
	}
	return n
}
