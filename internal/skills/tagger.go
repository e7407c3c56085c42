package skills

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/pmezard/go-difflib/difflib"
)

// Confidence policy
const (
	BaseConfidence  = 0.5
	ConfidenceStep  = 0.2
	FuzzyConfidence = 0.3
	MinConfidence   = 0.3
	FuzzyThreshold  = 0.8

	minFuzzyTermLength = 4
	maxPhraseWords     = 3
)

// Tagger maps text onto the canonical skills of a taxonomy. It holds no
// mutable state and is safe for concurrent use.
type Tagger struct {
	taxonomy *Taxonomy
}

// NewTagger creates a Tagger over the given taxonomy
func NewTagger(taxonomy *Taxonomy) *Tagger {
	return &Tagger{taxonomy: taxonomy}
}

// Taxonomy returns the taxonomy the tagger reads from
func (t *Tagger) Taxonomy() *Taxonomy {
	return t.taxonomy
}

// Tag finds every taxonomy skill in text using exact, synonym and fuzzy matching.
// Categories and skills are reported in taxonomy declaration order.
func (t *Tagger) Tag(text string) *types.ExtractedSkillSet {
	return t.tag(text, true)
}

// TagExact is Tag without the fuzzy fallback
func (t *Tagger) TagExact(text string) *types.ExtractedSkillSet {
	return t.tag(text, false)
}

func (t *Tagger) tag(text string, fuzzy bool) *types.ExtractedSkillSet {
	normalized := NormalizeText(text)
	set := &types.ExtractedSkillSet{Categories: []types.CategorySkills{}}
	if normalized == "" {
		return set
	}

	var phrases [][]string
	if fuzzy {
		phrases = candidatePhrases(normalized)
	}

	for _, cat := range t.taxonomy.categories {
		found := types.CategorySkills{Category: cat.Name, Skills: []types.TaggedSkill{}}

		for _, skill := range cat.Skills {
			if hit, ok := matchSkill(normalized, skill); ok {
				if hit.Confidence >= MinConfidence {
					found.Skills = append(found.Skills, hit)
				}
				continue
			}
			if !fuzzy {
				continue
			}
			if hit, ok := fuzzyMatch(skill, phrases); ok && hit.Confidence >= MinConfidence {
				found.Fuzzy = append(found.Fuzzy, hit)
			}
		}

		if len(found.Skills) > 0 || len(found.Fuzzy) > 0 {
			set.Categories = append(set.Categories, found)
		}
	}

	return set
}

// MentionCount returns how often a skill occurs in text, counting the canonical
// name or its most frequent synonym
func (t *Tagger) MentionCount(text, skill string) int {
	normalized := NormalizeText(text)
	name := normalizeTerm(skill)
	if canonical, ok := t.taxonomy.Canonical(name); ok {
		name = canonical
	}

	best := CountMentions(normalized, name)
	for _, syn := range t.taxonomy.Synonyms(name) {
		if n := CountMentions(normalized, syn); n > best {
			best = n
		}
	}
	return best
}

func matchSkill(text string, skill Skill) (types.TaggedSkill, bool) {
	if n := CountMentions(text, skill.Name); n > 0 {
		return types.TaggedSkill{
			Name:       skill.Name,
			Confidence: Confidence(n),
			MatchType:  types.MatchExact,
			Mentions:   n,
		}, true
	}

	bestSyn, best := "", 0
	for _, syn := range skill.Synonyms {
		if n := CountMentions(text, syn); n > best {
			bestSyn, best = syn, n
		}
	}
	if best == 0 {
		return types.TaggedSkill{}, false
	}
	return types.TaggedSkill{
		Name:       skill.Name,
		Confidence: Confidence(best),
		MatchType:  types.MatchSynonym,
		Mentions:   best,
		MatchedAs:  bestSyn,
	}, true
}

func fuzzyMatch(skill Skill, phrases [][]string) (types.TaggedSkill, bool) {
	bestRatio, bestPhrase := 0.0, ""

	terms := append([]string{skill.Name}, skill.Synonyms...)
	for _, term := range terms {
		if utf8.RuneCountInString(term) < minFuzzyTermLength {
			continue
		}
		words := strings.Count(term, " ") + 1
		if words > maxPhraseWords {
			continue
		}
		for _, phrase := range phrases[words-1] {
			if !couldReach(term, phrase, FuzzyThreshold) {
				continue
			}
			if r := Similarity(term, phrase); r > bestRatio {
				bestRatio, bestPhrase = r, phrase
			}
		}
	}

	if bestRatio < FuzzyThreshold {
		return types.TaggedSkill{}, false
	}
	return types.TaggedSkill{
		Name:       skill.Name,
		Confidence: FuzzyConfidence,
		MatchType:  types.MatchFuzzy,
		MatchedAs:  bestPhrase,
	}, true
}

// Confidence returns the confidence for a skill mentioned n times
func Confidence(mentions int) float64 {
	if mentions <= 0 {
		return 0
	}
	c := BaseConfidence + ConfidenceStep*float64(mentions-1)
	if c > 1.0 {
		return 1.0
	}
	return c
}

// Similarity returns the difflib sequence-matcher ratio of two strings, in [0,1]
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

// couldReach reports whether two strings are close enough in length to reach the
// given ratio. The ratio is bounded by 2*min(len)/(len(a)+len(b)).
func couldReach(a, b string, threshold float64) bool {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	short := la
	if lb < short {
		short = lb
	}
	return 2*float64(short)/float64(la+lb) >= threshold
}

// NormalizeText lower-cases text and collapses all whitespace to single spaces
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// CountMentions counts word-boundary occurrences of term in text. Both are
// expected to be normalized. A match followed by '+' or '#', or joined to a
// neighbouring word by '.', is part of a longer token and does not count.
func CountMentions(text, term string) int {
	if term == "" || len(term) > len(text) {
		return 0
	}

	count := 0
	for i := 0; i+len(term) <= len(text); {
		idx := strings.Index(text[i:], term)
		if idx < 0 {
			break
		}
		start := i + idx
		end := start + len(term)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			count++
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		i = start + size
	}
	return count
}

func boundaryBefore(text string, start int) bool {
	if start == 0 {
		return true
	}
	prev, size := utf8.DecodeLastRuneInString(text[:start])
	if isWordRune(prev) {
		return false
	}
	if prev == '.' && start-size > 0 {
		pp, _ := utf8.DecodeLastRuneInString(text[:start-size])
		return !isWordRune(pp)
	}
	return true
}

func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	next, size := utf8.DecodeRuneInString(text[end:])
	if isWordRune(next) || next == '+' || next == '#' {
		return false
	}
	if next == '.' && end+size < len(text) {
		nn, _ := utf8.DecodeRuneInString(text[end+size:])
		return !isWordRune(nn)
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// candidatePhrases returns the distinct 1..maxPhraseWords word phrases of a
// normalized text, each list in order of first appearance
func candidatePhrases(text string) [][]string {
	tokens := make([]string, 0)
	for _, f := range strings.Fields(text) {
		if tok := strings.Trim(f, `.,;:!?()[]{}"'|/`); tok != "" {
			tokens = append(tokens, tok)
		}
	}

	phrases := make([][]string, maxPhraseWords)
	for n := 1; n <= maxPhraseWords; n++ {
		seen := make(map[string]bool)
		for i := 0; i+n <= len(tokens); i++ {
			p := strings.Join(tokens[i:i+n], " ")
			if !seen[p] {
				seen[p] = true
				phrases[n-1] = append(phrases[n-1], p)
			}
		}
	}
	return phrases
}
