package types

// Skill match types
const (
	MatchExact   = "exact"
	MatchSynonym = "synonym"
	MatchFuzzy   = "fuzzy"
)

// TaggedSkill is one canonical skill found in a text
type TaggedSkill struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	MatchType  string  `json:"match_type"`
	Mentions   int     `json:"mentions"`
	MatchedAs  string  `json:"matched_as,omitempty"` // Synonym or phrase actually found, when not the canonical name
}

// CategorySkills holds the skills of one taxonomy category in declaration order.
// Fuzzy hits are kept apart from exact and synonym hits.
type CategorySkills struct {
	Category string        `json:"category"`
	Skills   []TaggedSkill `json:"skills"`
	Fuzzy    []TaggedSkill `json:"fuzzy,omitempty"`
}

// ExtractedSkillSet is the output of the skill tagger, categories in taxonomy order
type ExtractedSkillSet struct {
	Categories []CategorySkills `json:"categories"`
}

// Category returns the skills for a category, or nil if none were found
func (s *ExtractedSkillSet) Category(name string) *CategorySkills {
	if s == nil {
		return nil
	}
	for i := range s.Categories {
		if s.Categories[i].Category == name {
			return &s.Categories[i]
		}
	}
	return nil
}

// Names returns the exact and synonym skill names per category
func (s *ExtractedSkillSet) Names() map[string][]string {
	out := make(map[string][]string)
	if s == nil {
		return out
	}
	for _, c := range s.Categories {
		if len(c.Skills) == 0 {
			continue
		}
		names := make([]string, 0, len(c.Skills))
		for _, sk := range c.Skills {
			names = append(names, sk.Name)
		}
		out[c.Category] = names
	}
	return out
}

// FuzzyNames returns the fuzzy skill names per category
func (s *ExtractedSkillSet) FuzzyNames() map[string][]string {
	out := make(map[string][]string)
	if s == nil {
		return out
	}
	for _, c := range s.Categories {
		for _, sk := range c.Fuzzy {
			out[c.Category] = append(out[c.Category], sk.Name)
		}
	}
	return out
}

// Total returns the number of exact and synonym skills found
func (s *ExtractedSkillSet) Total() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, c := range s.Categories {
		n += len(c.Skills)
	}
	return n
}
