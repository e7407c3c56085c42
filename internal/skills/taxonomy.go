// Package skills provides the skill taxonomy and the tagger that maps free text onto it.
package skills

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/resume-matcher/internal/schemas"
)

// DefaultCategoryWeight is the scoring weight of a category with no configured weight
const DefaultCategoryWeight = 0.7

// categoryWeights are the built-in scoring weights by category name
var categoryWeights = map[string]float64{
	"programming_languages": 1.0,
	"web_frameworks":        0.9,
	"databases":             0.8,
	"cloud_platforms":       0.8,
	"tools":                 0.6,
	"soft_skills":           0.7,
}

// Skill is a canonical skill name with its synonyms
type Skill struct {
	Name     string   `json:"name"`
	Synonyms []string `json:"synonyms,omitempty"`
}

// Category is a named group of skills. A zero Weight falls back to the
// built-in weight for the category name, or DefaultCategoryWeight.
type Category struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight,omitempty"`
	Skills []Skill `json:"skills"`
}

// Taxonomy is an immutable, declaration-ordered set of skill categories.
// It is safe for concurrent use.
type Taxonomy struct {
	categories []Category
	weights    map[string]float64
	synonyms   map[string][]string // canonical skill -> synonyms
	canonical  map[string]string   // skill or synonym -> canonical skill
	owner      map[string]string   // canonical skill -> first category declaring it
}

// NewTaxonomy builds a Taxonomy from categories. Names are lower-cased and trimmed;
// the input slice is copied.
func NewTaxonomy(categories []Category) (*Taxonomy, error) {
	if len(categories) == 0 {
		return nil, &TaxonomyError{Message: "taxonomy has no categories"}
	}

	t := &Taxonomy{
		categories: make([]Category, 0, len(categories)),
		weights:    make(map[string]float64, len(categories)),
		synonyms:   make(map[string][]string),
		canonical:  make(map[string]string),
		owner:      make(map[string]string),
	}

	for i, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, &TaxonomyError{Message: fmt.Sprintf("category %d has no name", i)}
		}
		if _, dup := t.weights[name]; dup {
			return nil, &TaxonomyError{Message: fmt.Sprintf("duplicate category %q", name)}
		}

		weight := c.Weight
		if weight == 0 {
			weight = defaultWeight(name)
		}
		t.weights[name] = weight

		cat := Category{Name: name, Weight: weight, Skills: make([]Skill, 0, len(c.Skills))}
		seen := make(map[string]bool, len(c.Skills))
		for _, s := range c.Skills {
			skill := normalizeTerm(s.Name)
			if skill == "" {
				return nil, &TaxonomyError{Message: fmt.Sprintf("category %q has a skill with no name", name)}
			}
			if seen[skill] {
				continue
			}
			seen[skill] = true

			syns := make([]string, 0, len(s.Synonyms))
			for _, syn := range s.Synonyms {
				if syn = normalizeTerm(syn); syn != "" && syn != skill {
					syns = append(syns, syn)
				}
			}
			cat.Skills = append(cat.Skills, Skill{Name: skill, Synonyms: syns})

			if _, ok := t.owner[skill]; !ok {
				t.owner[skill] = name
				t.synonyms[skill] = syns
			}
			if _, ok := t.canonical[skill]; !ok {
				t.canonical[skill] = skill
			}
			for _, syn := range syns {
				if _, ok := t.canonical[syn]; !ok {
					t.canonical[syn] = skill
				}
			}
		}
		t.categories = append(t.categories, cat)
	}

	return t, nil
}

// ParseTaxonomy parses a JSON taxonomy document after validating it against the
// embedded taxonomy schema
func ParseTaxonomy(data []byte) (*Taxonomy, error) {
	if err := schemas.Validate(schemas.TaxonomySchema, data); err != nil {
		return nil, &TaxonomyError{Message: "taxonomy document failed schema validation", Cause: err}
	}

	var doc struct {
		Categories []Category `json:"categories"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &TaxonomyError{Message: "failed to unmarshal taxonomy", Cause: err}
	}

	return NewTaxonomy(doc.Categories)
}

// LoadTaxonomy reads and parses a taxonomy file
func LoadTaxonomy(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &TaxonomyError{Message: fmt.Sprintf("failed to read taxonomy file %s", path), Cause: err}
	}
	return ParseTaxonomy(data)
}

// Categories returns a copy of the categories in declaration order
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		skills := make([]Skill, len(c.Skills))
		for j, s := range c.Skills {
			skills[j] = Skill{Name: s.Name, Synonyms: append([]string(nil), s.Synonyms...)}
		}
		out[i] = Category{Name: c.Name, Weight: c.Weight, Skills: skills}
	}
	return out
}

// CategoryNames returns the category names in declaration order
func (t *Taxonomy) CategoryNames() []string {
	names := make([]string, len(t.categories))
	for i, c := range t.categories {
		names[i] = c.Name
	}
	return names
}

// Weight returns the scoring weight for a category
func (t *Taxonomy) Weight(category string) float64 {
	if w, ok := t.weights[category]; ok {
		return w
	}
	return defaultWeight(category)
}

// Canonical resolves a skill name or synonym to its canonical skill
func (t *Taxonomy) Canonical(term string) (string, bool) {
	c, ok := t.canonical[normalizeTerm(term)]
	return c, ok
}

// Synonyms returns the synonyms registered for a canonical skill
func (t *Taxonomy) Synonyms(skill string) []string {
	return t.synonyms[normalizeTerm(skill)]
}

// CategoryOf returns the first category declaring the skill, or "" if unknown
func (t *Taxonomy) CategoryOf(skill string) string {
	canonical, ok := t.Canonical(skill)
	if !ok {
		return ""
	}
	return t.owner[canonical]
}

// Equivalent reports whether two terms name the same canonical skill
func (t *Taxonomy) Equivalent(a, b string) bool {
	a, b = normalizeTerm(a), normalizeTerm(b)
	if a == b {
		return true
	}
	ca, okA := t.canonical[a]
	cb, okB := t.canonical[b]
	return okA && okB && ca == cb
}

func defaultWeight(category string) float64 {
	if w, ok := categoryWeights[category]; ok {
		return w
	}
	return DefaultCategoryWeight
}

func normalizeTerm(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// DefaultTaxonomy returns the built-in taxonomy
func DefaultTaxonomy() *Taxonomy {
	t, err := NewTaxonomy(builtinCategories)
	if err != nil {
		panic(fmt.Sprintf("built-in taxonomy is invalid: %v", err))
	}
	return t
}

var builtinCategories = []Category{
	{
		Name: "programming_languages",
		Skills: []Skill{
			{Name: "python", Synonyms: []string{"py"}},
			{Name: "java", Synonyms: []string{"jvm"}},
			{Name: "javascript", Synonyms: []string{"js", "ecmascript", "node.js", "nodejs"}},
			{Name: "typescript", Synonyms: []string{"ts"}},
			{Name: "c++", Synonyms: []string{"cpp", "c plus plus"}},
			{Name: "c#", Synonyms: []string{"csharp", "c sharp"}},
			{Name: "php"},
			{Name: "ruby"},
			{Name: "go", Synonyms: []string{"golang"}},
			{Name: "rust"},
			{Name: "swift"},
			{Name: "kotlin"},
			{Name: "scala"},
			{Name: "r", Synonyms: []string{"r language", "r programming"}},
			{Name: "matlab"},
		},
	},
	{
		Name: "web_frameworks",
		Skills: []Skill{
			{Name: "react", Synonyms: []string{"reactjs", "react.js"}},
			{Name: "angular", Synonyms: []string{"angularjs", "angular.js"}},
			{Name: "vue", Synonyms: []string{"vuejs", "vue.js"}},
			{Name: "django"},
			{Name: "flask"},
			{Name: "spring"},
			{Name: "express", Synonyms: []string{"expressjs", "express.js"}},
			{Name: "laravel"},
			{Name: "rails"},
			{Name: "next.js", Synonyms: []string{"nextjs"}},
			{Name: "nuxt.js", Synonyms: []string{"nuxtjs"}},
			{Name: "svelte"},
			{Name: "ember"},
		},
	},
	{
		Name: "databases",
		Skills: []Skill{
			{Name: "mysql"},
			{Name: "postgresql", Synonyms: []string{"postgres", "psql"}},
			{Name: "mongodb", Synonyms: []string{"mongo"}},
			{Name: "redis"},
			{Name: "elasticsearch", Synonyms: []string{"elastic", "es"}},
			{Name: "sqlite"},
			{Name: "oracle"},
			{Name: "cassandra"},
			{Name: "dynamodb", Synonyms: []string{"dynamo"}},
			{Name: "firebase"},
		},
	},
	{
		Name: "cloud_platforms",
		Skills: []Skill{
			{Name: "aws", Synonyms: []string{"amazon web services", "amazon aws"}},
			{Name: "azure", Synonyms: []string{"microsoft azure"}},
			{Name: "gcp", Synonyms: []string{"google cloud", "google cloud platform"}},
			{Name: "docker"},
			{Name: "kubernetes", Synonyms: []string{"k8s"}},
			{Name: "terraform"},
			{Name: "jenkins"},
			{Name: "heroku"},
			{Name: "vercel"},
			{Name: "digital ocean", Synonyms: []string{"digitalocean"}},
		},
	},
	{
		Name: "tools",
		Skills: []Skill{
			{Name: "git", Synonyms: []string{"version control"}},
			{Name: "github"},
			{Name: "gitlab"},
			{Name: "jira"},
			{Name: "confluence"},
			{Name: "slack"},
			{Name: "figma"},
			{Name: "photoshop", Synonyms: []string{"ps", "adobe photoshop"}},
			{Name: "illustrator", Synonyms: []string{"ai", "adobe illustrator"}},
			{Name: "sketch"},
			{Name: "linux"},
			{Name: "docker"},
		},
	},
	{
		Name: "soft_skills",
		Skills: []Skill{
			{Name: "leadership"},
			{Name: "communication", Synonyms: []string{"verbal communication", "written communication"}},
			{Name: "teamwork"},
			{Name: "problem solving", Synonyms: []string{"problem-solving", "troubleshooting"}},
			{Name: "analytical thinking"},
			{Name: "project management", Synonyms: []string{"pm", "project coordination"}},
			{Name: "agile"},
			{Name: "scrum"},
		},
	},
}
