package parsing

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Analyzer turns job-posting text into JobFacets. It only reads its tagger and
// is safe for concurrent use.
type Analyzer struct {
	tagger *skills.Tagger
}

// NewAnalyzer creates an Analyzer that discovers skills with the given tagger
func NewAnalyzer(tagger *skills.Tagger) *Analyzer {
	return &Analyzer{tagger: tagger}
}

var (
	criticalContexts = []string{"required", "must have", "essential", "mandatory", "minimum", "necessary", "critical"}
	niceContexts     = []string{"preferred", "nice to have", "bonus", "plus", "ideal"}
)

// Analyze extracts every facet of a job posting. Empty text yields neutral facets.
func (a *Analyzer) Analyze(jobText string) *types.JobFacets {
	set := a.tagger.TagExact(jobText)

	facets := &types.JobFacets{
		Sections:         ExtractSections(jobText),
		Requirements:     ClassifySentences(jobText),
		SkillsByCategory: set.Names(),
		Prioritized:      PrioritizeSkills(jobText, set),
		TotalSkills:      set.Total(),
		Seniority:        DetectSeniority(jobText),
		JobLevel:         DetectJobLevel(jobText),
		Education:        ExtractEducationRequirement(jobText),
		Salary:           ExtractSalary(jobText),
		Industry:         DetectIndustry(jobText),
		RemoteWork:       DetectRemoteWork(jobText),
		CompanySize:      EstimateCompanySize(jobText),
		Urgency:          AssessUrgency(jobText),
		Keywords:         ExtractKeywords(jobText, keywordLimit),
	}
	if years, ok := ExtractYears(jobText); ok {
		facets.YearsRequired = &years
	}
	facets.ComplexityScore = ComplexityScore(facets)

	return facets
}

// PrioritizeSkills sorts the discovered skills into critical, important and
// nice-to-have tiers from their mention counts and the requirement phrases
// sharing a sentence with them. Each skill lands in exactly one tier.
func PrioritizeSkills(jobText string, set *types.ExtractedSkillSet) types.PrioritizedSkills {
	out := types.PrioritizedSkills{Critical: []string{}, Important: []string{}, NiceToHave: []string{}}

	sentences := make([]string, 0)
	for _, s := range sentenceSplit.Split(jobText, -1) {
		if s = skills.NormalizeText(s); s != "" {
			sentences = append(sentences, s)
		}
	}

	seen := make(map[string]bool)
	for _, cat := range set.Categories {
		for _, sk := range cat.Skills {
			if seen[sk.Name] {
				continue
			}
			seen[sk.Name] = true

			terms := []string{sk.Name}
			if sk.MatchedAs != "" {
				terms = append(terms, sk.MatchedAs)
			}
			score := contextScore(sentences, terms)

			switch {
			case sk.Mentions >= 3 || score >= 2:
				out.Critical = append(out.Critical, sk.Name)
			case sk.Mentions >= 2 || score >= 1:
				out.Important = append(out.Important, sk.Name)
			default:
				out.NiceToHave = append(out.NiceToHave, sk.Name)
			}
		}
	}

	return out
}

// contextScore adds 2 for every critical phrase and subtracts 1 for every
// nice-to-have phrase that shares a sentence with one of the skill terms
func contextScore(sentences []string, terms []string) int {
	var withSkill []string
	for _, s := range sentences {
		for _, term := range terms {
			if skills.CountMentions(s, term) > 0 {
				withSkill = append(withSkill, s)
				break
			}
		}
	}

	score := 0
	for _, ctx := range criticalContexts {
		if anySentenceContains(withSkill, ctx) {
			score += 2
		}
	}
	for _, ctx := range niceContexts {
		if anySentenceContains(withSkill, ctx) {
			score--
		}
	}
	return score
}

func anySentenceContains(sentences []string, phrase string) bool {
	for _, s := range sentences {
		if strings.Contains(s, phrase) {
			return true
		}
	}
	return false
}

// jobLevelTable drives the job level used by the complexity score
var jobLevelTable = []VoteEntry{
	{Category: types.SeniorityEntry, Keywords: []string{"entry", "junior", "associate", "trainee", "0-2 years"}},
	{Category: types.SeniorityMid, Keywords: []string{"mid", "intermediate", "3-5 years", "experienced"}},
	{Category: types.SenioritySenior, Keywords: []string{"senior", "lead", "principal", "5+ years", "expert"}},
	{Category: types.SeniorityExecutive, Keywords: []string{"director", "manager", "head", "chief", "vp"}},
}

// DetectJobLevel counts which level indicators appear in text and returns the
// level with the most, or unknown
func DetectJobLevel(text string) string {
	lower := strings.ToLower(text)
	best, bestCount := types.SeniorityUnknown, 0
	for _, entry := range jobLevelTable {
		if n := countContained(lower, entry.Keywords); n > bestCount {
			best, bestCount = entry.Category, n
		}
	}
	return best
}

var (
	degreeRequiredRes = []*regexp.Regexp{
		regexp.MustCompile(`bachelor.*required`),
		regexp.MustCompile(`degree.*required`),
		regexp.MustCompile(`university.*required`),
		regexp.MustCompile(`must.*degree`),
		regexp.MustCompile(`required.*degree`),
	}

	fieldRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)degree in ([a-z][a-z ]*)`),
		regexp.MustCompile(`(?i)major in ([a-z][a-z ]*)`),
		regexp.MustCompile(`(?i)studied ([a-z][a-z ]*)`),
	}
	fieldSplitRe = regexp.MustCompile(`(?i)\s+(?:or|and)\s+`)
)

// jobDegreeTable maps degree levels to the words a posting uses for them
var jobDegreeTable = VoteTable{
	{Category: types.EducationHighSchool, Keywords: []string{"high school", "diploma", "ged"}},
	{Category: types.EducationAssociates, Keywords: []string{"associates", "associate degree", "aa", "a.s."}},
	{Category: types.EducationBachelors, Keywords: []string{"bachelors", "bachelor", "bs", "ba", "btech", "undergraduate"}},
	{Category: types.EducationMasters, Keywords: []string{"masters", "master", "ms", "m.a.", "mba", "graduate"}},
	{Category: types.EducationPhD, Keywords: []string{"phd", "ph.d", "doctorate", "doctoral"}},
}

// ExtractEducationRequirement finds whether a degree is mandatory, the degree
// level asked for and any field-of-study hints
func ExtractEducationRequirement(text string) types.EducationRequirement {
	req := types.EducationRequirement{Level: types.EducationUnknown}

	// Requirement phrases are matched within a line
	lower := strings.ToLower(text)
	for _, re := range degreeRequiredRes {
		if re.MatchString(lower) {
			req.DegreeRequired = true
			break
		}
	}

	req.Level, _ = jobDegreeTable.Vote(text, types.EducationUnknown)

	seen := make(map[string]bool)
	for _, re := range fieldRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			for _, field := range fieldSplitRe.Split(m[1], -1) {
				field = strings.TrimSpace(field)
				key := strings.ToLower(field)
				if field == "" || seen[key] || strings.Contains(key, "related") {
					continue
				}
				seen[key] = true
				req.Fields = append(req.Fields, field)
			}
		}
	}

	return req
}

// salaryPatterns are tried in order; the first that matches decides the salary
var salaryPatterns = []struct {
	re    *regexp.Regexp
	parse func(m []string) (int, *int)
}{
	{regexp.MustCompile(`\$(\d{2,3}),?(\d{3})\s*-\s*\$(\d{2,3}),?(\d{3})`), parseThousandsRange},
	{regexp.MustCompile(`(?i)\$(\d{2,3})k?\s*-\s*\$?(\d{2,3})k`), parseKRange},
	{regexp.MustCompile(`(\d{2,3}),?(\d{3})\s*-\s*(\d{2,3}),?(\d{3})`), parseThousandsRange},
	{regexp.MustCompile(`\$(\d{2,3}),?(\d{3})`), parseThousands},
	{regexp.MustCompile(`(?i)(\d{2,3})k\s*salary`), parseK},
}

// ExtractSalary returns the first salary figure or range found, or nil
func ExtractSalary(text string) *types.SalaryRange {
	for _, p := range salaryPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		min, max := p.parse(m)
		return &types.SalaryRange{Min: min, Max: max, Currency: "USD", Frequency: "annual"}
	}
	return nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func parseThousandsRange(m []string) (int, *int) {
	max := atoi(m[3])*1000 + atoi(m[4])
	return atoi(m[1])*1000 + atoi(m[2]), &max
}

func parseKRange(m []string) (int, *int) {
	max := atoi(m[2]) * 1000
	return atoi(m[1]) * 1000, &max
}

func parseThousands(m []string) (int, *int) {
	return atoi(m[1])*1000 + atoi(m[2]), nil
}

func parseK(m []string) (int, *int) {
	return atoi(m[1]) * 1000, nil
}

// industryTable holds the industry vocabulary, counted on word boundaries
var industryTable = VoteTable{
	{Category: "technology", Keywords: []string{"software", "tech", "it", "development", "engineering", "startup", "saas", "platform", "api", "cloud", "ai", "ml"}},
	{Category: "finance", Keywords: []string{"finance", "banking", "investment", "trading", "fintech", "hedge fund", "private equity", "wealth management"}},
	{Category: "healthcare", Keywords: []string{"healthcare", "medical", "hospital", "clinical", "pharma", "biotech", "health tech", "telemedicine"}},
	{Category: "consulting", Keywords: []string{"consulting", "advisory", "strategy", "management consulting", "consulting firm", "professional services"}},
	{Category: "ecommerce", Keywords: []string{"ecommerce", "e-commerce", "retail", "marketplace", "online store", "digital commerce"}},
}

// DetectIndustry votes the industry of a posting. Confidence is the winning count.
func DetectIndustry(text string) types.IndustryGuess {
	primary, counts := industryTable.Vote(text, "unknown")
	guess := types.IndustryGuess{Primary: primary, Scores: make(map[string]int, len(industryTable))}
	for i, entry := range industryTable {
		guess.Scores[entry.Category] = counts[i]
		if counts[i] > guess.Confidence {
			guess.Confidence = counts[i]
		}
	}
	return guess
}

var (
	remoteWords = []string{"remote", "work from home", "distributed", "telecommute", "virtual", "anywhere", "location independent"}
	hybridWords = []string{"hybrid", "flexible", "mix of remote", "some remote"}
	onsiteWords = []string{"on-site", "in-office", "office-based", "no remote"}
)

// DetectRemoteWork classifies the work arrangement. Remote must strictly beat
// both other scores; otherwise any hybrid indicator wins over onsite.
func DetectRemoteWork(text string) types.RemoteWork {
	lower := strings.ToLower(text)
	rw := types.RemoteWork{
		RemoteScore: countContained(lower, remoteWords),
		HybridScore: countContained(lower, hybridWords),
		OnsiteScore: countContained(lower, onsiteWords),
	}

	switch {
	case rw.RemoteScore > rw.HybridScore && rw.RemoteScore > rw.OnsiteScore:
		rw.Mode = types.RemoteModeRemote
	case rw.HybridScore > 0:
		rw.Mode = types.RemoteModeHybrid
	case rw.OnsiteScore > 0:
		rw.Mode = types.RemoteModeOnsite
	default:
		rw.Mode = types.RemoteModeUnknown
	}
	return rw
}

// Company sizes
const (
	CompanyStartup = "startup"
	CompanyMedium  = "medium"
	CompanyLarge   = "large_corporation"
	CompanyUnknown = "unknown"
)

var companySizeTable = []VoteEntry{
	{Category: CompanyStartup, Keywords: []string{"startup", "early stage", "seed", "series a", "fast-paced"}},
	{Category: CompanyLarge, Keywords: []string{"fortune 500", "multinational", "enterprise", "global", "established"}},
	{Category: CompanyMedium, Keywords: []string{"growing company", "scale-up", "mid-size", "expanding team"}},
}

// EstimateCompanySize returns the first size whose indicators appear in text
func EstimateCompanySize(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range companySizeTable {
		if containsAny(lower, entry.Keywords) {
			return entry.Category
		}
	}
	return CompanyUnknown
}

// Urgency levels
const (
	UrgencyHigh     = "high"
	UrgencyModerate = "moderate"
	UrgencyNormal   = "normal"
)

var (
	urgentWords   = []string{"urgent", "asap", "immediately", "right away", "start immediately", "fast hire", "quick start", "emergency", "critical need"}
	moderateWords = []string{"soon", "quick", "fast-paced", "growing team", "expanding"}
)

// AssessUrgency rates how urgently the posting is hiring
func AssessUrgency(text string) types.Urgency {
	lower := strings.ToLower(text)
	u := types.Urgency{
		UrgentIndicators:   countContained(lower, urgentWords),
		ModerateIndicators: countContained(lower, moderateWords),
	}
	switch {
	case u.UrgentIndicators > 0:
		u.Level = UrgencyHigh
	case u.ModerateIndicators > 0:
		u.Level = UrgencyModerate
	default:
		u.Level = UrgencyNormal
	}
	return u
}

const keywordLimit = 20

var (
	keywordRe = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)

	stopWords = map[string]bool{
		"the":  true, "and": true, "or": true, "but": true, "in": true, "on": true, "at": true,
		"to":   true, "for": true, "of": true, "with": true, "by": true, "is": true, "are": true,
		"was":  true, "were": true, "be": true, "been": true, "have": true, "has": true, "had": true,
		"will": true, "would": true, "could": true, "should": true, "may": true, "might": true,
		"can":  true, "must": true, "this": true, "that": true, "these": true, "those": true,
		"you":  true, "your": true, "our": true, "we": true, "they": true,
	}
)

// ExtractKeywords returns the most frequent words longer than three letters,
// stop words removed, ties in order of first appearance
func ExtractKeywords(text string, limit int) []string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, w := range keywordRe.FindAllString(strings.ToLower(text), -1) {
		if len(w) <= 3 || stopWords[w] {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

// ComplexityScore rates how demanding a posting is, from 0 to 100
func ComplexityScore(f *types.JobFacets) float64 {
	score := 0

	switch {
	case f.TotalSkills >= 20:
		score += 30
	case f.TotalSkills >= 10:
		score += 20
	case f.TotalSkills >= 5:
		score += 10
	}

	if f.YearsRequired != nil && *f.YearsRequired > 0 {
		switch years := *f.YearsRequired; {
		case years >= 8:
			score += 25
		case years >= 5:
			score += 20
		case years >= 3:
			score += 15
		default:
			score += 10
		}
	}

	if f.Education.DegreeRequired {
		switch f.Education.Level {
		case types.EducationPhD:
			score += 15
		case types.EducationMasters:
			score += 12
		case types.EducationBachelors:
			score += 8
		default:
			score += 5
		}
	}

	switch f.JobLevel {
	case types.SeniorityExecutive:
		score += 20
	case types.SenioritySenior:
		score += 15
	case types.SeniorityMid:
		score += 10
	default:
		score += 5
	}

	switch f.Industry.Primary {
	case "technology", "finance":
		score += 10
	case "unknown", "":
	default:
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return float64(score)
}
