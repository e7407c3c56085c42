package types

// MatchResult is the complete output of one résumé/job analysis
type MatchResult struct {
	OverallScore     float64            `json:"overall_score"`
	MatchPercentage  float64            `json:"match_percentage"`
	ComponentScores  ComponentScores    `json:"component_scores"`
	Skills           SkillsAnalysis     `json:"skills"`
	Experience       ExperienceAnalysis `json:"experience"`
	Education        EducationAnalysis  `json:"education"`
	Keywords         KeywordAnalysis    `json:"keywords"`
	ATS              ATSAnalysis        `json:"ats"`
	JobComplexity    float64            `json:"job_complexity"`
	Recommendations  []Recommendation   `json:"recommendations"`
	MatchStrengths   []string           `json:"match_strengths"`
	ImprovementAreas []string           `json:"improvement_areas"`
}

// ComponentScores are the five weighted dimensions, each in [0,100]
type ComponentScores struct {
	Skills     float64 `json:"skills_score"`
	Experience float64 `json:"experience_score"`
	Education  float64 `json:"education_score"`
	Keywords   float64 `json:"keywords_score"`
	ATS        float64 `json:"ats_score"`
}

// CategoryMatch is the skill comparison for one taxonomy category
type CategoryMatch struct {
	Category           string   `json:"category"`
	ExactMatches       []string `json:"exact_matches"`
	PartialMatches     []string `json:"partial_matches"`
	Missing            []string `json:"missing"`
	CoveragePercentage float64  `json:"coverage_percentage"`
	CategoryScore      float64  `json:"category_score"`
}

// SkillsAnalysis is the skills dimension detail
type SkillsAnalysis struct {
	Score                   float64         `json:"score"`
	Categories              []CategoryMatch `json:"categories"`
	MissingCriticalSkills   []string        `json:"missing_critical_skills"`
	MissingImportantSkills  []string        `json:"missing_important_skills"`
	MissingNiceToHaveSkills []string        `json:"missing_nice_to_have_skills"`
	StrengthAreas           []string        `json:"strength_areas"`
	WeaknessAreas           []string        `json:"weakness_areas"`
}

// Qualification statuses
const (
	QualificationOver  = "over-qualified"
	QualificationMet   = "qualified"
	QualificationUnder = "under-qualified"
)

// ExperienceAnalysis is the experience dimension detail
type ExperienceAnalysis struct {
	Score               float64 `json:"score"`
	ResumeYears         float64 `json:"resume_years"`
	RequiredYears       float64 `json:"required_years"`
	Gap                 float64 `json:"experience_gap"`
	LevelMatch          bool    `json:"level_match"`
	ResumeSeniority     string  `json:"resume_seniority"`
	JobSeniority        string  `json:"job_seniority"`
	QualificationStatus string  `json:"qualification_status"`
}

// EducationAnalysis is the education dimension detail
type EducationAnalysis struct {
	Score                float64 `json:"score"`
	DegreeRequirementMet bool    `json:"degree_requirement_met"`
	ResumeLevel          string  `json:"resume_level"`
	RequiredLevel        string  `json:"required_level"`
	MeetsLevel           bool    `json:"meets_level"`
	FieldMatch           bool    `json:"field_match"`
}

// KeywordDensity is the occurrence detail of one job keyword in the résumé
type KeywordDensity struct {
	Keyword      string  `json:"keyword"`
	Count        int     `json:"count"`
	Density      float64 `json:"density_percentage"`
	DensityScore float64 `json:"density_score"`
}

// KeywordAnalysis is the keyword dimension detail
type KeywordAnalysis struct {
	Score               float64          `json:"score"`
	Coverage            float64          `json:"keyword_coverage"`
	MissingKeywords     []string         `json:"missing_keywords"`
	HighDensityKeywords []KeywordDensity `json:"high_density_keywords"`
	Densities           []KeywordDensity `json:"densities"`
	TotalWords          int              `json:"total_words"`
}

// ATSIssue is one problem an applicant tracking system would have with the résumé
type ATSIssue struct {
	Type           string `json:"type"`
	Severity       string `json:"severity"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

// ATSFactors are the raw [0,1] inputs of the ATS score
type ATSFactors struct {
	Length     float64 `json:"length"`
	Contact    float64 `json:"contact"`
	Structure  float64 `json:"structure"`
	Formatting float64 `json:"formatting"`
}

// ATSAnalysis is the ATS-compatibility dimension detail
type ATSAnalysis struct {
	Score            float64    `json:"ats_score"`
	Factors          ATSFactors `json:"score_factors"`
	Issues           []ATSIssue `json:"issues"`
	Suggestions      []string   `json:"suggestions"`
	DetectedSections []string   `json:"detected_sections"`
	WordCount        int        `json:"word_count"`
}

// Recommendation priorities
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Recommendation is one ranked improvement suggestion
type Recommendation struct {
	Type        string   `json:"type"`
	Priority    string   `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ActionItems []string `json:"action_items"`
}
