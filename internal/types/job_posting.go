package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// JobPosting represents a job posting as supplied by the persistence layer
type JobPosting struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title" validate:"required"`
	Company          string    `json:"company" validate:"required"`
	Location         string    `json:"location,omitempty"`
	JobType          string    `json:"job_type,omitempty"`
	Description      string    `json:"description" validate:"required"`
	Requirements     string    `json:"requirements,omitempty"`
	Responsibilities string    `json:"responsibilities,omitempty"`
	Benefits         string    `json:"benefits,omitempty"`
	SourceURL        string    `json:"source_url,omitempty" validate:"omitempty,url"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Validate validates the JobPosting using the validator.
func (j *JobPosting) Validate() error {
	validate := validator.New()
	return validate.Struct(j)
}

// Seniority levels shared by job and résumé facets
const (
	SeniorityEntry     = "entry"
	SeniorityMid       = "mid"
	SenioritySenior    = "senior"
	SeniorityExecutive = "executive"
	SeniorityUnknown   = "unknown"
)

// Education levels, lowest to highest
const (
	EducationHighSchool  = "high_school"
	EducationCertificate = "certificate"
	EducationAssociates  = "associates"
	EducationBachelors   = "bachelors"
	EducationMasters     = "masters"
	EducationPhD         = "phd"
	EducationUnknown     = "unknown"
)

// Priority tiers for required job skills
const (
	PriorityCritical   = "critical"
	PriorityImportant  = "important"
	PriorityNiceToHave = "nice_to_have"
)

// JobFacets is the structured analysis of one job-posting text
type JobFacets struct {
	Sections         JobSections          `json:"sections"`
	Requirements     ClassifiedSentences  `json:"requirements"`
	SkillsByCategory map[string][]string  `json:"skills_by_category"`
	Prioritized      PrioritizedSkills    `json:"prioritized"`
	TotalSkills      int                  `json:"total_skills"`
	YearsRequired    *int                 `json:"years_required,omitempty"`
	Seniority        string               `json:"seniority"`
	JobLevel         string               `json:"job_level"`
	Education        EducationRequirement `json:"education"`
	Salary           *SalaryRange         `json:"salary,omitempty"`
	Industry         IndustryGuess        `json:"industry"`
	RemoteWork       RemoteWork           `json:"remote_work"`
	CompanySize      string               `json:"company_size"`
	Urgency          Urgency              `json:"urgency"`
	Keywords         []string             `json:"keywords"`
	ComplexityScore  float64              `json:"complexity_score"`
}

// JobSections holds the text of each recognized section of a posting
type JobSections struct {
	Requirements     string `json:"requirements,omitempty"`
	Preferred        string `json:"preferred,omitempty"`
	Responsibilities string `json:"responsibilities,omitempty"`
	Benefits         string `json:"benefits,omitempty"`
}

// ClassifiedSentences splits posting sentences by requirement strength.
// All holds required, preferred and other qualification sentences in order.
type ClassifiedSentences struct {
	Required  []string `json:"required"`
	Preferred []string `json:"preferred"`
	All       []string `json:"all"`
}

// PrioritizedSkills groups discovered job skills by priority tier
type PrioritizedSkills struct {
	Critical   []string `json:"critical"`
	Important  []string `json:"important"`
	NiceToHave []string `json:"nice_to_have"`
}

// Tier returns the skills for the given tier name
func (p PrioritizedSkills) Tier(name string) []string {
	switch name {
	case PriorityCritical:
		return p.Critical
	case PriorityImportant:
		return p.Important
	case PriorityNiceToHave:
		return p.NiceToHave
	default:
		return nil
	}
}

// EducationRequirement describes the degree requirement of a posting
type EducationRequirement struct {
	DegreeRequired bool     `json:"degree_required"`
	Level          string   `json:"level"`
	Fields         []string `json:"fields,omitempty"`
}

// SalaryRange is a salary found in the posting. Max is nil for a single figure.
type SalaryRange struct {
	Min       int    `json:"min"`
	Max       *int   `json:"max,omitempty"`
	Currency  string `json:"currency"`
	Frequency string `json:"frequency"`
}

// IndustryGuess is the best-guess industry with its vote count as confidence
type IndustryGuess struct {
	Primary    string         `json:"primary"`
	Confidence int            `json:"confidence"`
	Scores     map[string]int `json:"scores,omitempty"`
}

// Remote-work modes
const (
	RemoteModeRemote  = "remote"
	RemoteModeHybrid  = "hybrid"
	RemoteModeOnsite  = "onsite"
	RemoteModeUnknown = "unknown"
)

// RemoteWork is the detected remote-work mode with the raw indicator counts
type RemoteWork struct {
	Mode        string `json:"mode"`
	RemoteScore int    `json:"remote_score"`
	HybridScore int    `json:"hybrid_score"`
	OnsiteScore int    `json:"onsite_score"`
}

// Urgency is the assessed hiring urgency (high, moderate, normal)
type Urgency struct {
	Level              string `json:"level"`
	UrgentIndicators   int    `json:"urgent_indicators"`
	ModerateIndicators int    `json:"moderate_indicators"`
}
