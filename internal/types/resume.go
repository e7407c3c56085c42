// Package types provides type definitions for structured data used throughout the resume-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Resume represents a candidate résumé as supplied by the persistence layer.
// RawText, when present, is the text the matcher analyzes; otherwise the
// structured fields are joined into a synthetic document.
type Resume struct {
	ID             uuid.UUID        `json:"id"`
	Title          string           `json:"title,omitempty"`
	FullName       string           `json:"full_name" validate:"required"`
	Email          string           `json:"email,omitempty" validate:"omitempty,email"`
	Phone          string           `json:"phone,omitempty"`
	Location       string           `json:"location,omitempty"`
	LinkedInURL    string           `json:"linkedin_url,omitempty" validate:"omitempty,url"`
	WebsiteURL     string           `json:"website_url,omitempty" validate:"omitempty,url"`
	Summary        string           `json:"summary,omitempty"`
	WorkExperience []WorkExperience `json:"work_experience,omitempty" validate:"dive"`
	Education      []EducationEntry `json:"education,omitempty" validate:"dive"`
	Skills         []SkillEntry     `json:"skills,omitempty" validate:"dive"`
	Certifications []Certification  `json:"certifications,omitempty" validate:"dive"`
	Projects       []Project        `json:"projects,omitempty" validate:"dive"`
	Languages      []Language       `json:"languages,omitempty" validate:"dive"`
	RawText        string           `json:"raw_text,omitempty"`
	ObjectKey      string           `json:"object_key,omitempty"` // Document store key of the uploaded file
	FileExt        string           `json:"file_ext,omitempty"`   // .pdf, .docx, .txt
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// WorkExperience is a single position held by the candidate.
// Dates are free-form strings ("2019", "2019-04", "Present").
type WorkExperience struct {
	Title        string   `json:"title" validate:"required"`
	Company      string   `json:"company" validate:"required"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	Current      bool     `json:"current,omitempty"`
	Description  string   `json:"description,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

// EducationEntry is a single degree or program.
type EducationEntry struct {
	Degree      string  `json:"degree" validate:"required_without=Institution"`
	Field       string  `json:"field,omitempty"`
	Institution string  `json:"institution,omitempty" validate:"required_without=Degree"`
	StartDate   string  `json:"start_date,omitempty"`
	EndDate     string  `json:"end_date,omitempty"`
	GPA         float64 `json:"gpa,omitempty" validate:"gte=0,lte=5"`
}

// SkillEntry is a skill declared by the candidate.
type SkillEntry struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category,omitempty"`
	Level    string `json:"level,omitempty"`
}

// Certification is a professional certification.
type Certification struct {
	Name   string `json:"name" validate:"required"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
}

// Project is a portfolio or side project.
type Project struct {
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	URL          string   `json:"url,omitempty" validate:"omitempty,url"`
}

// Language is a spoken language and proficiency.
type Language struct {
	Name        string `json:"name" validate:"required"`
	Proficiency string `json:"proficiency,omitempty"`
}

// Validate validates the résumé and every structured entry. Malformed entries
// are reported rather than skipped.
func (r *Resume) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
