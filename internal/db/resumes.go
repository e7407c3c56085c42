package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-matcher/internal/types"
)

// -----------------------------------------------------------------------------
// Resume Methods
// -----------------------------------------------------------------------------

const resumeColumns = `id, title, full_name, email, phone, location, linkedin_url, website_url,
	summary, work_experience, education, skills, certifications, projects, languages,
	raw_text, object_key, file_ext, created_at, updated_at`

// resumeLists holds the JSONB encodings of a résumé's structured lists
type resumeLists struct {
	work, education, skills, certifications, projects, languages []byte
}

func encodeResumeLists(r *types.Resume) (*resumeLists, error) {
	var l resumeLists
	var err error
	if l.work, err = marshalJSONB(r.WorkExperience); err != nil {
		return nil, fmt.Errorf("failed to marshal work experience: %w", err)
	}
	if l.education, err = marshalJSONB(r.Education); err != nil {
		return nil, fmt.Errorf("failed to marshal education: %w", err)
	}
	if l.skills, err = marshalJSONB(r.Skills); err != nil {
		return nil, fmt.Errorf("failed to marshal skills: %w", err)
	}
	if l.certifications, err = marshalJSONB(r.Certifications); err != nil {
		return nil, fmt.Errorf("failed to marshal certifications: %w", err)
	}
	if l.projects, err = marshalJSONB(r.Projects); err != nil {
		return nil, fmt.Errorf("failed to marshal projects: %w", err)
	}
	if l.languages, err = marshalJSONB(r.Languages); err != nil {
		return nil, fmt.Errorf("failed to marshal languages: %w", err)
	}
	return &l, nil
}

// CreateResume stores a résumé. A nil ID is replaced with a new one.
func (db *DB) CreateResume(ctx context.Context, r *types.Resume) (*types.Resume, error) {
	stored := *r
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	now := time.Now().UTC()
	stored.CreatedAt, stored.UpdatedAt = now, now

	lists, err := encodeResumeLists(&stored)
	if err != nil {
		return nil, err
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO resumes (`+resumeColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		stored.ID, stored.Title, stored.FullName, stored.Email, stored.Phone, stored.Location,
		stored.LinkedInURL, stored.WebsiteURL, stored.Summary,
		lists.work, lists.education, lists.skills, lists.certifications, lists.projects, lists.languages,
		stored.RawText, stored.ObjectKey, stored.FileExt, stored.CreatedAt, stored.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return &stored, nil
}

// GetResume retrieves a résumé by ID
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*types.Resume, error) {
	var r types.Resume
	var l resumeLists

	err := db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.Title, &r.FullName, &r.Email, &r.Phone, &r.Location,
		&r.LinkedInURL, &r.WebsiteURL, &r.Summary,
		&l.work, &l.education, &l.skills, &l.certifications, &l.projects, &l.languages,
		&r.RawText, &r.ObjectKey, &r.FileExt, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	if err := decodeResumeLists(&r, &l); err != nil {
		return nil, err
	}
	return &r, nil
}

func decodeResumeLists(r *types.Resume, l *resumeLists) error {
	if err := unmarshalJSONB(l.work, &r.WorkExperience); err != nil {
		return fmt.Errorf("failed to unmarshal work experience: %w", err)
	}
	if err := unmarshalJSONB(l.education, &r.Education); err != nil {
		return fmt.Errorf("failed to unmarshal education: %w", err)
	}
	if err := unmarshalJSONB(l.skills, &r.Skills); err != nil {
		return fmt.Errorf("failed to unmarshal skills: %w", err)
	}
	if err := unmarshalJSONB(l.certifications, &r.Certifications); err != nil {
		return fmt.Errorf("failed to unmarshal certifications: %w", err)
	}
	if err := unmarshalJSONB(l.projects, &r.Projects); err != nil {
		return fmt.Errorf("failed to unmarshal projects: %w", err)
	}
	if err := unmarshalJSONB(l.languages, &r.Languages); err != nil {
		return fmt.Errorf("failed to unmarshal languages: %w", err)
	}
	return nil
}
