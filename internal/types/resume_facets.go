package types

// ResumeFacets holds the candidate-side signals derived from a résumé
type ResumeFacets struct {
	TotalYears       float64         `json:"total_years"`
	Seniority        string          `json:"seniority"`
	HighestEducation string          `json:"highest_education"`
	FieldsOfStudy    []string        `json:"fields_of_study,omitempty"`
	Contact          ContactPresence `json:"contact"`
	Positions        []string        `json:"positions,omitempty"`
	Sections         []string        `json:"sections,omitempty"`
}

// ContactPresence records which contact details were found
type ContactPresence struct {
	HasEmail bool `json:"has_email"`
	HasPhone bool `json:"has_phone"`
}

// Score returns 0.5 per contact detail present
func (c ContactPresence) Score() float64 {
	score := 0.0
	if c.HasEmail {
		score += 0.5
	}
	if c.HasPhone {
		score += 0.5
	}
	return score
}
