// Package experience provides résumé loading, normalization and the extractor
// that derives candidate-side signals from résumé text.
package experience

import (
	"fmt"
	"strings"
)

// LoadError is returned when a résumé file cannot be read or decoded
type LoadError struct {
	Path  string
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load resume %s: %v", e.Path, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// NormalizationError reports a résumé record rejected by validation. Field is
// the namespace of the first invalid field, e.g. Resume.Education[0].Degree.
type NormalizationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *NormalizationError) Error() string {
	var sb strings.Builder
	sb.WriteString("normalization error: ")
	sb.WriteString(e.Message)
	if e.Field != "" {
		sb.WriteString(" (" + e.Field + ")")
	}
	if e.Cause != nil {
		sb.WriteString(": " + e.Cause.Error())
	}
	return sb.String()
}

func (e *NormalizationError) Unwrap() error {
	return e.Cause
}
