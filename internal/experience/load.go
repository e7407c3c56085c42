package experience

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/resume-matcher/internal/types"
)

// LoadResume reads a résumé record from a JSON file. The record is not
// validated; call NormalizeResume before analyzing it.
func LoadResume(path string) (*types.Resume, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: fmt.Errorf("failed to read file: %w", err)}
	}

	var resume types.Resume
	if err := json.Unmarshal(content, &resume); err != nil {
		return nil, &LoadError{Path: path, Cause: fmt.Errorf("failed to decode JSON: %w", err)}
	}
	return &resume, nil
}
