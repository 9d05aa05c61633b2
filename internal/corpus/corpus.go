// Package corpus loads the labeled test phrase dataset.
//
// The corpus is an immutable input: phrases are built or loaded once per
// process and never mutated. A built-in dataset covering every category is
// always available; a JSON file can replace it for larger sweeps.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/model"
)

// Load reads a corpus from a JSON file. An empty path returns the built-in
// dataset.
func Load(path string) ([]model.TestPhrase, error) {
	if path == "" {
		return Builtin(), nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from user config
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}

	var phrases []model.TestPhrase
	if err := json.Unmarshal(data, &phrases); err != nil {
		return nil, fmt.Errorf("failed to parse corpus file: %w", err)
	}

	if len(phrases) == 0 {
		return nil, fmt.Errorf("corpus file %s contains no phrases", path)
	}

	for i, p := range phrases {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("corpus entry %d: %w", i, err)
		}
	}

	return phrases, nil
}

// FilterCategory returns the subset of phrases tagged with the given
// category; an empty category returns the input unchanged.
func FilterCategory(phrases []model.TestPhrase, category string) []model.TestPhrase {
	if category == "" {
		return phrases
	}
	filtered := make([]model.TestPhrase, 0, len(phrases))
	for _, p := range phrases {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
