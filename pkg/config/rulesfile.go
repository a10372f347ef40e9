package config

import (
	"context"
	"encoding/json"
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// rulesFile is the on-disk shape of a standalone rule pack file.
type rulesFile struct {
	Rules []RuleEntry `json:"rules" yaml:"rules"`
}

// ParseRulesData decodes a standalone rules file. The format follows
// the file name: .yaml/.yml or .json; anything else is tried as YAML,
// which also covers rule packs fetched from remote repositories.
func ParseRulesData(ctx context.Context, data []byte, filename string) ([]RuleEntry, error) {
	lower := strings.ToLower(filename)

	var rf rulesFile
	switch {
	case strings.HasSuffix(lower, ".json"):
		decoder := json.NewDecoder(strings.NewReader(string(data)))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&rf); err != nil {
			return nil, errors.Errorf("parsing rules file %s: %w", filename, err)
		}
	default:
		decoder := yaml.NewDecoder(strings.NewReader(string(data)))
		decoder.KnownFields(true)
		if err := decoder.Decode(&rf); err != nil {
			return nil, errors.Errorf("parsing rules file %s: %w", filename, err)
		}
	}

	if len(rf.Rules) == 0 {
		return nil, errors.Errorf("rules file %s contains no rules", filename)
	}
	return rf.Rules, nil
}
