// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/walteh/ocrrc/pkg/rules"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📦 CorpusArgs describes where the scanned pages live and how to read them
type CorpusArgs struct {
	Root        string   `json:"root" yaml:"root"`                                 // Directory holding the OCR output tree
	Include     []string `json:"include,omitempty" yaml:"include,omitempty"`       // Glob patterns for corpus files
	Ignore      []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`         // Glob patterns to exclude
	Encoding    string   `json:"encoding,omitempty" yaml:"encoding,omitempty"`     // utf-8 (default), latin-1, or windows-1252
	MaxFileSize int64    `json:"max_file_size,omitempty" yaml:"max_file_size,omitempty"` // Per-file byte limit, defaults to 32 MiB, negative disables
}

// 🔄 RuleEntry is one substitution rule as written in configuration
type RuleEntry struct {
	Pattern     string `json:"pattern" yaml:"pattern"`
	Replacement string `json:"replacement" yaml:"replacement"`
	Scope       string `json:"scope" yaml:"scope"` // "character" or "word"
	Priority    int    `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// 📊 ReportArgs controls analysis report output
type ReportArgs struct {
	TopPatterns int    `json:"top_patterns,omitempty" yaml:"top_patterns,omitempty"` // Rows in the text report
	JSONTop     int    `json:"json_top,omitempty" yaml:"json_top,omitempty"`         // Rows in the JSON export
	OutDir      string `json:"out_dir,omitempty" yaml:"out_dir,omitempty"`           // Where reports are written
}

// 🔧 CorrectArgs controls corrected output files
type CorrectArgs struct {
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty"` // Inserted before the extension
	DryRun bool   `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Corpus      CorpusArgs   `json:"corpus" yaml:"corpus"`
	Rules       []RuleEntry  `json:"rules,omitempty" yaml:"rules,omitempty"`
	RulesSource string       `json:"rules_source,omitempty" yaml:"rules_source,omitempty"` // Path or repo reference for a rule pack
	Report      *ReportArgs  `json:"report,omitempty" yaml:"report,omitempty"`
	Correct     *CorrectArgs `json:"correct,omitempty" yaml:"correct,omitempty"`
	Jobs        int          `json:"jobs,omitempty" yaml:"jobs,omitempty"` // Worker count, 0 for one per CPU
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	// Check required fields
	if cfg.Corpus.Root == "" {
		return errors.Errorf("corpus.root is required")
	}

	// Clean up paths
	cfg.Corpus.Root = filepath.Clean(cfg.Corpus.Root)

	// Set defaults
	if cfg.Corpus.MaxFileSize == 0 {
		cfg.Corpus.MaxFileSize = 32 << 20
	}
	if cfg.Report != nil {
		if cfg.Report.TopPatterns == 0 {
			cfg.Report.TopPatterns = 30
		}
		if cfg.Report.JSONTop == 0 {
			cfg.Report.JSONTop = 100
		}
	}
	if cfg.Jobs < 0 {
		return errors.Errorf("jobs must not be negative")
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	source := "inline rules"
	switch {
	case len(cfg.Rules) > 0 && cfg.RulesSource != "":
		source = fmt.Sprintf("%d inline rules + %s", len(cfg.Rules), cfg.RulesSource)
	case cfg.RulesSource != "":
		source = cfg.RulesSource
	default:
		source = fmt.Sprintf("%d inline rules", len(cfg.Rules))
	}
	return fmt.Sprintf("corpus %s (%s)", cfg.Corpus.Root, source)
}

// 🏭 BuildRuleSet compiles rule entries into an immutable rule set.
// Scope strings are parsed here so config errors carry the entry index.
func BuildRuleSet(entries []RuleEntry) (*rules.Set, error) {
	rs := make([]rules.Rule, 0, len(entries))
	for i, e := range entries {
		scope, err := rules.ParseScope(e.Scope)
		if err != nil {
			return nil, errors.Errorf("rule %d (%q): %w", i, e.Pattern, err)
		}
		rs = append(rs, rules.Rule{
			Pattern:     e.Pattern,
			Replacement: e.Replacement,
			Scope:       scope,
			Priority:    e.Priority,
		})
	}
	set, err := rules.NewSet(rs)
	if err != nil {
		return nil, errors.Errorf("building rule set: %w", err)
	}
	return set, nil
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

// 📝 Parse parses the config from YAML bytes
func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}
