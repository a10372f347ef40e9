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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// Define HCL schema
	type hclConfig struct {
		Corpus struct {
			Root        string   `hcl:"root"`
			Include     []string `hcl:"include,optional"`
			Ignore      []string `hcl:"ignore,optional"`
			Encoding    string   `hcl:"encoding,optional"`
			MaxFileSize int64    `hcl:"max_file_size,optional"`
		} `hcl:"corpus,block"`
		RulesSource string `hcl:"rules_source,optional"`
		Rules       []struct {
			Pattern     string `hcl:"pattern"`
			Replacement string `hcl:"replacement"`
			Scope       string `hcl:"scope"`
			Priority    int    `hcl:"priority,optional"`
		} `hcl:"rule,block"`
		Report *struct {
			TopPatterns int    `hcl:"top_patterns,optional"`
			JSONTop     int    `hcl:"json_top,optional"`
			OutDir      string `hcl:"out_dir,optional"`
		} `hcl:"report,block"`
		Correct *struct {
			Suffix string `hcl:"suffix,optional"`
			DryRun bool   `hcl:"dry_run,optional"`
		} `hcl:"correct,block"`
		Jobs int `hcl:"jobs,optional"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Corpus: CorpusArgs{
			Root:        hclCfg.Corpus.Root,
			Include:     hclCfg.Corpus.Include,
			Ignore:      hclCfg.Corpus.Ignore,
			Encoding:    hclCfg.Corpus.Encoding,
			MaxFileSize: hclCfg.Corpus.MaxFileSize,
		},
		RulesSource: hclCfg.RulesSource,
		Jobs:        hclCfg.Jobs,
	}

	for _, r := range hclCfg.Rules {
		cfg.Rules = append(cfg.Rules, RuleEntry{
			Pattern:     r.Pattern,
			Replacement: r.Replacement,
			Scope:       r.Scope,
			Priority:    r.Priority,
		})
	}

	if hclCfg.Report != nil {
		cfg.Report = &ReportArgs{
			TopPatterns: hclCfg.Report.TopPatterns,
			JSONTop:     hclCfg.Report.JSONTop,
			OutDir:      hclCfg.Report.OutDir,
		}
	}

	if hclCfg.Correct != nil {
		cfg.Correct = &CorrectArgs{
			Suffix: hclCfg.Correct.Suffix,
			DryRun: hclCfg.Correct.DryRun,
		}
	}

	return cfg, nil
}
