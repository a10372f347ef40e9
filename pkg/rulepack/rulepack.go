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

// Package rulepack resolves shared rule collections from outside the
// corpus config.
//
// 🎯 Purpose: digitization projects curate correction rules centrally and
// reuse them across corpora. A config names a pack source; this package
// fetches it and hands the entries to the config layer for validation.
//
// 🔌 Sources:
//
//	rules/english.yaml                               local file
//	github.com/OWNER/REPO//packs/english.yaml        GitHub, default branch
//	github.com/OWNER/REPO@v1.2.0//packs/english.yaml GitHub, pinned ref
package rulepack

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/ocrrc/pkg/config"
)

// 🔌 Provider fetches rule pack content for sources it can handle
type Provider interface {
	// 🎯 CanHandle reports whether this provider recognizes the source
	CanHandle(source string) bool

	// 📥 Fetch returns the pack's raw content plus a display filename
	// whose extension selects the parser
	Fetch(ctx context.Context, source string) (io.ReadCloser, string, error)
}

// 🗺️ providers holds registered providers in registration order
var providers []Provider

// 📝 Register adds a provider to the registry
func Register(p Provider) {
	providers = append(providers, p)
}

// 🎯 Get returns the first provider that can handle the source
func Get(source string) Provider {
	for _, p := range providers {
		if p.CanHandle(source) {
			return p
		}
	}
	return nil
}

// 📦 Load fetches a rule pack and parses it into rule entries
func Load(ctx context.Context, source string) ([]config.RuleEntry, error) {
	logger := zerolog.Ctx(ctx)

	p := Get(source)
	if p == nil {
		return nil, errors.Errorf("no rule pack provider for source: %s", source)
	}

	rc, name, err := p.Fetch(ctx, source)
	if err != nil {
		return nil, errors.Errorf("fetching rule pack: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Errorf("reading rule pack: %w", err)
	}

	entries, err := config.ParseRulesData(ctx, data, name)
	if err != nil {
		return nil, errors.Errorf("parsing rule pack %s: %w", source, err)
	}

	logger.Debug().Str("source", source).Int("rules", len(entries)).Msg("loaded rule pack")
	return entries, nil
}
