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

package rulepack

import (
	"context"
	"io"
	"os"
	"path"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&GitHubProvider{})
}

// 🐙 GitHubProvider fetches rule packs from GitHub repositories
type GitHubProvider struct{}

// packRef identifies one file in one repository at one ref
type packRef struct {
	Owner string
	Repo  string
	Ref   string // empty means the default branch
	Path  string
}

// 🎯 CanHandle recognizes github.com/OWNER/REPO[@REF]//PATH sources
func (p *GitHubProvider) CanHandle(source string) bool {
	return strings.HasPrefix(source, "github.com/")
}

// 🔍 parseSource splits a GitHub source into its parts
func parseSource(source string) (packRef, error) {
	rest, ok := strings.CutPrefix(source, "github.com/")
	if !ok {
		return packRef{}, errors.Errorf("source is not a GitHub reference: %s", source)
	}

	repoPart, filePath, ok := strings.Cut(rest, "//")
	if !ok || filePath == "" {
		return packRef{}, errors.Errorf("missing file path after // in %s", source)
	}

	repoPart, ref, _ := strings.Cut(repoPart, "@")
	parts := strings.Split(repoPart, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return packRef{}, errors.Errorf("expected github.com/OWNER/REPO, got %q", repoPart)
	}

	return packRef{
		Owner: parts[0],
		Repo:  parts[1],
		Ref:   ref,
		Path:  filePath,
	}, nil
}

// 📥 Fetch downloads one file through the GitHub contents API. An optional
// GITHUB_TOKEN raises the rate limit; public packs work anonymously.
func (p *GitHubProvider) Fetch(ctx context.Context, source string) (io.ReadCloser, string, error) {
	logger := zerolog.Ctx(ctx)

	ref, err := parseSource(source)
	if err != nil {
		return nil, "", errors.Errorf("parsing rule pack source: %w", err)
	}

	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}

	logger.Debug().
		Str("owner", ref.Owner).
		Str("repo", ref.Repo).
		Str("ref", ref.Ref).
		Str("path", ref.Path).
		Msg("fetching rule pack from github")

	content, _, _, err := client.Repositories.GetContents(ctx, ref.Owner, ref.Repo, ref.Path, &github.RepositoryContentGetOptions{
		Ref: ref.Ref,
	})
	if err != nil {
		return nil, "", errors.Errorf("getting rule pack content: %w", err)
	}
	if content == nil {
		return nil, "", errors.Errorf("rule pack source %s is a directory, want a file", source)
	}

	data, err := content.GetContent()
	if err != nil {
		return nil, "", errors.Errorf("decoding rule pack content: %w", err)
	}

	return io.NopCloser(strings.NewReader(data)), path.Base(ref.Path), nil
}
