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

// 📦 Package corpus handles the on-disk side of the pipeline: finding
// scanned page files under a corpus root, loading them as UTF-8 text,
// and writing corrected copies back next to the originals.
package corpus

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔍 DefaultInclude matches the OCR text files the scanners emit
var DefaultInclude = []string{"**/*_ocr.txt"}

// 🔍 DefaultIgnore skips dotfiles and hidden directories at any depth
var DefaultIgnore = []string{".*", "**/.*"}

// DiscoverOptions narrows which files under the root count as corpus
// members. Patterns are doublestar globs matched against slash
// separated paths relative to the root.
type DiscoverOptions struct {
	Include []string // defaults to DefaultInclude when empty
	Ignore  []string // defaults to DefaultIgnore when empty
}

// 🔍 Discover walks root and returns the relative paths of all corpus
// files, sorted. Directories whose relative path matches an ignore
// pattern are skipped entirely.
func Discover(ctx context.Context, root string, opts DiscoverOptions) ([]string, error) {
	include := opts.Include
	if len(include) == 0 {
		include = DefaultInclude
	}
	ignore := opts.Ignore
	if len(ignore) == 0 {
		ignore = DefaultIgnore
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			// Prune only when a pattern names the directory itself.
			// Patterns like "drafts/**" are still applied per file.
			if matchAny(ctx, ignore, rel) {
				zerolog.Ctx(ctx).Debug().Str("dir", rel).Msg("skipping ignored directory")
				return filepath.SkipDir
			}
			return nil
		}

		if matchAny(ctx, include, rel) && !matchAny(ctx, ignore, rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking corpus root %s: %w", root, err)
	}

	sort.Strings(files)
	zerolog.Ctx(ctx).Debug().
		Str("root", root).
		Int("files", len(files)).
		Msg("corpus discovery complete")
	return files, nil
}

func matchAny(ctx context.Context, patterns []string, rel string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			zerolog.Ctx(ctx).Debug().
				Str("pattern", pattern).
				Str("path", rel).
				Err(err).
				Msg("error matching pattern")
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
