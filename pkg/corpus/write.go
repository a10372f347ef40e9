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

package corpus

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ DefaultCorrectedSuffix is appended to the base name of corrected
// output files
const DefaultCorrectedSuffix = "_corrected"

// CorrectedPath inserts suffix between a file's base name and its
// extension, so page_ocr.txt becomes page_ocr_corrected.txt. An empty
// suffix falls back to DefaultCorrectedSuffix.
func CorrectedPath(path, suffix string) string {
	if suffix == "" {
		suffix = DefaultCorrectedSuffix
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

// 📝 WriteCorrected writes corrected text next to its source file. The
// write goes through a temp file and rename so readers never observe a
// half written page.
func WriteCorrected(ctx context.Context, path string, content string) error {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("writing %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, []byte(content), 0644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath) // Clean up temp file
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}
