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

// Package lockfile persists per-file correction state between runs.
//
// 🎯 Purpose: a corpus run that corrected ten thousand pages should not
// redo them all when one page changes. The lock file records, per corpus
// file, the content hash that was corrected and under which rule set.
// A file is skippable when both hashes still match.
//
// 📝 The lock file is JSON, written atomically next to the corpus config:
//
//	.ocrrc.lock
//	{
//	  "last_run": "...",
//	  "rule_set_hash": "sha256...",
//	  "files": {
//	    "texarkana/1885/page01_ocr.txt": {
//	      "content_hash": "sha256...",
//	      "corrected_hash": "sha256...",
//	      "matches": 12,
//	      "corrected_at": "..."
//	    }
//	  }
//	}
package lockfile

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultName is the lock file name, resolved relative to the config file.
const DefaultName = ".ocrrc.lock"

// 🔒 Lock is the top-level lock file structure
type Lock struct {
	LastRun     time.Time           `json:"last_run"`
	RuleSetHash string              `json:"rule_set_hash"`
	Files       map[string]FileLock `json:"files"`
}

// 📄 FileLock records one corpus file's last correction
type FileLock struct {
	ContentHash   string    `json:"content_hash"`
	CorrectedHash string    `json:"corrected_hash,omitempty"`
	Matches       int       `json:"matches"`
	CorrectedAt   time.Time `json:"corrected_at"`
}

// 🆕 New creates an empty lock for the given rule set hash
func New(ruleSetHash string) *Lock {
	return &Lock{
		RuleSetHash: ruleSetHash,
		Files:       make(map[string]FileLock),
	}
}

// 💾 Load reads a lock file from disk. A missing file is not an error, it
// returns an empty lock so first runs need no special casing.
func Load(ctx context.Context, path string) (*Lock, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading lock file")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Lock{Files: make(map[string]FileLock)}, nil
		}
		return nil, errors.Errorf("reading lock file: %w", err)
	}

	var lock Lock
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, errors.Errorf("parsing lock file: %w", err)
	}

	if lock.Files == nil {
		lock.Files = make(map[string]FileLock)
	}

	return &lock, nil
}

// 💾 Save writes the lock file atomically using a temp file
func Save(ctx context.Context, path string, lock *Lock) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Int("files", len(lock.Files)).Msg("writing lock file")

	// Update timestamp
	lock.LastRun = time.Now()

	// Marshal with indentation for readability
	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return errors.Errorf("marshaling lock file: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return errors.Errorf("writing temp lock file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath) // Clean up temp file
		return errors.Errorf("renaming temp lock file: %w", err)
	}

	return nil
}

// ✅ UpToDate reports whether a corpus file can be skipped: the rule set is
// unchanged and the file's content hash matches the recorded one.
func (l *Lock) UpToDate(rel string, contentHash string, ruleSetHash string) bool {
	if l.RuleSetHash != ruleSetHash {
		return false
	}
	entry, ok := l.Files[rel]
	if !ok {
		return false
	}
	return entry.ContentHash == contentHash
}

// 📝 Put records a corrected file
func (l *Lock) Put(rel string, entry FileLock) {
	if entry.CorrectedAt.IsZero() {
		entry.CorrectedAt = time.Now()
	}
	l.Files[rel] = entry
}

// 🗑️ Remove forgets a file, used when it disappears from the corpus
func (l *Lock) Remove(rel string) {
	delete(l.Files, rel)
}
