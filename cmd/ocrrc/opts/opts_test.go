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

package opts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/ocrrc/pkg/config"
)

func testContext() context.Context {
	return zerolog.New(os.Stderr).WithContext(context.Background())
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".ocrrc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "writing config should succeed")
	return path
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scans"), 0755), "creating corpus dir should succeed")
	cfgPath := writeConfig(t, dir, `
corpus:
  root: scans
rules:
  - pattern: tbe
    replacement: the
    scope: word
`)

	o := &RootOpts{}
	require.NoError(t, o.Init(testContext(), cfgPath), "Init should succeed")

	assert.Equal(t, cfgPath, o.ConfigPath, "config path should be absolute")
	assert.Equal(t, filepath.Join(dir, "scans"), o.Root, "relative corpus root should resolve against the config dir")
	assert.Equal(t, 1, o.Set.Len(), "inline rule should compile")
	assert.NotNil(t, o.Reader, "reader should be built")
	assert.NotNil(t, o.Tracker, "tracker should be built")
	assert.NotNil(t, o.UserLogger, "user logger should be built")
	assert.Equal(t, filepath.Join(dir, ".ocrrc.lock"), o.LockPath, "lock file should live beside the config")
	assert.Equal(t, filepath.Join(dir, ".ocrrc.db"), o.HistoryPath, "history db should live beside the config")
}

func TestInit_MissingConfig(t *testing.T) {
	o := &RootOpts{}
	err := o.Init(testContext(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err, "a missing config file should fail")
	assert.Contains(t, err.Error(), "loading config", "error should name the stage")
}

func TestInit_BadRuleScope(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, `
corpus:
  root: .
rules:
  - pattern: tbe
    replacement: the
    scope: token
`)

	o := &RootOpts{}
	err := o.Init(testContext(), cfgPath)
	require.Error(t, err, "an invalid scope should fail")
	assert.Contains(t, err.Error(), "building rule set", "error should name the stage")
}

func TestInit_FallsBackToBuiltinPack(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, `
corpus:
  root: .
`)

	o := &RootOpts{}
	require.NoError(t, o.Init(testContext(), cfgPath), "Init should succeed without rules")
	assert.Equal(t, 69, o.Set.Len(), "the builtin english pack should supply the rules")
}

func TestJobs(t *testing.T) {
	tests := []struct {
		name     string
		config   int
		override int
		want     int
	}{
		{name: "config_value_used", config: 4, want: 4},
		{name: "flag_wins_over_config", config: 4, override: 2, want: 2},
		{name: "both_zero_defers_to_runner", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &RootOpts{
				Config:       &config.Config{Jobs: tt.config},
				JobsOverride: tt.override,
			}
			assert.Equal(t, tt.want, o.Jobs(), "worker count should match")
		})
	}
}
