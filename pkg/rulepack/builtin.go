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
	"embed"
	"io"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

//go:embed packs/*.yaml
var builtinPacks embed.FS

func init() {
	Register(&BuiltinProvider{})
}

// 📦 BuiltinProvider serves the packs compiled into the binary.
//
// 🔑 Sources use a "builtin:" prefix:
//
//	builtin:english     safe correction pack for English newspaper scans
//	builtin:candidates  full confusion inventory, for analysis only
type BuiltinProvider struct{}

func (p *BuiltinProvider) CanHandle(source string) bool {
	return IsBuiltin(source)
}

func (p *BuiltinProvider) Fetch(ctx context.Context, source string) (io.ReadCloser, string, error) {
	name := strings.TrimPrefix(source, "builtin:")
	filename := name + ".yaml"

	f, err := builtinPacks.Open("packs/" + filename)
	if err != nil {
		return nil, "", errors.Errorf("unknown builtin pack %q, available: %s", name, strings.Join(BuiltinNames(), ", "))
	}
	return f, filename, nil
}

// 📚 BuiltinNames lists the packs compiled into the binary, sorted
func BuiltinNames() []string {
	entries, err := builtinPacks.ReadDir("packs")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// 🔍 IsRemote reports whether loading the source touches the network
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "github.com/")
}

// 🔍 IsBuiltin reports whether the source names an embedded pack
func IsBuiltin(source string) bool {
	return strings.HasPrefix(source, "builtin:")
}
