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

// Package runner fans corpus passes out across a bounded worker pool.
//
// 🎯 Purpose: a corpus is thousands of independent page files. Both passes
// (analysis and correction) process files concurrently; per-file failures
// are recorded in the results and never abort the run. Only context
// cancellation stops a pass early.
//
// 🔄 Flow:
//
//	discover → [worker pool] → per-file outcomes → single-threaded merge
//
// Workers write only to their own slot of the results slice. All shared
// aggregation (stats merge, lock updates, counters) happens after Wait,
// so the passes need no locking beyond the status tracker's own.
package runner

import (
	"runtime"

	"github.com/walteh/ocrrc/pkg/corpus"
	"github.com/walteh/ocrrc/pkg/rules"
	"github.com/walteh/ocrrc/pkg/status"
)

// 🏃 Runner executes corpus passes with a fixed rule set and reader
type Runner struct {
	reader  *corpus.Reader
	set     *rules.Set
	tracker *status.Manager
	jobs    int
}

// 🆕 New creates a runner. jobs <= 0 means one worker per CPU.
func New(reader *corpus.Reader, set *rules.Set, tracker *status.Manager, jobs int) *Runner {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return &Runner{
		reader:  reader,
		set:     set,
		tracker: tracker,
		jobs:    jobs,
	}
}

// Jobs returns the worker count the runner resolved to.
func (r *Runner) Jobs() int {
	return r.jobs
}
