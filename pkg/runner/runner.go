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

// Package runner drives a whole patch run: it takes parsed definitions,
// applies them through the engine in script order, reports progress, and
// tallies a summary. Definitions touching different target files may run
// concurrently; definitions for the same file always run sequentially in
// script order.
package runner

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/smalipatch/pkg/diffview"
	"github.com/walteh/smalipatch/pkg/engine"
	"github.com/walteh/smalipatch/pkg/log"
	"github.com/walteh/smalipatch/pkg/script"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🔧 Options control a run.
type Options struct {
	// Engine options are passed through to every definition.
	Engine engine.Options

	// SkipFailed continues past a failed definition instead of stopping
	// the run.
	SkipFailed bool

	// ShowDiff renders a unified diff of every rewritten file.
	ShowDiff bool

	// Jobs is the number of target files processed concurrently.
	// Zero or one means fully sequential.
	Jobs int

	// Selector filters definitions by target path. Nil selects all.
	Selector func(path string) bool
}

// 📊 Summary tallies one run.
type Summary struct {
	Total     int // definitions processed (after filtering)
	Succeeded int // applied, created, or skipped
	Failed    int // failed or hunk_failed
	Filtered  int // definitions dropped by the selector
	Stopped   int // definitions never attempted after a failure

	Outcomes []*engine.FileOutcome
}

// Ok reports whether every processed definition succeeded.
func (s *Summary) Ok() bool {
	return s.Failed == 0 && s.Stopped == 0
}

// 🏃 Runner applies patch definitions against one file tree.
type Runner struct {
	tree   engine.FileTree
	logger *log.Logger
	opts   Options
}

// 🏭 New creates a runner.
func New(tree engine.FileTree, logger *log.Logger, opts Options) *Runner {
	return &Runner{tree: tree, logger: logger, opts: opts}
}

// 🏃 Run applies every selected definition and returns the run summary.
// A non-nil error means the run itself could not proceed; individual
// definition failures are reported through the summary instead.
func (r *Runner) Run(ctx context.Context, patches []script.Patch) (*Summary, error) {
	if len(patches) == 0 {
		return nil, errors.Errorf("no patch definitions to apply")
	}

	selected := make([]script.Patch, 0, len(patches))
	filtered := 0
	for _, p := range patches {
		if r.opts.Selector != nil && !r.opts.Selector(p.TargetPath()) {
			filtered++
			continue
		}
		selected = append(selected, p)
	}

	summary := &Summary{Filtered: filtered}
	if len(selected) == 0 {
		zerolog.Ctx(ctx).Warn().Int("filtered", filtered).Msg("all definitions filtered out")
		return summary, nil
	}

	r.logger.StartRun(ctx, len(selected), r.opts.Engine.NonStrict)

	if r.opts.Jobs > 1 {
		r.runParallel(ctx, selected, summary)
	} else {
		r.runSequential(ctx, selected, summary)
	}

	r.logger.Summary(ctx, summary.Succeeded, summary.Total+summary.Stopped)
	return summary, nil
}

// runSequential applies definitions one by one, reporting as it goes.
func (r *Runner) runSequential(ctx context.Context, patches []script.Patch, summary *Summary) {
	for i, p := range patches {
		r.logger.StartPatchOperation(ctx, log.PatchOperation{
			Keyword: p.Keyword(),
			Path:    p.TargetPath(),
			Index:   i,
			Total:   len(patches),
		})

		outcome := engine.ApplyPatch(ctx, r.tree, p, r.opts.Engine)
		r.record(ctx, outcome, summary)

		if !outcome.Result.Success() && !r.opts.SkipFailed {
			summary.Stopped = len(patches) - i - 1
			if summary.Stopped > 0 {
				r.logger.Warningf("Stopping: %d definition(s) not attempted. Use --skip-failed to continue past failures.", summary.Stopped)
			}
			return
		}
	}
}

// runParallel fans definitions out across target files. Definitions are
// grouped by target path so edits to one file keep their script order,
// then groups run concurrently. Reporting happens after all groups
// finish so output stays in script order.
func (r *Runner) runParallel(ctx context.Context, patches []script.Patch, summary *Summary) {
	type job struct {
		index int
		patch script.Patch
	}

	groups := make(map[string][]job)
	order := make([]string, 0, len(patches))
	for i, p := range patches {
		path := p.TargetPath()
		if _, seen := groups[path]; !seen {
			order = append(order, path)
		}
		groups[path] = append(groups[path], job{index: i, patch: p})
	}

	outcomes := make([]*engine.FileOutcome, len(patches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Jobs)
	for _, path := range order {
		jobs := groups[path]
		g.Go(func() error {
			for _, j := range jobs {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				outcome := engine.ApplyPatch(gctx, r.tree, j.patch, r.opts.Engine)
				outcomes[j.index] = outcome
				if !outcome.Result.Success() && !r.opts.SkipFailed {
					return errors.Errorf("definition for %s failed: %w", j.patch.TargetPath(), outcome.Err)
				}
			}
			return nil
		})
	}
	// The only group errors are definition failures already captured in
	// outcomes; the summary carries them to the caller.
	_ = g.Wait()

	for i, outcome := range outcomes {
		if outcome == nil {
			summary.Stopped++
			continue
		}
		r.logger.StartPatchOperation(ctx, log.PatchOperation{
			Keyword: patches[i].Keyword(),
			Path:    patches[i].TargetPath(),
			Index:   i,
			Total:   len(patches),
		})
		r.record(ctx, outcome, summary)
	}
	if summary.Stopped > 0 {
		r.logger.Warningf("Stopping: %d definition(s) not attempted. Use --skip-failed to continue past failures.", summary.Stopped)
	}
}

// record reports one outcome and folds it into the summary.
func (r *Runner) record(ctx context.Context, outcome *engine.FileOutcome, summary *Summary) {
	summary.Total++
	summary.Outcomes = append(summary.Outcomes, outcome)

	switch outcome.Result {
	case engine.ResultApplied:
		if r.opts.ShowDiff {
			r.showDiff(ctx, outcome)
		}
		msg := "Patch applied successfully."
		if r.opts.Engine.DryRun {
			msg = "Patch would apply cleanly."
		}
		r.logger.Success(msg)
		summary.Succeeded++
	case engine.ResultCreated:
		r.logger.Successf("Created new file: %s", outcome.Path)
		summary.Succeeded++
	case engine.ResultSkipped:
		r.logger.Info("No changes needed or already applied, skipping.")
		summary.Succeeded++
	default:
		r.logger.Errorf("Patch failed: %v", outcome.Err)
		summary.Failed++
	}
}

// showDiff renders and prints the pending change for one outcome.
func (r *Runner) showDiff(ctx context.Context, outcome *engine.FileOutcome) {
	diff, err := diffview.Render(outcome.Path, outcome.Before, outcome.After)
	if err != nil {
		r.logger.Warningf("could not render diff for %s: %v", outcome.Path, err)
		return
	}
	r.logger.LogDiff(ctx, diff)
}
