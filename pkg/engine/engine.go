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

package engine

import (
	"context"
	"slices"

	"github.com/rs/zerolog"
	"github.com/walteh/smalipatch/pkg/script"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options control matching behavior for one run.
type Options struct {
	// NonStrict treats differently numbered v#/p# registers as equivalent
	// when matching PATCH context.
	NonStrict bool
	// StrictAmbiguity fails a hunk whose context aligns at more than one
	// location instead of taking the first alignment.
	StrictAmbiguity bool
	// DryRun computes outcomes without writing anything back.
	DryRun bool
}

// 📊 Result categorizes the outcome of applying one Patch definition.
type Result int

const (
	ResultUnknown    Result = iota
	ResultApplied           // target rewritten
	ResultCreated           // new file materialized
	ResultSkipped           // no changes needed or create target already exists
	ResultFailed            // target missing, unreadable, or unwritable
	ResultHunkFailed        // an action's context or signature did not match
)

// String returns a string representation of Result.
func (r Result) String() string {
	switch r {
	case ResultApplied:
		return "applied"
	case ResultCreated:
		return "created"
	case ResultSkipped:
		return "skipped"
	case ResultFailed:
		return "failed"
	case ResultHunkFailed:
		return "hunk_failed"
	default:
		return "unknown"
	}
}

// Success reports whether the outcome counts as processed successfully.
func (r Result) Success() bool {
	return r == ResultApplied || r == ResultCreated || r == ResultSkipped
}

// 📄 FileOutcome is the reporting record for one Patch definition. For
// successful non-skip results Before and After hold the line buffers for
// diff rendering by the display collaborator.
type FileOutcome struct {
	Path   string
	Result Result
	Before []string
	After  []string
	Err    error
}

// 💾 FileTree is the file-system collaborator the engine applies patches
// through. Paths are relative to the work directory.
type FileTree interface {
	Exists(path string) (bool, error)
	ReadLines(path string) ([]string, error)
	WriteLines(path string, lines []string) error
}

// 🏃 ApplyPatch applies a single Patch definition against the tree and
// returns its outcome. Failures never leave a partially written file: the
// buffer is persisted only after every action has succeeded.
func ApplyPatch(ctx context.Context, tree FileTree, patch script.Patch, opts Options) *FileOutcome {
	switch p := patch.(type) {
	case *script.FileCreate:
		return applyCreate(ctx, tree, p, opts)
	case *script.FileEdit:
		return applyFileEdit(ctx, tree, p, opts)
	default:
		return &FileOutcome{
			Path:   patch.TargetPath(),
			Result: ResultFailed,
			Err:    errors.Errorf("unsupported patch type %T", patch),
		}
	}
}

// applyCreate materializes a brand-new file. An existing file at the path
// is a benign no-op, never an overwrite.
func applyCreate(ctx context.Context, tree FileTree, p *script.FileCreate, opts Options) *FileOutcome {
	logger := zerolog.Ctx(ctx)

	exists, err := tree.Exists(p.Path)
	if err != nil {
		return &FileOutcome{Path: p.Path, Result: ResultFailed, Err: errors.Errorf("checking create target: %w", err)}
	}
	if exists {
		logger.Debug().Str("path", p.Path).Msg("create target already exists, skipping")
		return &FileOutcome{Path: p.Path, Result: ResultSkipped}
	}

	if !opts.DryRun {
		if err := tree.WriteLines(p.Path, p.Content); err != nil {
			return &FileOutcome{Path: p.Path, Result: ResultFailed, Err: errors.Errorf("writing create target: %w", err)}
		}
	}
	return &FileOutcome{Path: p.Path, Result: ResultCreated, After: slices.Clone(p.Content)}
}

// applyFileEdit loads the target into a line buffer and applies each action
// in script order, each action receiving the buffer the previous one
// produced. The first failing action fails the whole file.
func applyFileEdit(ctx context.Context, tree FileTree, p *script.FileEdit, opts Options) *FileOutcome {
	logger := zerolog.Ctx(ctx)

	exists, err := tree.Exists(p.Path)
	if err != nil {
		return &FileOutcome{Path: p.Path, Result: ResultFailed, Err: errors.Errorf("checking target: %w", err)}
	}
	if !exists {
		return &FileOutcome{Path: p.Path, Result: ResultFailed, Err: errors.Errorf("target file not found: %s", p.Path)}
	}

	original, err := tree.ReadLines(p.Path)
	if err != nil {
		return &FileOutcome{Path: p.Path, Result: ResultFailed, Err: errors.Errorf("reading target: %w", err)}
	}

	buf := slices.Clone(original)
	for i, action := range p.Actions {
		logger.Debug().
			Str("path", p.Path).
			Str("action", action.Keyword()).
			Int("index", i+1).
			Int("total", len(p.Actions)).
			Msg("applying action")

		next, err := applyAction(buf, action, opts)
		if err != nil {
			return &FileOutcome{
				Path:   p.Path,
				Result: ResultHunkFailed,
				Before: original,
				Err:    errors.Errorf("action %d/%d: %w", i+1, len(p.Actions), err),
			}
		}
		buf = next
	}

	if slices.Equal(original, buf) {
		logger.Debug().Str("path", p.Path).Msg("target already up to date")
		return &FileOutcome{Path: p.Path, Result: ResultSkipped, Before: original, After: buf}
	}

	if !opts.DryRun {
		if err := tree.WriteLines(p.Path, buf); err != nil {
			return &FileOutcome{Path: p.Path, Result: ResultFailed, Before: original, Err: errors.Errorf("writing target: %w", err)}
		}
	}
	return &FileOutcome{Path: p.Path, Result: ResultApplied, Before: original, After: buf}
}

// applyAction dispatches one action over an owned buffer and returns a new
// owned buffer, never mutating its input.
func applyAction(buf []string, action script.Action, opts Options) ([]string, error) {
	switch a := action.(type) {
	case *script.Replace:
		return applyReplace(buf, a)
	case *script.Hunk:
		return applyHunk(buf, a, opts)
	case *script.CreateMethod:
		return applyCreateMethod(buf, a)
	default:
		return nil, errors.Errorf("unsupported action type %T", action)
	}
}
