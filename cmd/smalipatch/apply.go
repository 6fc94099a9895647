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

package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/smalipatch/pkg/engine"
	"github.com/walteh/smalipatch/pkg/runner"
)

// newApplyCmd creates the apply command
func newApplyCmd() *cobra.Command {
	var (
		nonStrict       bool
		skipFailed      bool
		strictAmbiguity bool
		showDiff        bool
		dryRun          bool
		jobs            int
	)

	cmd := &cobra.Command{
		Use:   "apply <work_dir> <patch_file>...",
		Short: "Apply edit scripts to a disassembled tree",
		Long: `Apply reads one or more edit-script files and applies their definitions,
in order, to the smali tree rooted at work_dir. The run stops at the first
failed definition unless --skip-failed is given.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "apply").Logger().WithContext(ctx)
			logger := newUserLogger()

			patches, err := loadScripts(ctx, logger, args[1:])
			if err != nil {
				return err
			}

			return runPatches(ctx, logger, args[0], patches, runner.Options{
				Engine: engine.Options{
					NonStrict:       nonStrict,
					StrictAmbiguity: strictAmbiguity,
					DryRun:          dryRun,
				},
				SkipFailed: skipFailed,
				ShowDiff:   showDiff,
				Jobs:       jobs,
			})
		},
	}

	cmd.Flags().BoolVar(&nonStrict, "non-strict", false, "ignore v/p register numbers when matching context")
	cmd.Flags().BoolVar(&skipFailed, "skip-failed", false, "continue past failed definitions")
	cmd.Flags().BoolVar(&strictAmbiguity, "strict-ambiguity", false, "fail hunks whose context matches more than once")
	cmd.Flags().BoolVar(&showDiff, "show-diff", false, "print a unified diff of each rewritten file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute outcomes without writing anything")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 1, "number of target files patched concurrently")

	return cmd
}
