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

// newCheckCmd creates the check command
func newCheckCmd() *cobra.Command {
	var (
		nonStrict       bool
		strictAmbiguity bool
		showDiff        bool
	)

	cmd := &cobra.Command{
		Use:   "check <work_dir> <patch_file>...",
		Short: "Verify edit scripts would apply cleanly without writing",
		Long: `Check runs every definition in memory and reports what apply would do,
but never writes a file. It checks all definitions even after a failure, so
a single run reports every problem in the script.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "check").Logger().WithContext(ctx)
			logger := newUserLogger()

			patches, err := loadScripts(ctx, logger, args[1:])
			if err != nil {
				return err
			}

			return runPatches(ctx, logger, args[0], patches, runner.Options{
				Engine: engine.Options{
					NonStrict:       nonStrict,
					StrictAmbiguity: strictAmbiguity,
					DryRun:          true,
				},
				SkipFailed: true,
				ShowDiff:   showDiff,
			})
		},
	}

	cmd.Flags().BoolVar(&nonStrict, "non-strict", false, "ignore v/p register numbers when matching context")
	cmd.Flags().BoolVar(&strictAmbiguity, "strict-ambiguity", false, "fail hunks whose context matches more than once")
	cmd.Flags().BoolVar(&showDiff, "show-diff", false, "print a unified diff of each pending change")

	return cmd
}
