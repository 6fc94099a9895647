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
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/smalipatch/pkg/config"
	"github.com/walteh/smalipatch/pkg/engine"
	"github.com/walteh/smalipatch/pkg/runner"
	"gitlab.com/tozd/go/errors"
)

// newRunCmd creates the run command
func newRunCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Apply a configured batch of edit scripts",
		Long: `Run loads a smalipatch config file and applies every patch file it lists
against the configured work dir, honoring the config's matching options and
include/exclude filters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "run").Logger().WithContext(ctx)
			logger := newUserLogger()

			cfg, err := config.Load(ctx, configFile)
			if err != nil {
				return err
			}

			paths, err := expandPatchFiles(cfg.Patches)
			if err != nil {
				return err
			}

			patches, err := loadScripts(ctx, logger, paths)
			if err != nil {
				return err
			}

			return runPatches(ctx, logger, cfg.WorkDir, patches, runner.Options{
				Engine: engine.Options{
					NonStrict:       cfg.NonStrict,
					StrictAmbiguity: cfg.StrictAmbiguity,
					DryRun:          cfg.DryRun,
				},
				SkipFailed: cfg.SkipFailed,
				ShowDiff:   cfg.ShowDiff,
				Jobs:       cfg.Jobs,
				Selector:   cfg.SelectsPath,
			})
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", ".smalipatch.yaml", "config file path")

	return cmd
}

// expandPatchFiles resolves the configured patch entries, expanding glob
// patterns. Globbed matches are sorted for a stable order; a literal entry
// that matches nothing is an error, an empty glob is not.
func expandPatchFiles(entries []string) ([]string, error) {
	var paths []string
	for _, entry := range entries {
		if !hasGlobMeta(entry) {
			if _, err := os.Stat(entry); err != nil {
				return nil, errors.Errorf("patch file not found: %s", entry)
			}
			paths = append(paths, entry)
			continue
		}

		matches, err := doublestar.FilepathGlob(entry)
		if err != nil {
			return nil, errors.Errorf("expanding patch glob %q: %w", entry, err)
		}
		sort.Strings(matches)
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return nil, errors.Errorf("no patch files matched the configuration")
	}
	return paths, nil
}

// hasGlobMeta reports whether the entry contains doublestar pattern
// metacharacters.
func hasGlobMeta(entry string) bool {
	for _, r := range entry {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
