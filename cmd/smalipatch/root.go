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
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/smalipatch/pkg/log"
	"github.com/walteh/smalipatch/pkg/runner"
	"github.com/walteh/smalipatch/pkg/script"
	"github.com/walteh/smalipatch/pkg/workdir"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	debug bool
)

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// logLevel returns the zerolog level selected by the persistent flags.
// It must only be consulted after cobra has parsed them.
func logLevel() zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.WarnLevel
}

// setupLogging configures zerolog and attaches it to the context
func setupLogging(ctx context.Context) context.Context {
	logger := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).Level(logLevel()).With().Timestamp().Logger()
	return logger.WithContext(ctx)
}

// newUserLogger builds the console reporter for one command invocation,
// honoring the same level selection as the context logger.
func newUserLogger() *log.Logger {
	return log.New(os.Stdout, logLevel())
}

// loadScript reads and parses one edit-script file. An empty file or a
// file with no recognizable definitions is a hard error: it almost always
// means the wrong file was passed.
func loadScript(ctx context.Context, logger *log.Logger, path string) ([]script.Patch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading patch file: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, errors.Errorf("patch file is empty: %s", path)
	}

	patches, warnings := script.Parse(ctx, script.SplitLines(data))
	for _, w := range warnings {
		logger.Warningf("%s:%d: %s", path, w.Line, w.Message)
	}
	if len(patches) == 0 {
		return nil, errors.Errorf("no patch definitions found in %s", path)
	}
	return patches, nil
}

// loadScripts concatenates the definitions of several script files in
// argument order.
func loadScripts(ctx context.Context, logger *log.Logger, paths []string) ([]script.Patch, error) {
	var all []script.Patch
	for _, path := range paths {
		patches, err := loadScript(ctx, logger, path)
		if err != nil {
			return nil, err
		}
		all = append(all, patches...)
	}
	return all, nil
}

// runPatches executes a full run against a work dir and maps the summary
// onto the process outcome.
func runPatches(ctx context.Context, logger *log.Logger, workDirPath string, patches []script.Patch, opts runner.Options) error {
	dir, err := workdir.Open(workDirPath)
	if err != nil {
		return errors.Errorf("opening work dir: %w", err)
	}

	summary, err := runner.New(dir, logger, opts).Run(ctx, patches)
	if err != nil {
		return errors.Errorf("running patches: %w", err)
	}
	if !summary.Ok() {
		return errors.Errorf("%d of %d definition(s) failed", summary.Failed, summary.Total+summary.Stopped)
	}
	return nil
}
