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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	pterm.DisableStyling()
	defer func() {
		color.NoColor = false
		pterm.EnableStyling()
	}()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "start_patch_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.StartPatchOperation(context.Background(), PatchOperation{
					Keyword: "PATCH",
					Path:    "smali/com/example/Foo.smali",
					Index:   0,
					Total:   3,
				})
			},
			wantLogs: []string{
				"----------------------------------------",
				"[1/3] PATCH           smali/com/example/Foo.smali",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("applying patch scripts")
			},
			wantLogs: []string{
				"smalipatch • applying patch scripts",
			},
		},
		{
			name: "log_diff",
			op: func(t *testing.T, logger *Logger) {
				logger.LogDiff(context.Background(), "--- a/f\n+++ b/f\n+new line\n")
			},
			wantLogs: []string{
				"--- changes to be written ---",
				"--- a/f",
				"+++ b/f",
				"+new line",
				"-----------------------------",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create buffer for console output
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.InfoLevel)

			// Perform operation
			tt.op(t, logger)

			// Check output
			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerRunLifecycle(t *testing.T) {
	color.NoColor = true
	pterm.DisableStyling()
	defer func() {
		color.NoColor = false
		pterm.EnableStyling()
	}()

	t.Run("start_run_non_strict", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := New(buf, zerolog.InfoLevel)

		logger.StartRun(context.Background(), 2, true)

		out := buf.String()
		assert.Contains(t, out, "Found 2 patch definition(s).")
		assert.Contains(t, out, "NON-STRICT mode")
	})

	t.Run("start_run_strict", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := New(buf, zerolog.InfoLevel)

		logger.StartRun(context.Background(), 1, false)

		out := buf.String()
		assert.Contains(t, out, "Found 1 patch definition(s).")
		assert.NotContains(t, out, "NON-STRICT")
	})

	t.Run("summary_all_succeeded", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := New(buf, zerolog.InfoLevel)

		logger.Summary(context.Background(), 3, 3)

		assert.Contains(t, buf.String(), "Final result: 3/3 definition(s) processed successfully.")
	})

	t.Run("summary_with_failures", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := New(buf, zerolog.InfoLevel)

		logger.Summary(context.Background(), 1, 3)

		assert.Contains(t, buf.String(), "Final result: 1/3 definition(s) processed successfully.")
	})

	t.Run("empty_diff_prints_nothing", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := New(buf, zerolog.InfoLevel)

		logger.LogDiff(context.Background(), "")

		assert.Empty(t, buf.String())
	})
}

func TestLoggerContext(t *testing.T) {
	// Create logger
	logger := New(io.Discard, zerolog.InfoLevel)

	// Add to context
	ctx := context.Background()
	ctx = NewContext(ctx, logger)

	// Get from context
	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	// Check panic on missing logger
	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}
