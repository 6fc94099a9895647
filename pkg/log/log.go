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
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	pathWidth   = 45 // Base width for target path
	actionWidth = 15 // Width for action keyword
)

// 🎯 PatchOperation represents one patch definition being processed
type PatchOperation struct {
	Keyword string // PATCH / REPLACE / CREATE
	Path    string // Target file path, relative to the work dir
	Index   int    // Zero-based position within the run
	Total   int    // Total number of definitions in the run
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 StartRun announces the run as a whole
func (l *Logger) StartRun(ctx context.Context, total int, nonStrict bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pterm.Info.WithWriter(l.console).Printfln("Found %d patch definition(s).", total)
	if nonStrict {
		pterm.Info.WithWriter(l.console).
			Println("Running in NON-STRICT mode: register numbers (v0, p1, ...) are ignored when matching.")
	}

	l.zlog.Info().
		Int("definitions", total).
		Bool("non_strict", nonStrict).
		Msg("starting patch run")
}

// 📝 StartPatchOperation announces one patch definition
func (l *Logger) StartPatchOperation(ctx context.Context, op PatchOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, color.New(color.Faint).Sprint("----------------------------------------"))
	fmt.Fprintf(l.console, "%s %s %s\n",
		color.New(color.FgMagenta).Sprint(fmt.Sprintf("[%d/%d]", op.Index+1, op.Total)),
		color.New(color.Bold).Sprint(fmt.Sprintf("%-*s", actionWidth, op.Keyword)),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%-*s", pathWidth, op.Path)))

	l.zlog.Info().
		Str("keyword", op.Keyword).
		Str("path", op.Path).
		Int("index", op.Index+1).
		Int("total", op.Total).
		Msg("processing patch definition")
}

// 📝 LogDiff prints a pre-rendered unified diff of pending changes
func (l *Logger) LogDiff(ctx context.Context, diff string) {
	if diff == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, color.New(color.Faint).Sprint("--- changes to be written ---"))
	fmt.Fprint(l.console, diff)
	fmt.Fprintln(l.console, color.New(color.Faint).Sprint("-----------------------------"))
}

// 📝 Summary logs the final tally for the run
func (l *Logger) Summary(ctx context.Context, succeeded, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf("Final result: %d/%d definition(s) processed successfully.", succeeded, total)
	if succeeded < total {
		pterm.Error.WithWriter(l.console).Println(msg)
	} else {
		pterm.Success.WithWriter(l.console).Println(msg)
	}

	l.zlog.Info().
		Int("succeeded", succeeded).
		Int("total", total).
		Msg("patch run finished")
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	titleText := color.New(color.Bold, color.FgCyan).Sprint("smalipatch")
	fmt.Fprintf(l.console, "\n%s %s\n\n", titleText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
