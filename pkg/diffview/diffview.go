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

// Package diffview renders before/after line buffers as a colored unified
// diff for human review. It is a display collaborator only: the patch
// engine never consumes its output.
package diffview

import (
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
	"gitlab.com/tozd/go/errors"
)

var (
	addColor    = color.New(color.FgGreen)
	removeColor = color.New(color.FgRed)
	rangeColor  = color.New(color.FgCyan)
)

// 🎨 Render returns a colorized unified diff between two line buffers,
// labeled a/<path> and b/<path>. An empty string means no differences.
func Render(path string, before, after []string) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        asDiffLines(before),
		B:        asDiffLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", errors.Errorf("computing unified diff: %w", err)
	}
	if text == "" {
		return "", nil
	}
	return colorize(text), nil
}

// asDiffLines converts a line buffer into difflib's newline-terminated
// representation.
func asDiffLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line + "\n"
	}
	return out
}

func colorize(text string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			b.WriteString(line)
		case strings.HasPrefix(line, "@@"):
			b.WriteString(rangeColor.Sprint(strings.TrimSuffix(line, "\n")))
			b.WriteString("\n")
		case strings.HasPrefix(line, "+"):
			b.WriteString(addColor.Sprint(strings.TrimSuffix(line, "\n")))
			b.WriteString("\n")
		case strings.HasPrefix(line, "-"):
			b.WriteString(removeColor.Sprint(strings.TrimSuffix(line, "\n")))
			b.WriteString("\n")
		default:
			b.WriteString(line)
		}
	}
	return b.String()
}
