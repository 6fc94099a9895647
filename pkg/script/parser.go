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

package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// keywords that open or terminate a block when they appear at the start of
// a (trimmed) line. The matching rule is: exact token, or token followed by
// a space.
var keywords = []string{"FILE", "CREATE", "REPLACE", "PATCH", "CREATE_METHOD", "END"}

// ⚠️ Warning is a recoverable structural issue found while parsing. The
// parser never hard-fails on malformed block structure; it recovers with
// best-effort block boundaries and records what it saw.
type Warning struct {
	Line    int // 1-based line number in the script
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}

// 🔍 isKeywordLine reports whether the trimmed line begins a recognized
// block keyword (exact token plus either end-of-line or a space).
func isKeywordLine(trimmed string) bool {
	for _, kw := range keywords {
		if trimmed == kw || strings.HasPrefix(trimmed, kw+" ") {
			return true
		}
	}
	return false
}

// 📜 Parse turns raw edit-script lines into an ordered sequence of Patch
// records. Unrecognized or blank lines outside any block are ignored.
// Structural issues are reported as warnings, not errors.
func Parse(ctx context.Context, lines []string) ([]Patch, []Warning) {
	p := &parser{lines: lines}
	patches := p.parse()

	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Int("definitions", len(patches)).
		Int("warnings", len(p.warns)).
		Msg("parsed edit script")
	for _, w := range p.warns {
		logger.Warn().Int("line", w.Line).Msg(w.Message)
	}

	return patches, p.warns
}

// SplitLines splits raw script or listing text into lines, tolerating CRLF
// and a trailing newline.
func SplitLines(data []byte) []string {
	s := strings.ReplaceAll(string(data), "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

type parser struct {
	lines []string
	pos   int
	warns []Warning
}

func (p *parser) warnf(line int, format string, args ...interface{}) {
	p.warns = append(p.warns, Warning{Line: line, Message: fmt.Sprintf(format, args...)})
}

func (p *parser) parse() []Patch {
	var patches []Patch
	for p.pos < len(p.lines) {
		trimmed := strings.TrimSpace(p.lines[p.pos])
		switch {
		case strings.HasPrefix(trimmed, "FILE "):
			patches = append(patches, p.parseFileBlock(trimmed))
		case strings.HasPrefix(trimmed, "CREATE "):
			patches = append(patches, p.parseCreateBlock(trimmed))
		default:
			p.pos++ // blank or unrecognized line outside any block
		}
	}
	return patches
}

// parseFileBlock consumes a 'FILE <path> ... END' block and its nested
// action blocks. A missing END is recovered with a warning.
func (p *parser) parseFileBlock(header string) *FileEdit {
	openLine := p.pos + 1
	edit := &FileEdit{Path: strings.TrimSpace(strings.TrimPrefix(header, "FILE "))}
	p.pos++

	for p.pos < len(p.lines) {
		trimmed := strings.TrimSpace(p.lines[p.pos])
		switch {
		case trimmed == "END":
			p.pos++
			return edit
		case strings.HasPrefix(trimmed, "REPLACE "):
			sig := strings.TrimSpace(strings.TrimPrefix(trimmed, "REPLACE "))
			p.pos++
			edit.Actions = append(edit.Actions, &Replace{Signature: sig, Body: p.readContentBlock()})
		case trimmed == "PATCH" || strings.HasPrefix(trimmed, "PATCH "):
			sig := strings.TrimSpace(strings.TrimPrefix(trimmed, "PATCH"))
			p.pos++
			edit.Actions = append(edit.Actions, &Hunk{Signature: sig, Ops: classifyOperations(p.readContentBlock())})
		case trimmed == "CREATE_METHOD":
			p.pos++
			edit.Actions = append(edit.Actions, &CreateMethod{Body: p.readContentBlock()})
		default:
			p.pos++ // blank or unrecognized line inside the FILE block
		}
	}

	p.warnf(openLine, "'FILE %s' block missing 'END' terminator", edit.Path)
	return edit
}

// parseCreateBlock consumes a 'CREATE <path> ... END' block. CREATE blocks
// do not nest; content is captured verbatim.
func (p *parser) parseCreateBlock(header string) *FileCreate {
	path := strings.TrimSpace(strings.TrimPrefix(header, "CREATE "))
	p.pos++
	return &FileCreate{Path: path, Content: p.readContentBlock()}
}

// readContentBlock captures lines verbatim until an explicit END (which is
// consumed and discarded) or, implicitly, the next recognized keyword at
// line start (which is left for the caller).
func (p *parser) readContentBlock() []string {
	var content []string
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		trimmed := strings.TrimSpace(line)
		if isKeywordLine(trimmed) {
			if trimmed == "END" {
				p.pos++
			}
			return content
		}
		content = append(content, line)
		p.pos++
	}
	return content
}

// classifyOperations tags the raw content lines of a PATCH block. Only the
// two-character prefixes "+ " and "- " are recognized; every other line,
// including blank ones, is a context line and is never prefix-stripped.
func classifyOperations(lines []string) []Operation {
	ops := make([]Operation, 0, len(lines))
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "+ "):
			ops = append(ops, Operation{Kind: OpAdd, Text: line[2:]})
		case strings.HasPrefix(line, "- "):
			ops = append(ops, Operation{Kind: OpDelete, Text: line[2:]})
		default:
			ops = append(ops, Operation{Kind: OpContext, Text: line})
		}
	}
	return ops
}
