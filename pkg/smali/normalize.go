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

// Package smali defines line equivalence and structural navigation for
// disassembled-bytecode listing files. Nothing here parses or validates the
// listing language; lines are text with a small set of recognized markers.
package smali

import (
	"regexp"
	"strings"
)

// ignorablePrefixes are debug directives and comment markers that carry no
// semantic weight and commonly shift between builds. Requiring them to
// match would make patches brittle, so they are invisible to matching.
// Note ".local " keeps its trailing space: ".locals N" is a real register
// declaration and must stay significant.
var ignorablePrefixes = []string{
	"#",
	".line",
	".source",
	".prologue",
	".epilogue",
	".local ",
	".end local",
	".restart local",
	".param",
}

// registerToken matches a standalone virtual-register token such as v0,
// v12 or p1. Word boundaries keep it from touching label names like
// :v0_start, whose trailing underscore is a word character.
var registerToken = regexp.MustCompile(`\b[vp]\d+\b`)

// 🔬 Normalize canonicalizes a listing line for loose comparison. It
// returns ok=false when the line is ignorable for matching purposes: blank,
// a debug directive, or a comment. With nonStrict set, standalone register
// tokens are generalized so that differently numbered registers compare
// equal; tokens directly preceded by a colon are branch labels and are left
// alone.
func Normalize(line string, nonStrict bool) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}
	for _, prefix := range ignorablePrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return "", false
		}
	}

	canonical := strings.Join(strings.Fields(trimmed), " ")
	if nonStrict {
		canonical = generalizeRegisters(canonical)
	}
	return canonical, true
}

// Ignorable reports whether a line is invisible to matching.
func Ignorable(line string) bool {
	_, ok := Normalize(line, false)
	return !ok
}

// Equivalent reports whether two lines match for patching purposes: both
// ignorable, or both canonicalize to the same text.
func Equivalent(a, b string, nonStrict bool) bool {
	na, oka := Normalize(a, nonStrict)
	nb, okb := Normalize(b, nonStrict)
	return oka == okb && na == nb
}

// generalizeRegisters rewrites every standalone v#/p# token into vX/pX.
func generalizeRegisters(s string) string {
	matches := registerToken.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		if m[0] > 0 && s[m[0]-1] == ':' {
			continue // label, not a register
		}
		b.WriteString(s[last:m[0]])
		b.WriteByte(s[m[0]])
		b.WriteByte('X')
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}
