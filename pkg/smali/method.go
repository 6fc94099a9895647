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

package smali

import (
	"regexp"
	"strings"
)

// Structural sentinel lines.
const (
	EndMethod = ".end method"
	EndClass  = ".end class"
)

// 🧭 SignaturePattern compiles a method-signature anchor into a
// line-anchored pattern. Every character is matched literally except that a
// literal space becomes "one or more whitespace", tolerating reformatted
// argument lists.
func SignaturePattern(signature string) *regexp.Regexp {
	escaped := regexp.QuoteMeta(strings.TrimSpace(signature))
	escaped = strings.ReplaceAll(escaped, " ", `\s+`)
	return regexp.MustCompile("^" + escaped)
}

// 🔎 FindMethodRange locates the method anchored by pattern. It scans
// top-to-bottom for the first line whose trimmed text matches the pattern
// at its start, then forward for the line that is exactly the method-end
// sentinel. Only the first signature occurrence is considered; duplicates
// are not disambiguated.
//
// Returns (-1, -1) when the signature is absent, and (start, -1) when the
// signature was found but no terminating sentinel follows. Callers must
// treat the latter as not-found: editing a method without a defined end is
// unsafe.
func FindMethodRange(lines []string, pattern *regexp.Regexp) (int, int) {
	for i, line := range lines {
		if !pattern.MatchString(strings.TrimSpace(line)) {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == EndMethod {
				return i, j
			}
		}
		return i, -1
	}
	return -1, -1
}

// FindClassEnd scans backward from the last line for the class-end
// sentinel. Returns -1 when the file has none.
func FindClassEnd(lines []string) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), EndClass) {
			return i
		}
	}
	return -1
}
