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

package engine

import (
	"fmt"

	"github.com/walteh/smalipatch/pkg/script"
	"github.com/walteh/smalipatch/pkg/smali"
	"gitlab.com/tozd/go/errors"
)

// 🧩 applyHunk applies one PATCH action to buf and returns a fresh buffer.
// When the hunk carries a signature the edit is scoped to that method's
// range (signature line through end sentinel); everything outside the range
// passes through untouched. The declaration line itself is part of the
// matchable region, so a script can deliberately rewrite it (a delete of
// the old declaration plus an add of the new one).
func applyHunk(buf []string, hunk *script.Hunk, opts Options) ([]string, error) {
	lo, hi := 0, len(buf)
	if hunk.Signature != "" {
		start, end := smali.FindMethodRange(buf, smali.SignaturePattern(hunk.Signature))
		if start == -1 {
			return nil, &HunkError{Action: "PATCH", Reason: fmt.Sprintf("method not found: %s", hunk.Signature)}
		}
		if end == -1 {
			return nil, &HunkError{Action: "PATCH", Reason: fmt.Sprintf("method has no %s sentinel: %s", smali.EndMethod, hunk.Signature)}
		}
		lo, hi = start, end+1
	}
	region := buf[lo:hi]

	var (
		edited []string
		err    error
	)
	fingerprint := hunkFingerprint(hunk.Ops, opts.NonStrict)
	if len(fingerprint) == 0 {
		// No meaningful Context/Delete anchor: the hunk has no defined
		// application point, so it is applied globally over the region.
		// Inside a method scope the end sentinel stays last, so the adds
		// land in the body rather than after it.
		body, tail := region, []string(nil)
		if hunk.Signature != "" {
			body, tail = region[:len(region)-1], region[len(region)-1:]
		}
		edited = append(applyUnanchored(body, hunk.Ops, opts.NonStrict), tail...)
	} else {
		edited, err = applyAnchored(region, hunk.Ops, fingerprint, opts)
		if err != nil {
			return nil, err
		}
	}

	out := make([]string, 0, lo+len(edited)+len(buf)-hi)
	out = append(out, buf[:lo]...)
	out = append(out, edited...)
	out = append(out, buf[hi:]...)
	return out, nil
}

// hunkFingerprint is the ordered sequence of normalized Context and Delete
// lines used to locate the hunk. Add lines and ignorable anchors do not
// participate.
func hunkFingerprint(ops []script.Operation, nonStrict bool) []string {
	var fp []string
	for _, op := range ops {
		if op.Kind == script.OpAdd {
			continue
		}
		if norm, ok := smali.Normalize(op.Text, nonStrict); ok {
			fp = append(fp, norm)
		}
	}
	return fp
}

// appliedFingerprint is the ordered sequence of normalized Context and Add
// lines: the meaningful lines the hunk's output is expected to contain.
func appliedFingerprint(ops []script.Operation, nonStrict bool) []string {
	var fp []string
	for _, op := range ops {
		if op.Kind == script.OpDelete {
			continue
		}
		if norm, ok := smali.Normalize(op.Text, nonStrict); ok {
			fp = append(fp, norm)
		}
	}
	return fp
}

// applyUnanchored is the coarse no-context mode for bulk edits with no
// positional anchor: order-insensitive deletes across the whole region,
// adds appended at the end in script order. An add whose normalized form is
// already present is not appended again, keeping the mode idempotent.
func applyUnanchored(region []string, ops []script.Operation, nonStrict bool) []string {
	present := make(map[string]struct{}, len(region))
	out := make([]string, 0, len(region))
	for _, line := range region {
		norm, ok := smali.Normalize(line, nonStrict)
		if ok && matchesAnyDelete(norm, ops, nonStrict) {
			continue
		}
		if ok {
			present[norm] = struct{}{}
		}
		out = append(out, line)
	}
	for _, op := range ops {
		if op.Kind != script.OpAdd {
			continue
		}
		if norm, ok := smali.Normalize(op.Text, nonStrict); ok {
			if _, dup := present[norm]; dup {
				continue
			}
			present[norm] = struct{}{}
		}
		out = append(out, op.Text)
	}
	return out
}

func matchesAnyDelete(norm string, ops []script.Operation, nonStrict bool) bool {
	for _, op := range ops {
		if op.Kind != script.OpDelete {
			continue
		}
		if want, ok := smali.Normalize(op.Text, nonStrict); ok && want == norm {
			return true
		}
	}
	return false
}

// applyAnchored locates the hunk's fingerprint in the region and streams
// the operations over it. The first structurally valid alignment found by
// the forward scan is final; with StrictAmbiguity a second distinct
// alignment is an explicit failure instead.
//
// When the fingerprint is absent the hunk may simply have been applied
// already: its Delete lines are gone and its Add lines now read as context.
// That state is detected by aligning the hunk's expected output instead,
// and reported as a no-op rather than a failure.
func applyAnchored(region []string, ops []script.Operation, fingerprint []string, opts Options) ([]string, error) {
	starts := candidateStarts(region, fingerprint, opts.NonStrict)
	if len(starts) == 0 {
		if applied := appliedFingerprint(ops, opts.NonStrict); len(applied) > 0 &&
			len(candidateStarts(region, applied, opts.NonStrict)) > 0 {
			return region, nil
		}
		return nil, &HunkError{Action: "PATCH", Reason: "context not found in target"}
	}
	if opts.StrictAmbiguity && len(starts) > 1 {
		return nil, errors.Errorf("aligning hunk: %w (%d candidate locations)", ErrAmbiguousMatch, len(starts))
	}
	// A delete-free hunk leaves its context fingerprint intact in its own
	// output, so the pre-image aligning proves nothing on its own. When
	// every line the hunk would produce is already in place at the chosen
	// alignment, streaming again would only duplicate the adds.
	if !hasDeletes(ops) && appliedAt(region, starts[0], ops, opts.NonStrict) {
		return region, nil
	}
	return streamApply(region, ops, starts[0], opts.NonStrict)
}

func hasDeletes(ops []script.Operation) bool {
	for _, op := range ops {
		if op.Kind == script.OpDelete {
			return true
		}
	}
	return false
}

// appliedAt reports whether the hunk's expected output is already in place
// around the alignment at start: adds preceding the first anchor must sit,
// in order, on the significant lines just before it, and the rest of the
// applied fingerprint must match forward from it.
func appliedAt(region []string, start int, ops []script.Operation, nonStrict bool) bool {
	applied := appliedFingerprint(ops, nonStrict)
	if len(applied) == 0 {
		return false
	}

	lead := 0
	for _, op := range ops {
		if op.Kind == script.OpAdd {
			if _, ok := smali.Normalize(op.Text, nonStrict); ok {
				lead++
			}
			continue
		}
		if _, ok := smali.Normalize(op.Text, nonStrict); ok {
			break
		}
	}

	li := start - 1
	for ai := lead - 1; ai >= 0; ai-- {
		matched := false
		for li >= 0 {
			norm, ok := smali.Normalize(region[li], nonStrict)
			li--
			if !ok {
				continue
			}
			if norm != applied[ai] {
				return false
			}
			matched = true
			break
		}
		if !matched {
			return false
		}
	}

	return fingerprintMatchesAt(region, start, applied[lead:], nonStrict)
}

// candidateStarts returns every non-ignorable region index at which the
// full fingerprint matches. Candidates begin only on lines equal to the
// fingerprint's head, so each alignment is counted once regardless of any
// ignorable lines preceding it.
func candidateStarts(region []string, fingerprint []string, nonStrict bool) []int {
	var starts []int
	for i := range region {
		norm, ok := smali.Normalize(region[i], nonStrict)
		if !ok || norm != fingerprint[0] {
			continue
		}
		if fingerprintMatchesAt(region, i, fingerprint, nonStrict) {
			starts = append(starts, i)
		}
	}
	return starts
}

func fingerprintMatchesAt(region []string, start int, fingerprint []string, nonStrict bool) bool {
	fi := 0
	for li := start; li < len(region) && fi < len(fingerprint); li++ {
		norm, ok := smali.Normalize(region[li], nonStrict)
		if !ok {
			continue
		}
		if norm != fingerprint[fi] {
			return false
		}
		fi++
	}
	return fi == len(fingerprint)
}

// streamApply is a single forward pass with no backtracking: once an
// operation starts consuming target lines it commits. Context operations
// keep the original target line (target formatting wins over script
// formatting); Delete operations drop it; intervening ignorable target
// lines are copied through unchanged so directives and blank lines survive.
func streamApply(region []string, ops []script.Operation, start int, nonStrict bool) ([]string, error) {
	out := make([]string, 0, len(region))
	out = append(out, region[:start]...)

	ti := start
	for i := range ops {
		op := ops[i]
		if op.Kind == script.OpAdd {
			out = append(out, op.Text)
			continue
		}

		want, ok := smali.Normalize(op.Text, nonStrict)
		if !ok {
			continue // ignorable anchor: valid to include, never required to find
		}

		matched := false
		for ti < len(region) {
			line := region[ti]
			got, ok := smali.Normalize(line, nonStrict)
			if !ok {
				out = append(out, line)
				ti++
				continue
			}
			if got != want {
				return nil, &HunkError{Action: "PATCH", Reason: "context mismatch", Op: &ops[i], OpIndex: i}
			}
			if op.Kind == script.OpContext {
				out = append(out, line)
			}
			ti++
			matched = true
			break
		}
		if !matched {
			return nil, &HunkError{Action: "PATCH", Reason: "target exhausted before operation matched", Op: &ops[i], OpIndex: i}
		}
	}

	out = append(out, region[ti:]...)
	return out, nil
}
