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
	"strings"

	"github.com/walteh/smalipatch/pkg/script"
	"github.com/walteh/smalipatch/pkg/smali"
)

// 🔁 applyReplace substitutes the whole body of the method identified by
// the action's signature. The signature line itself and the end sentinel
// (and everything after it) are retained; only the interior is replaced.
func applyReplace(buf []string, action *script.Replace) ([]string, error) {
	start, end := smali.FindMethodRange(buf, smali.SignaturePattern(action.Signature))
	if start == -1 {
		return nil, &HunkError{Action: "REPLACE", Reason: fmt.Sprintf("method not found: %s", action.Signature)}
	}
	if end == -1 {
		return nil, &HunkError{Action: "REPLACE", Reason: fmt.Sprintf("method has no %s sentinel: %s", smali.EndMethod, action.Signature)}
	}

	out := make([]string, 0, start+1+len(action.Body)+len(buf)-end)
	out = append(out, buf[:start+1]...)
	out = append(out, action.Body...)
	out = append(out, buf[end:]...)
	return out, nil
}

// ➕ applyCreateMethod inserts the action's body immediately before the
// class-end sentinel, with a single blank separator when the preceding line
// is non-blank.
func applyCreateMethod(buf []string, action *script.CreateMethod) ([]string, error) {
	pos := smali.FindClassEnd(buf)
	if pos == -1 {
		return nil, &HunkError{Action: "CREATE_METHOD", Reason: fmt.Sprintf("no %s sentinel to insert before", smali.EndClass)}
	}
	if pos == 0 {
		return nil, &HunkError{Action: "CREATE_METHOD", Reason: "insertion point is at the start of the file"}
	}

	body := action.Body
	if strings.TrimSpace(buf[pos-1]) != "" {
		body = append([]string{""}, body...)
	}

	out := make([]string, 0, len(buf)+len(body))
	out = append(out, buf[:pos]...)
	out = append(out, body...)
	out = append(out, buf[pos:]...)
	return out, nil
}
