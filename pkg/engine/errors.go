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
	"gitlab.com/tozd/go/errors"
)

// ErrAmbiguousMatch is returned (wrapped) when StrictAmbiguity is set and a
// hunk's fingerprint aligns at more than one location in the search region.
var ErrAmbiguousMatch = errors.New("hunk matches at more than one location")

// 💥 HunkError reports why a single action could not be applied. It carries
// the unmatched operation and its position when the failure happened
// mid-stream, so callers can point the author at the offending script line.
type HunkError struct {
	Action  string            // action keyword: REPLACE, PATCH, CREATE_METHOD
	Reason  string            // human-readable cause
	Op      *script.Operation // unmatched operation, when applicable
	OpIndex int               // index of Op within the action, when applicable
}

func (e *HunkError) Error() string {
	if e.Op != nil {
		return fmt.Sprintf("%s action failed: %s (operation %d: %s%s)",
			e.Action, e.Reason, e.OpIndex+1, e.Op.Kind, e.Op.Text)
	}
	return fmt.Sprintf("%s action failed: %s", e.Action, e.Reason)
}
