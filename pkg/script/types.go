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

// 📦 Patch is one top-level definition in a .smalipatch script, either a
// FILE edit or a CREATE of a brand-new file. Definitions are applied in
// script order.
type Patch interface {
	// TargetPath returns the path the definition operates on, relative to
	// the work directory.
	TargetPath() string
	// Keyword returns the script keyword that opened the definition.
	Keyword() string
}

// 📝 FileEdit edits an existing listing file through an ordered list of
// actions. The same path may appear in multiple FileEdit records; each is
// applied independently and sequentially.
type FileEdit struct {
	Path    string
	Actions []Action
}

func (p *FileEdit) TargetPath() string { return p.Path }
func (p *FileEdit) Keyword() string    { return "FILE" }

// ✨ FileCreate materializes a brand-new listing file with verbatim content.
type FileCreate struct {
	Path    string
	Content []string
}

func (p *FileCreate) TargetPath() string { return p.Path }
func (p *FileCreate) Keyword() string    { return "CREATE" }

// 🎯 Action is a single edit action inside a FILE block.
type Action interface {
	// Keyword returns the script keyword that opened the action block.
	Keyword() string
}

// Replace substitutes the whole body of the method identified by Signature.
type Replace struct {
	Signature string
	Body      []string
}

func (a *Replace) Keyword() string { return "REPLACE" }

// Hunk is a PATCH block: an ordered sequence of diff-style operations,
// optionally scoped to the method identified by Signature. An empty
// Signature means the whole file is searched.
type Hunk struct {
	Signature string
	Ops       []Operation
}

func (a *Hunk) Keyword() string { return "PATCH" }

// CreateMethod appends a new method body at the end of the class.
type CreateMethod struct {
	Body []string
}

func (a *CreateMethod) Keyword() string { return "CREATE_METHOD" }

// 🔖 OpKind tags a single operation line inside a PATCH block.
type OpKind int

const (
	OpContext OpKind = iota // line must be present in the target, kept as-is
	OpAdd                   // line is inserted into the target
	OpDelete                // line must be present in the target, removed
)

// String returns the diff-style marker for the operation kind.
func (k OpKind) String() string {
	switch k {
	case OpAdd:
		return "+"
	case OpDelete:
		return "-"
	default:
		return " "
	}
}

// Operation is one classified line of a PATCH block. Text preserves the
// exact original text: context lines verbatim (including leading
// whitespace), add/delete lines with their two-character prefix stripped.
type Operation struct {
	Kind OpKind
	Text string
}
