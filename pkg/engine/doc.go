/*
Package engine implements the fuzzy patch-application core: given parsed
edit actions and a target listing, it decides which target lines correspond
to the script's context and rewrites the target accordingly.

	+-----------+     +-------------+
	|  script   | --> |   engine    |
	| (actions) |     | (matching)  |
	+-----------+     +------+------+
	                         |
	                  +------+------+
	                  |  FileTree   |
	                  | (work dir)  |
	                  +-------------+

🎯 Purpose:
- Anchored streaming application of PATCH hunks
- Method-body REPLACE and CREATE_METHOD insertion
- Per-file orchestration with a no-partial-write guarantee

⚡ Matching model:
PATCH hunks are located by their fingerprint, the ordered sequence of
normalized Context and Delete lines. Application is a single forward pass
with no backtracking: ignorable target lines (blanks, debug directives,
comments) are copied through, every meaningful operation must align with
the next meaningful target line, and any mismatch fails the whole action
with no output. The first structurally valid alignment wins; callers that
want ambiguity to be an error set Options.StrictAmbiguity.

🤝 Collaborators:
- pkg/smali: line normalization and structural sentinels
- pkg/script: parsed Patch/Action/Operation records
- FileTree: file I/O, implemented by pkg/workdir

📝 Design Philosophy:
Buffers are owned, never aliased: every applier receives a line buffer and
returns a fresh one or an error. A failed action reports exactly which
operation did not match; it never degrades into a best-guess edit.
*/
package engine
