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

// Package workdir handles file system access for the patch engine: reading
// listing files as line buffers and writing them back with normalized line
// terminators and a single trailing newline.
package workdir

import (
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 💾 Dir is a readable/writable file tree rooted at a work directory. All
// paths are interpreted relative to the root.
type Dir struct {
	root string
}

// 🏭 Open returns a Dir for an existing work directory.
func Open(root string) (*Dir, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Errorf("opening work directory: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("work directory is not a directory: %s", root)
	}
	return &Dir{root: filepath.Clean(root)}, nil
}

// Root returns the work directory path.
func (d *Dir) Root() string { return d.root }

func (d *Dir) abs(path string) string {
	return filepath.Join(d.root, filepath.FromSlash(path))
}

// Exists reports whether a file exists at the path.
func (d *Dir) Exists(path string) (bool, error) {
	_, err := os.Stat(d.abs(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("checking file existence: %w", err)
}

// ReadLines loads a file into a line buffer. CRLF terminators and a
// trailing newline are tolerated and normalized away.
func (d *Dir) ReadLines(path string) ([]string, error) {
	content, err := os.ReadFile(d.abs(path))
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	s := strings.ReplaceAll(string(content), "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil, nil
	}
	return strings.Split(s, "\n"), nil
}

// WriteLines persists a line buffer, creating parent directories as needed.
// Output always uses \n terminators and ends with exactly one newline. The
// write is atomic: a temp file in the same directory is renamed over the
// target, so a failure never leaves a half-written file behind.
func (d *Dir) WriteLines(path string, lines []string) error {
	absPath := d.abs(path)
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	content := []byte(strings.Join(lines, "\n") + "\n")
	tempPath := absPath + ".tmp"
	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// ReadBytes returns a file's raw content, for callers that need exact bytes
// rather than a line buffer.
func (d *Dir) ReadBytes(path string) ([]byte, error) {
	content, err := os.ReadFile(d.abs(path))
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}
