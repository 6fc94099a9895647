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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config represents the complete smalipatch run configuration
type Config struct {
	// WorkDir is the root of the disassembled output tree that target
	// paths are resolved against.
	WorkDir string `json:"work_dir" yaml:"work_dir" hcl:"work_dir"`

	// Patches lists edit-script files (or doublestar globs) to apply,
	// in order.
	Patches []string `json:"patches" yaml:"patches" hcl:"patches"`

	// Include and Exclude filter patch definitions by target path.
	Include []string `json:"include,omitempty" yaml:"include,omitempty" hcl:"include,optional"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty" hcl:"exclude,optional"`

	// NonStrict generalizes v/p register numbers when matching.
	NonStrict bool `json:"non_strict,omitempty" yaml:"non_strict,omitempty" hcl:"non_strict,optional"`

	// SkipFailed continues the run after a failed definition instead of
	// stopping.
	SkipFailed bool `json:"skip_failed,omitempty" yaml:"skip_failed,omitempty" hcl:"skip_failed,optional"`

	// StrictAmbiguity fails a hunk whose context matches at more than
	// one position.
	StrictAmbiguity bool `json:"strict_ambiguity,omitempty" yaml:"strict_ambiguity,omitempty" hcl:"strict_ambiguity,optional"`

	// ShowDiff prints a unified diff of each file before writing it.
	ShowDiff bool `json:"show_diff,omitempty" yaml:"show_diff,omitempty" hcl:"show_diff,optional"`

	// DryRun applies everything in memory but writes nothing.
	DryRun bool `json:"dry_run,omitempty" yaml:"dry_run,omitempty" hcl:"dry_run,optional"`

	// Jobs is the number of target files patched concurrently.
	// Zero or one means sequential.
	Jobs int `json:"jobs,omitempty" yaml:"jobs,omitempty" hcl:"jobs,optional"`
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	// Check required fields
	if cfg.WorkDir == "" {
		return errors.Errorf("work_dir is required")
	}
	if len(cfg.Patches) == 0 {
		return errors.Errorf("at least one patch file is required")
	}
	if cfg.Jobs < 0 {
		return errors.Errorf("jobs must not be negative")
	}

	// Glob patterns must be well formed up front, not at match time
	for _, pat := range cfg.Include {
		if !doublestar.ValidatePattern(pat) {
			return errors.Errorf("invalid include pattern %q", pat)
		}
	}
	for _, pat := range cfg.Exclude {
		if !doublestar.ValidatePattern(pat) {
			return errors.Errorf("invalid exclude pattern %q", pat)
		}
	}

	// Clean up paths
	cfg.WorkDir = filepath.Clean(cfg.WorkDir)

	return nil
}

// 🔍 SelectsPath reports whether a patch definition targeting path
// survives the include/exclude filters. Matching is against the
// slash-separated path relative to the work dir.
func (cfg *Config) SelectsPath(path string) bool {
	path = filepath.ToSlash(path)

	if len(cfg.Include) > 0 {
		matched := false
		for _, pat := range cfg.Include {
			if ok, _ := doublestar.Match(pat, path); ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, pat := range cfg.Exclude {
		if ok, _ := doublestar.Match(pat, path); ok {
			return false
		}
	}

	return true
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	mode := "strict"
	if cfg.NonStrict {
		mode = "non-strict"
	}
	return fmt.Sprintf("%s (%d patch file(s), %s)", cfg.WorkDir, len(cfg.Patches), mode)
}

// 🔍 IsConfigFile reports whether path looks like a smalipatch config
// rather than an edit script.
func IsConfigFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	if base == ".smalipatch" {
		return true
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".hcl", ".json":
		return true
	}
	return false
}
