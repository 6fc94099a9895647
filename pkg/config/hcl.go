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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// Define HCL schema
	type hclConfig struct {
		WorkDir         string   `hcl:"work_dir"`
		Patches         []string `hcl:"patches"`
		Include         []string `hcl:"include,optional"`
		Exclude         []string `hcl:"exclude,optional"`
		NonStrict       bool     `hcl:"non_strict,optional"`
		SkipFailed      bool     `hcl:"skip_failed,optional"`
		StrictAmbiguity bool     `hcl:"strict_ambiguity,optional"`
		ShowDiff        bool     `hcl:"show_diff,optional"`
		DryRun          bool     `hcl:"dry_run,optional"`
		Jobs            int      `hcl:"jobs,optional"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		WorkDir:         hclCfg.WorkDir,
		Patches:         hclCfg.Patches,
		Include:         hclCfg.Include,
		Exclude:         hclCfg.Exclude,
		NonStrict:       hclCfg.NonStrict,
		SkipFailed:      hclCfg.SkipFailed,
		StrictAmbiguity: hclCfg.StrictAmbiguity,
		ShowDiff:        hclCfg.ShowDiff,
		DryRun:          hclCfg.DryRun,
		Jobs:            hclCfg.Jobs,
	}

	return cfg, nil
}
