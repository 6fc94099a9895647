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

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// newRootCmd assembles the command tree. Logging is configured in
// PersistentPreRun, after cobra has parsed the persistent flags, so the
// context logger honors --debug.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "smalipatch",
		Short: "Apply edit scripts to disassembled smali trees",
		Long: `smalipatch applies diff-like edit scripts to smali listings produced by a
disassembler. Scripts describe context hunks, whole-method replacements, new
methods, and new files; matching tolerates the formatting noise that different
disassembler versions introduce.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(setupLogging(cmd.Context()))
		},
	}

	addRootFlags(rootCmd)

	rootCmd.AddCommand(
		newApplyCmd(),
		newCheckCmd(),
		newRunCmd(),
	)

	return rootCmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
