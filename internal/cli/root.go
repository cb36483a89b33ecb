// Copyright 2025 Tom Barlow
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

package cli

import (
	"github.com/spf13/cobra"

	"github.com/tombee/faas-form/internal/commands/shared"
)

// Command groups shown in the root help.
const (
	GroupFunctions = "functions"
	GroupAdmin     = "admin"
)

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	shared.SetVersion(v, c, b)
}

// NewRootCommand creates the root Cobra command for faas-form
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "faas-form",
		Short: "faas-form - interactive forms for serverless functions",
		Long: `faas-form invokes serverless functions that describe their own input.

A compatible function answers a schema request with the list of inputs it
needs. faas-form prompts for each one, validates the answers, and invokes the
function with them. The function may answer with another schema to continue
the conversation.

Run 'faas-form demo' to try it without a cloud account.
Run 'faas-form ls' to list the compatible functions of your account.`,
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves for proper exit codes
	}

	cmd.AddGroup(
		&cobra.Group{ID: GroupFunctions, Title: "Function Commands:"},
		&cobra.Group{ID: GroupAdmin, Title: "Administration Commands:"},
	)

	// Get flag pointers from shared package
	verbose, json, config, provider := shared.RegisterFlagPointers()

	// Add global flags
	cmd.PersistentFlags().BoolVarP(verbose, "verbose", "v", false, "Enable debug logging on stderr")
	cmd.PersistentFlags().BoolVar(json, "json", false, "Output in JSON format")
	cmd.PersistentFlags().StringVar(config, "config", "", "Path to config file (default: ~/.config/faas-form/config.yaml)")
	cmd.PersistentFlags().StringVar(provider, "provider", "", "Function provider: lambda or http (overrides the config file)")

	return cmd
}

// AddGroupedCommand adds sub to root under group.
func AddGroupedCommand(root *cobra.Command, group string, sub *cobra.Command) {
	sub.GroupID = group
	root.AddCommand(sub)
}

// GetVersion returns version information
func GetVersion() (string, string, string) {
	return shared.GetVersion()
}

// HandleExitError handles exit errors with proper exit codes
func HandleExitError(err error) {
	shared.HandleExitError(err)
}
