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

// Package list implements the ls command.
package list

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tombee/faas-form/internal/cli/prompt"
	"github.com/tombee/faas-form/internal/commands/shared"
	"github.com/tombee/faas-form/internal/config"
	"github.com/tombee/faas-form/internal/faas"
	pkgerrors "github.com/tombee/faas-form/pkg/errors"
)

type listOptions struct {
	tags    bool
	noTags  bool
	env     bool
	noEnv   bool
	pattern string
}

// NewCommand creates the ls command.
func NewCommand() *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List compatible functions",
		Long: `List the functions that answer the faas-form protocol.

A function is compatible when it carries the "faasform" marker, either as a
resource tag or as an environment variable. The marker value is shown as the
function's description. By default only tags are searched; searching
environment variables reads every function's configuration and is slower.

See also: faas-form invoke, faas-form admin tag`,
		Example: `  # Example 1: List tagged functions
  faas-form ls

  # Example 2: Also search environment variables
  faas-form ls --env

  # Example 3: Only functions whose name starts with "billing-"
  faas-form ls --match 'billing-*'

  # Example 4: Names only, for scripting
  faas-form ls --json | jq -r '.[].name'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.tags, "tags", false, "Search resource tags for the marker")
	cmd.Flags().BoolVar(&opts.noTags, "no-tags", false, "Do not search resource tags")
	cmd.Flags().BoolVar(&opts.env, "env", false, "Search environment variables for the marker")
	cmd.Flags().BoolVar(&opts.noEnv, "no-env", false, "Do not search environment variables")
	cmd.Flags().StringVarP(&opts.pattern, "match", "m", "", "Only list functions whose name matches a glob")
	cmd.MarkFlagsMutuallyExclusive("tags", "no-tags")
	cmd.MarkFlagsMutuallyExclusive("env", "no-env")

	return cmd
}

// listOptionsFor merges the flags over the configured discovery defaults.
func listOptionsFor(cmd *cobra.Command, cfg *config.Config, opts listOptions) faas.ListOptions {
	lo := faas.ListOptions{Tags: cfg.Discovery.Tags, Env: cfg.Discovery.Env}
	flags := cmd.Flags()
	switch {
	case flags.Changed("tags"):
		lo.Tags = opts.tags
	case flags.Changed("no-tags"):
		lo.Tags = !opts.noTags
	}
	switch {
	case flags.Changed("env"):
		lo.Env = opts.env
	case flags.Changed("no-env"):
		lo.Env = !opts.noEnv
	}
	return lo
}

func runList(cmd *cobra.Command, opts listOptions) error {
	cfg, logger, provider, err := shared.Setup(cmd.Context())
	if err != nil {
		return err
	}

	lo := listOptionsFor(cmd, cfg, opts)
	if !lo.Tags && !lo.Env {
		return &pkgerrors.ValidationError{
			Field:   "tags",
			Message: "nothing to search",
			Hint:    "Enable --tags or --env",
		}
	}

	logger.Debug("listing functions", "tags", lo.Tags, "env", lo.Env, "match", opts.pattern)
	funcs, err := provider.List(cmd.Context(), lo)
	if err != nil {
		return err
	}
	funcs, err = faas.Match(funcs, opts.pattern)
	if err != nil {
		return &pkgerrors.ValidationError{Field: "match", Message: err.Error(), Hint: "Use a glob such as 'billing-*'"}
	}

	names := prompt.SortedNames(funcs)
	out := cmd.OutOrStdout()

	if shared.GetJSON() {
		listed := make([]faas.FunctionInfo, 0, len(names))
		for _, name := range names {
			listed = append(listed, funcs[name])
		}
		return shared.EmitJSON(out, listed)
	}

	if len(names) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), shared.RenderWarn("No compatible functions found"))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%s\n", name, funcs[name].Description)
	}
	return w.Flush()
}
