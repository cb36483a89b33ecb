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

// Package demo implements the demo command, which runs a conversation with
// the built-in example function without any cloud provider.
package demo

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tombee/faas-form/internal/commands/shared"
	"github.com/tombee/faas-form/internal/config"
	"github.com/tombee/faas-form/internal/conversation"
	"github.com/tombee/faas-form/internal/examples"
	"github.com/tombee/faas-form/internal/faas"
)

// NewCommand creates the demo command.
func NewCommand() *cobra.Command {
	var noReinvoke bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Try faas-form against a built-in example function",
		Long: `Demo runs a conversation with an example function that lives inside the
binary, so no cloud account is needed.

The function greets you by name. Greet it as "Merlin" and it asks to be
invoked again with a second form that uses every input type. Answer y to the
last question of that form to go round again.

See also: faas-form demo schemas, faas-form invoke`,
		Example: `  # Example 1: Run the demo
  faas-form demo

  # Example 2: Stop after the greeting
  faas-form demo --no-reinvoke`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The demo needs no provider, so a broken config file only
			// costs the configured log settings.
			cfg, err := shared.LoadConfig()
			if err != nil {
				cfg = config.Default()
			}
			logger := shared.NewLogger(cfg)

			provider := faas.NewLocalProvider(logger)
			examples.NewHello(logger).Register(provider)

			conv, err := conversation.New(conversation.Options{
				Function:        examples.HelloName,
				Invoker:         provider,
				Reader:          shared.NewReader(cmd),
				Out:             cmd.OutOrStdout(),
				Logger:          logger,
				DisableReinvoke: noReinvoke,
			})
			if err != nil {
				return err
			}
			_, err = conv.Run(cmd.Context(), nil)
			return err
		},
	}

	cmd.Flags().BoolVar(&noReinvoke, "no-reinvoke", false, "Stop after the greeting")
	cmd.AddCommand(newSchemasCommand())

	return cmd
}

func newSchemasCommand() *cobra.Command {
	var copyTo string

	cmd := &cobra.Command{
		Use:   "schemas [name]",
		Short: "List or print the example function's schemas",
		Long: `Schemas lists the schemas served by the example function. With a name,
the schema is printed, or written to a file with --copy-to. A copied schema
is a starting point for 'faas-form prompt --schema @file'.`,
		Example: `  # Example 1: List the schemas
  faas-form demo schemas

  # Example 2: Print one
  faas-form demo schemas advanced

  # Example 3: Copy one for editing
  faas-form demo schemas simple --copy-to ./my-schema.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			list, err := examples.List()
			if err != nil {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			names := make([]string, 0, len(list))
			for _, ex := range list {
				names = append(names, ex.Name+"\t"+ex.Description)
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				list, err := examples.List()
				if err != nil {
					return err
				}
				if shared.GetJSON() {
					return shared.EmitJSON(out, list)
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tDESCRIPTION")
				for _, ex := range list {
					fmt.Fprintf(w, "%s\t%s\n", ex.Name, ex.Description)
				}
				return w.Flush()
			}

			name := args[0]
			if copyTo != "" {
				dest := copyTo
				if filepath.Ext(dest) == "" {
					dest = filepath.Join(dest, name+".json")
				}
				if err := examples.CopyTo(name, dest); err != nil {
					return err
				}
				fmt.Fprintln(out, shared.RenderOK("Copied "+name+" to "+dest))
				return nil
			}

			content, err := examples.Get(name)
			if err != nil {
				return err
			}
			_, err = out.Write(content)
			return err
		},
	}

	cmd.Flags().StringVar(&copyTo, "copy-to", "", "Write the schema to a file or directory")

	return cmd
}
