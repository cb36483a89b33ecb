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

// Package invoke implements the invoke command.
package invoke

import (
	"github.com/spf13/cobra"

	"github.com/tombee/faas-form/internal/commands/completion"
	"github.com/tombee/faas-form/internal/commands/shared"
	"github.com/tombee/faas-form/internal/conversation"
	"github.com/tombee/faas-form/pkg/form"
)

type invokeOptions struct {
	noReinvoke bool
	schema     string
	query      string
	logs       bool
}

// NewCommand creates the invoke command.
func NewCommand() *cobra.Command {
	var opts invokeOptions

	cmd := &cobra.Command{
		Use:   "invoke [function]",
		Short: "Fill in a function's form and invoke it",
		Long: `Invoke asks the function for its schema, prompts for each input, and
invokes the function with the collected values. When the response carries a
result, the result is printed; otherwise the response body is printed with
the protocol keys removed.

A function may answer with a new schema and ask to be invoked again. The
conversation then continues with another round of prompts until the function
stops asking, or --no-reinvoke is given.

Without a function name the compatible functions are offered in a picker.

See also: faas-form ls, faas-form prompt`,
		Example: `  # Example 1: Invoke a function by name
  faas-form invoke hello

  # Example 2: Use a local schema instead of asking the function
  faas-form invoke hello --schema @schema.json

  # Example 3: Show only part of the response
  faas-form invoke report --query '.summary'

  # Example 4: Print the function's log tail after each round
  faas-form invoke hello --logs`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completion.CompleteFunctionNames,
		SilenceUsage:      true,
		SilenceErrors:     true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvoke(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.noReinvoke, "no-reinvoke", false, "Stop after the first round even if the function asks for another")
	cmd.Flags().StringVar(&opts.schema, "schema", "", "Schema to use instead of asking the function (JSON, @file or @-)")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "jq expression applied to the displayed response")
	cmd.Flags().BoolVar(&opts.logs, "logs", false, "Print the function's log tail after each round")

	return cmd
}

func runInvoke(cmd *cobra.Command, args []string, opts invokeOptions) error {
	ctx := cmd.Context()

	// Read a local schema before touching the provider so a bad document
	// fails fast.
	var schema *form.Schema
	if opts.schema != "" {
		var err error
		schema, err = shared.ReadSchemaArg("schema", opts.schema, cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	cfg, logger, provider, err := shared.Setup(ctx)
	if err != nil {
		return err
	}

	function, err := shared.ResolveFunction(ctx, args, provider, cfg)
	if err != nil {
		return err
	}

	conv, err := conversation.New(conversation.Options{
		Function:        function,
		Invoker:         provider,
		Reader:          shared.NewReader(cmd),
		Out:             cmd.OutOrStdout(),
		Logger:          logger,
		DisableReinvoke: opts.noReinvoke,
		Query:           opts.query,
		ShowLogs:        opts.logs,
	})
	if err != nil {
		return err
	}

	outcome, err := conv.Run(ctx, schema)
	if err != nil {
		return err
	}
	logger.Debug("invoke finished", "function", function, "rounds", outcome.Rounds)
	return nil
}
