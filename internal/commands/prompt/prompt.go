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

// Package prompt implements the prompt command, which collects one round of
// values without invoking anything.
package prompt

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tombee/faas-form/internal/commands/completion"
	"github.com/tombee/faas-form/internal/commands/shared"
	"github.com/tombee/faas-form/internal/faas"
	"github.com/tombee/faas-form/internal/log"
	"github.com/tombee/faas-form/pkg/form"
)

type promptOptions struct {
	schema     string
	function   string
	outputFile string
}

// NewCommand creates the prompt command.
func NewCommand() *cobra.Command {
	var opts promptOptions

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Collect values for a schema and print them as JSON",
		Long: `Prompt asks for every input of a schema and prints the collected values
as a JSON object, in input order. Nothing is invoked.

The schema is either given directly with --schema, or requested from a
function with --function. A schema document may be a bare schema body or a
full schema response.

See also: faas-form invoke, faas-form validate`,
		Example: `  # Example 1: Collect values for a schema file
  faas-form prompt --schema @schema.json

  # Example 2: Collect values for a function's schema and save them
  faas-form prompt --function hello -o event.json

  # Example 3: Inline schema
  faas-form prompt --schema '{"inputs":[{"name":"n","type":"number"}]}'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrompt(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.schema, "schema", "", "Schema to prompt for (JSON, @file or @-)")
	cmd.Flags().StringVarP(&opts.function, "function", "f", "", "Function to request the schema from")
	cmd.Flags().StringVarP(&opts.outputFile, "output-file", "o", "", "Write the values to a file instead of stdout")
	cmd.MarkFlagsMutuallyExclusive("schema", "function")
	cmd.MarkFlagsOneRequired("schema", "function")
	_ = cmd.RegisterFlagCompletionFunc("function", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return completion.CompleteFunctionNames(cmd, nil, toComplete)
	})

	return cmd
}

func runPrompt(cmd *cobra.Command, opts promptOptions) error {
	ctx := cmd.Context()

	var (
		schema *form.Schema
		logger = log.Discard()
		err    error
	)
	if opts.schema != "" {
		schema, err = shared.ReadSchemaArg("schema", opts.schema, cmd.InOrStdin())
		if err != nil {
			return err
		}
		cfg, cerr := shared.LoadConfig()
		if cerr == nil {
			logger = shared.NewLogger(cfg)
		}
	} else {
		var provider faas.Provider
		_, logger, provider, err = shared.Setup(ctx)
		if err != nil {
			return err
		}
		schema, err = faas.GetSchema(ctx, provider, opts.function)
		if err != nil {
			return err
		}
	}

	session := form.NewSession(shared.NewReader(cmd), cmd.OutOrStdout(),
		form.WithLogger(log.WithComponent(logger, "prompt")))
	values, err := schema.CollectValues(ctx, session)
	if err != nil {
		return err
	}

	if opts.outputFile == "" {
		return shared.EmitJSON(cmd.OutOrStdout(), values)
	}

	var buf bytes.Buffer
	if err := shared.EmitJSON(&buf, values); err != nil {
		return err
	}
	if err := os.WriteFile(opts.outputFile, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write values: %w", err)
	}
	logger.Debug("values written", "path", opts.outputFile, "count", values.Len())
	return nil
}
