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

package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/cobra"

	"github.com/tombee/faas-form/internal/commands/shared"
	"github.com/tombee/faas-form/pkg/envelope"
	"github.com/tombee/faas-form/pkg/form"
)

// Problem is one reported defect of a schema document.
type Problem struct {
	Location string `json:"location,omitempty"`
	Message  string `json:"message"`
}

// InputSummary describes one input of a valid schema.
type InputSummary struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

type validateResponse struct {
	Valid    bool           `json:"valid"`
	Inputs   []InputSummary `json:"inputs,omitempty"`
	Problems []Problem      `json:"problems,omitempty"`
}

// NewCommand creates the validate command
func NewCommand() *cobra.Command {
	var printSchema bool

	cmd := &cobra.Command{
		Use:   "validate <file|->",
		Short: "Validate a schema document",
		Long: `Validate checks that a schema document is well formed without contacting
any function. The document may be a bare schema body or a full schema
response.

The structure is checked first against the wire format's JSON Schema, which
reports every structural problem at once. A structurally valid document is
then parsed exactly as a function's response would be, which also checks
patterns, sizes and defaults.

Use --print-schema to print the JSON Schema of the wire format, for example
to configure an editor.

See also: faas-form prompt, faas-form admin show`,
		Example: `  # Example 1: Validate a schema file
  faas-form validate schema.json

  # Example 2: Validate a function's live schema
  faas-form admin show hello | faas-form validate -

  # Example 3: Print the wire format's JSON Schema
  faas-form validate --print-schema > faas-form.schema.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if printSchema {
				doc, err := form.MetaSchema()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(doc))
				return err
			}
			if len(args) == 0 {
				return fmt.Errorf("requires a schema file, or - for stdin")
			}
			return runValidate(cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&printSchema, "print-schema", false, "Print the JSON Schema of the wire format and exit")

	return cmd
}

func runValidate(cmd *cobra.Command, path string) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return &shared.ExitError{Code: shared.ExitExecutionFailed, Message: "failed to read schema document", Cause: err}
	}

	var (
		problems []Problem
		schema   *form.Schema
	)

	// Step 1: structure
	checkErr := form.CheckDocument(schemaBody(data))
	if checkErr != nil {
		problems = structuralProblems(checkErr)
	}

	// Step 2: full parse, only when the structure is sound
	if checkErr == nil {
		schema, err = envelope.ParseSchemaDocument(data)
		if err != nil {
			problems = append(problems, Problem{Message: err.Error()})
			checkErr = err
		}
	}

	out := cmd.OutOrStdout()
	if shared.GetJSON() {
		resp := validateResponse{Valid: checkErr == nil, Problems: problems}
		if schema != nil {
			resp.Inputs = summarize(schema)
		}
		if err := shared.EmitJSON(out, resp); err != nil {
			return err
		}
		if checkErr != nil {
			return shared.NewInvalidSchemaError("validation failed", checkErr)
		}
		return nil
	}

	if checkErr != nil {
		for _, p := range problems {
			if p.Location != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), shared.RenderError(fmt.Sprintf("%s: %s: %s", path, p.Location, p.Message)))
			} else {
				fmt.Fprintln(cmd.ErrOrStderr(), shared.RenderError(fmt.Sprintf("%s: %s", path, p.Message)))
			}
		}
		return shared.NewInvalidSchemaError("validation failed", checkErr)
	}

	fmt.Fprintln(out, "Validation Results:")
	fmt.Fprintln(out, "  [OK] Structure valid")
	fmt.Fprintf(out, "  [OK] %d inputs parsed\n", schema.Len())
	for _, in := range summarize(schema) {
		req := ""
		if in.Required {
			req = " (required)"
		}
		fmt.Fprintf(out, "    %s: %s%s\n", in.Name, in.Type, req)
	}
	return nil
}

// schemaBody unwraps a full schema response so the structural check sees
// the body.
func schemaBody(data []byte) []byte {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return data
	}
	if raw, ok := obj[envelope.SchemaKey]; ok {
		return raw
	}
	return data
}

// structuralProblems flattens a JSON Schema validation failure into its leaf
// causes.
func structuralProblems(err error) []Problem {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []Problem{{Message: err.Error()}}
	}

	var problems []Problem
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			problems = append(problems, Problem{Location: loc, Message: e.Message})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(verr)
	return problems
}

func summarize(schema *form.Schema) []InputSummary {
	inputs := make([]InputSummary, 0, schema.Len())
	for _, in := range schema.Inputs() {
		inputs = append(inputs, InputSummary{
			Name:     in.Base().Name,
			Type:     string(in.Type()),
			Required: in.IsRequired(),
		})
	}
	return inputs
}
