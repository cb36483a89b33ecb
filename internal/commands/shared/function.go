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

package shared

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/tombee/faas-form/internal/cli/prompt"
	"github.com/tombee/faas-form/internal/config"
	"github.com/tombee/faas-form/internal/faas"
	pkgerrors "github.com/tombee/faas-form/pkg/errors"
)

// FunctionPicker chooses a function from a listing and returns its ID.
type FunctionPicker func(ctx context.Context, funcs map[string]faas.FunctionInfo) (string, error)

var (
	functionPicker FunctionPicker = func(ctx context.Context, funcs map[string]faas.FunctionInfo) (string, error) {
		return prompt.NewPicker().SelectFunction(ctx, funcs)
	}
	nonInteractive = IsNonInteractive
)

// SetFunctionPickerForTest replaces the interactive picker and forces
// interactive mode. It returns a function restoring both.
func SetFunctionPickerForTest(p FunctionPicker) (restore func()) {
	prevPicker, prevCheck := functionPicker, nonInteractive
	functionPicker = p
	nonInteractive = func() bool { return false }
	return func() {
		functionPicker = prevPicker
		nonInteractive = prevCheck
	}
}

// ResolveFunction returns the function named in args. Without one, the
// operator picks from the compatible functions when running interactively.
func ResolveFunction(ctx context.Context, args []string, dir faas.Directory, cfg *config.Config) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if nonInteractive() {
		return "", &pkgerrors.ValidationError{
			Field:   "function",
			Message: "a function name is required when not running interactively",
			Hint:    "Run 'faas-form ls' to list compatible functions",
		}
	}

	funcs, err := dir.List(ctx, faas.ListOptions{Tags: cfg.Discovery.Tags, Env: cfg.Discovery.Env})
	if err != nil {
		return "", err
	}
	return functionPicker(ctx, funcs)
}

// NewReader creates the answer reader for a command. The process stdin is
// read as a terminal when it is one; any other input is read line by line.
func NewReader(cmd *cobra.Command) *prompt.TerminalReader {
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		return prompt.NewTerminalReader(f, cmd.OutOrStdout())
	}
	return prompt.NewStreamReader(cmd.InOrStdin(), cmd.OutOrStdout())
}
