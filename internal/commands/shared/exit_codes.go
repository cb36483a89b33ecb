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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tombee/faas-form/internal/faas"
	"github.com/tombee/faas-form/pkg/envelope"
	pkgerrors "github.com/tombee/faas-form/pkg/errors"
	"github.com/tombee/faas-form/pkg/form"
)

// Exit codes for faas-form commands
const (
	ExitSuccess         = 0
	ExitExecutionFailed = 1
	ExitInvalidSchema   = 2
	ExitMissingSchema   = 3
	ExitProviderError   = 4
	ExitInterrupted     = 130 // 128 + SIGINT
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewExecutionError creates an error for failed invocations
func NewExecutionError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitExecutionFailed,
		Message: msg,
		Cause:   cause,
	}
}

// NewInvalidSchemaError creates an error for malformed schema documents
func NewInvalidSchemaError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitInvalidSchema,
		Message: msg,
		Cause:   cause,
	}
}

// NewProviderError creates an error for provider and configuration failures
func NewProviderError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitProviderError,
		Message: msg,
		Cause:   cause,
	}
}

// ExitCode maps err to the process exit code. An ExitError carries its own
// code; otherwise the code follows the error type found in the chain.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		exitErr     *ExitError
		schemaErr   *form.SchemaError
		missingErr  *envelope.MissingSchemaError
		providerErr *faas.ProviderError
		configErr   *pkgerrors.ConfigError
	)
	switch {
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, form.ErrInterrupted):
		return ExitInterrupted
	case errors.As(err, &schemaErr):
		return ExitInvalidSchema
	case errors.As(err, &missingErr):
		return ExitMissingSchema
	case errors.As(err, &providerErr), errors.As(err, &configErr):
		return ExitProviderError
	default:
		return ExitExecutionFailed
	}
}

// PrintError writes err and any suggestion to w and returns the exit code.
func PrintError(w io.Writer, err error) int {
	if err == nil {
		return ExitSuccess
	}

	code := ExitCode(err)
	if code == ExitInterrupted {
		fmt.Fprintln(w, RenderWarn("Interrupted"))
		return code
	}

	fmt.Fprintln(w, errorStyle.Render("Error:"), err.Error())
	printUserVisibleSuggestion(w, err)
	return code
}

// HandleExitError prints err and exits with the mapped code
func HandleExitError(err error) {
	if err == nil {
		return
	}
	os.Exit(PrintError(os.Stderr, err))
}

// printUserVisibleSuggestion checks if an error implements UserVisibleError
// and prints the suggestion if available.
func printUserVisibleSuggestion(w io.Writer, err error) {
	// Walk the error chain to find a UserVisibleError
	for err != nil {
		if userErr, ok := err.(pkgerrors.UserVisibleError); ok {
			if userErr.IsUserVisible() {
				suggestion := userErr.Suggestion()
				if suggestion != "" {
					fmt.Fprintf(w, "\n%s %s\n", mutedStyle.Render("Suggestion:"), suggestion)
				}
			}
			return
		}

		// Continue unwrapping
		err = errors.Unwrap(err)
	}
}
