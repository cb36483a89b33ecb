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

package faas

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	fferrors "github.com/tombee/faas-form/pkg/errors"
)

// ErrUnsupported is returned by providers for operations they cannot perform.
var ErrUnsupported = errors.New("operation not supported by provider")

// ErrNotFound is returned when a function does not exist.
var ErrNotFound = errors.New("function not found")

// InvocationError reports a failed call to a function. Invocations are
// never retried.
type InvocationError struct {
	Function      string
	StatusCode    int
	FunctionError string
	Message       string
	Logs          string
	Cause         error
}

// Error implements the error interface.
func (e *InvocationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invoke %s", e.Function)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.FunctionError != "" {
		fmt.Fprintf(&b, ": function error %s", e.FunctionError)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *InvocationError) Unwrap() error {
	return e.Cause
}

// IsUserVisible implements errors.UserVisibleError.
func (e *InvocationError) IsUserVisible() bool { return true }

// UserMessage implements errors.UserVisibleError.
func (e *InvocationError) UserMessage() string { return e.Error() }

// Suggestion implements errors.UserVisibleError.
func (e *InvocationError) Suggestion() string {
	if e.FunctionError != "" {
		return "Re-run with --logs to see the function's log output"
	}
	return "Check the function name and your provider credentials"
}

// ErrorType implements errors.ErrorClassifier.
func (e *InvocationError) ErrorType() string { return "invocation" }

// IsRetryable implements errors.ErrorClassifier. A function may not be
// idempotent, so invocations are never retried.
func (e *InvocationError) IsRetryable() bool { return false }

// newFunctionError builds an InvocationError from an unsuccessful response,
// using the payload's errorMessage when the function reported one.
func newFunctionError(id string, resp *InvocationResponse) *InvocationError {
	err := &InvocationError{
		Function:      id,
		StatusCode:    resp.StatusCode,
		FunctionError: resp.FunctionError,
		Logs:          resp.Logs,
	}

	var body struct {
		ErrorMessage string `json:"errorMessage"`
		ErrorType    string `json:"errorType"`
	}
	if json.Unmarshal(resp.Payload, &body) == nil && body.ErrorMessage != "" {
		err.Message = body.ErrorMessage
		if body.ErrorType != "" {
			err.Message = body.ErrorType + ": " + body.ErrorMessage
		}
		return err
	}

	text := strings.TrimSpace(string(resp.Payload))
	const maxLen = 200
	if len(text) > maxLen {
		text = text[:maxLen] + "..."
	}
	err.Message = text
	return err
}

// ProviderError reports a failed directory or credential operation.
type ProviderError struct {
	Provider string
	Op       string
	Cause    error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// IsUserVisible implements errors.UserVisibleError.
func (e *ProviderError) IsUserVisible() bool { return true }

// UserMessage implements errors.UserVisibleError.
func (e *ProviderError) UserMessage() string { return e.Error() }

// Suggestion implements errors.UserVisibleError.
func (e *ProviderError) Suggestion() string {
	if errors.Is(e.Cause, ErrUnsupported) {
		return fmt.Sprintf("The %s provider cannot %s; use the lambda provider", e.Provider, e.Op)
	}
	return "Check your provider configuration and credentials (faas-form admin whoami)"
}

// ErrorType implements errors.ErrorClassifier.
func (e *ProviderError) ErrorType() string { return "provider" }

// IsRetryable implements errors.ErrorClassifier.
func (e *ProviderError) IsRetryable() bool { return false }

var (
	_ fferrors.UserVisibleError = (*InvocationError)(nil)
	_ fferrors.ErrorClassifier  = (*InvocationError)(nil)
	_ fferrors.UserVisibleError = (*ProviderError)(nil)
	_ fferrors.ErrorClassifier  = (*ProviderError)(nil)
)
