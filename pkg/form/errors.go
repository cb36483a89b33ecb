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

package form

import (
	"errors"
	"fmt"
)

// ErrInterrupted is returned when the operator interrupts input collection.
// It is distinct from end-of-input, which is an ordinary "no value" answer.
var ErrInterrupted = errors.New("input interrupted")

// SchemaError reports a malformed wire schema or input definition.
type SchemaError struct {
	// Input is the name (or position) of the offending input, if known.
	Input string

	// Message describes what is wrong.
	Message string

	// Cause is the underlying decode or compile error, if any.
	Cause error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("invalid schema: input %s: %s", e.Input, e.Message)
	}
	return fmt.Sprintf("invalid schema: %s", e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// IsUserVisible implements errors.UserVisibleError.
func (e *SchemaError) IsUserVisible() bool { return true }

// UserMessage implements errors.UserVisibleError.
func (e *SchemaError) UserMessage() string { return e.Error() }

// Suggestion implements errors.UserVisibleError.
func (e *SchemaError) Suggestion() string {
	return "Run 'faas-form validate' on the schema document to see every problem"
}

// InputClosedError is returned when a non-interactive input stream has ended
// while an input still needs an answer. Re-prompting could never succeed.
type InputClosedError struct {
	Input string
}

// Error implements the error interface.
func (e *InputClosedError) Error() string {
	return fmt.Sprintf("input stream closed before a value for %s was entered", e.Input)
}

func schemaErrorf(input, format string, args ...any) *SchemaError {
	return &SchemaError{Input: input, Message: fmt.Sprintf(format, args...)}
}
