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

package envelope

import "fmt"

// MissingSchemaError reports a schema response without a schema body.
type MissingSchemaError struct {
	// Function identifies the function that was asked, when known.
	Function string
}

// Error implements the error interface.
func (e *MissingSchemaError) Error() string {
	if e.Function != "" {
		return fmt.Sprintf("no schema returned by function %s", e.Function)
	}
	return "no schema returned by the function"
}

// IsUserVisible implements errors.UserVisibleError.
func (e *MissingSchemaError) IsUserVisible() bool { return true }

// UserMessage implements errors.UserVisibleError.
func (e *MissingSchemaError) UserMessage() string { return e.Error() }

// Suggestion implements errors.UserVisibleError.
func (e *MissingSchemaError) Suggestion() string {
	return "Check that the function answers schema requests, or pass one with --schema"
}

// ProtocolError reports a response that breaks the envelope convention.
type ProtocolError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("protocol error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("protocol error: %s", e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ProtocolError) Unwrap() error {
	return e.Cause
}
