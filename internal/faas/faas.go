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

// Package faas talks to remote functions that speak the faas-form protocol.
//
// An Invoker performs one synchronous call. A Directory lists, tags and
// untags compatible functions. Providers implement both for a platform:
// AWS Lambda, plain HTTPS endpoints, or in-process handlers.
package faas

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/tombee/faas-form/pkg/envelope"
	"github.com/tombee/faas-form/pkg/form"
)

// Marker is the tag key or environment variable that marks a function as
// faas-form compatible. Its value is the function's description.
const Marker = "faasform"

// FunctionInfo describes a compatible function.
type FunctionInfo struct {
	// ID is the provider identifier used to invoke the function.
	ID string `json:"id"`

	// Name is the short display name.
	Name string `json:"name"`

	// Description is the marker value, possibly empty.
	Description string `json:"description,omitempty"`
}

// InvokeOptions controls a single invocation.
type InvokeOptions struct {
	// Logs requests the tail of the function's execution log.
	Logs bool
}

// InvocationResponse is the raw outcome of one invocation.
type InvocationResponse struct {
	// StatusCode is the transport status reported by the provider.
	StatusCode int

	// Payload is the JSON document returned by the function.
	Payload []byte

	// FunctionError is set when the function itself failed.
	FunctionError string

	// Logs is the decoded log tail, when requested and available.
	Logs string

	// Raw is the provider's native response.
	Raw any
}

// Succeeded reports whether the invocation completed without transport or
// function errors.
func (r *InvocationResponse) Succeeded() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300 && r.FunctionError == ""
}

// Invoker performs synchronous function calls.
type Invoker interface {
	Invoke(ctx context.Context, id string, payload []byte, opts InvokeOptions) (*InvocationResponse, error)
}

// ListOptions selects where a Directory looks for the marker.
type ListOptions struct {
	// Tags searches resource tags.
	Tags bool

	// Env searches function environment variables.
	Env bool
}

// Directory discovers and administers compatible functions.
type Directory interface {
	List(ctx context.Context, opts ListOptions) (map[string]FunctionInfo, error)
	Tag(ctx context.Context, id, description string) error
	Untag(ctx context.Context, id string) error
}

// Provider is a complete function platform.
type Provider interface {
	Invoker
	Directory

	// Name identifies the provider in logs and messages.
	Name() string
}

// Identity is the caller identity a provider operates as.
type Identity struct {
	Account string `json:"account"`
	ARN     string `json:"arn"`
	UserID  string `json:"user_id"`
}

// IdentityChecker is implemented by providers with a credential identity.
type IdentityChecker interface {
	Whoami(ctx context.Context) (*Identity, error)
}

// GetSchema asks function id for its schema.
func GetSchema(ctx context.Context, inv Invoker, id string) (*form.Schema, error) {
	payload, err := json.Marshal(envelope.NewSchemaRequest())
	if err != nil {
		return nil, err
	}

	resp, err := call(ctx, inv, id, payload, InvokeOptions{})
	if err != nil {
		return nil, err
	}

	schema, err := envelope.ParseSchemaResponse(resp.Payload)
	if err != nil {
		var missing *envelope.MissingSchemaError
		if errors.As(err, &missing) {
			missing.Function = id
		}
		return nil, err
	}
	return schema, nil
}

// InvokeValues sends collected values to function id.
func InvokeValues(ctx context.Context, inv Invoker, id string, values *form.Values, opts InvokeOptions) (*InvocationResponse, error) {
	payload, err := json.Marshal(envelope.NewInvokeRequest(values))
	if err != nil {
		return nil, err
	}
	return call(ctx, inv, id, payload, opts)
}

func call(ctx context.Context, inv Invoker, id string, payload []byte, opts InvokeOptions) (*InvocationResponse, error) {
	resp, err := inv.Invoke(ctx, id, payload, opts)
	if err != nil {
		var invErr *InvocationError
		if errors.As(err, &invErr) {
			return nil, err
		}
		return nil, &InvocationError{Function: id, Message: "invocation failed", Cause: err}
	}
	if !resp.Succeeded() {
		return nil, newFunctionError(id, resp)
	}
	return resp, nil
}

// NameFromARN returns the function name part of a Lambda ARN, including
// any qualifier. Identifiers that are not ARNs are returned unchanged.
func NameFromARN(arn string) string {
	if !strings.HasPrefix(arn, "arn:") {
		return arn
	}
	parts := strings.SplitN(arn, ":", 7)
	return parts[len(parts)-1]
}

// payloadKind returns the envelope payload type of an outgoing request for
// logging.
func payloadKind(payload []byte) string {
	var head struct {
		Kind string `json:"x-faas-form-payload"`
	}
	_ = json.Unmarshal(payload, &head)
	return head.Kind
}

var (
	_ Provider        = (*LambdaProvider)(nil)
	_ IdentityChecker = (*LambdaProvider)(nil)
	_ Provider        = (*HTTPProvider)(nil)
	_ Provider        = (*LocalProvider)(nil)
)
