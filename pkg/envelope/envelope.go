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

// Package envelope implements the faas-form wire convention.
//
// The caller sends one of two requests:
//
//	{"x-faas-form-payload": "schema"}
//	{"x-faas-form-payload": "invoke", "<input>": <value>, ...}
//
// The function answers a schema request with
//
//	{"x-faas-form-schema": {"instructions": "...", "inputs": [...]}}
//
// and an invoke request with any object, optionally carrying a short result
// string under "x-faas-form-result". A response whose payload type is
// "reinvoke" also embeds the schema for the next round.
//
// Every envelope key starts with Prefix, which input names may not use.
package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tombee/faas-form/pkg/form"
)

const (
	// Prefix namespaces every envelope key.
	Prefix = form.ReservedPrefix

	// PayloadTypeKey carries the request or response kind.
	PayloadTypeKey = Prefix + "-payload"

	// SchemaKey carries an embedded schema body.
	SchemaKey = Prefix + "-schema"

	// ResultKey carries the short display string of a response.
	ResultKey = Prefix + "-result"
)

// PayloadType is the value stored under PayloadTypeKey.
type PayloadType string

const (
	// PayloadSchema marks a schema request.
	PayloadSchema PayloadType = "schema"

	// PayloadInvoke marks an invoke request.
	PayloadInvoke PayloadType = "invoke"

	// PayloadReinvoke marks a response asking for another round.
	PayloadReinvoke PayloadType = "reinvoke"
)

// Request is an outgoing envelope.
type Request struct {
	Type   PayloadType
	Values *form.Values
}

// NewSchemaRequest returns the request asking a function for its schema.
func NewSchemaRequest() *Request {
	return &Request{Type: PayloadSchema}
}

// NewInvokeRequest returns the request carrying collected values.
func NewInvokeRequest(values *form.Values) *Request {
	return &Request{Type: PayloadInvoke, Values: values}
}

// MarshalJSON encodes the payload type first, followed by the flattened
// values in collection order.
func (r *Request) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	key, err := json.Marshal(PayloadTypeKey)
	if err != nil {
		return nil, err
	}
	kind, err := json.Marshal(r.Type)
	if err != nil {
		return nil, err
	}
	buf.WriteByte('{')
	buf.Write(key)
	buf.WriteByte(':')
	buf.Write(kind)
	if r.Values != nil {
		for _, name := range r.Values.Keys() {
			if IsEnvelopeKey(name) {
				return nil, fmt.Errorf("value %q collides with envelope key", name)
			}
		}
		if err := r.Values.AppendMembers(&buf); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// IsEnvelopeKey reports whether key belongs to the envelope namespace.
func IsEnvelopeKey(key string) bool {
	return strings.HasPrefix(key, Prefix)
}

// Strip returns a shallow copy of obj without envelope keys.
func Strip(obj map[string]any) map[string]any {
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		if !IsEnvelopeKey(k) {
			out[k] = v
		}
	}
	return out
}
