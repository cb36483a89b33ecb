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

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tombee/faas-form/pkg/form"
)

// ParseSchemaResponse extracts the schema from a schema-request response.
// A response without a schema body yields *MissingSchemaError.
func ParseSchemaResponse(payload []byte) (*form.Schema, error) {
	obj, err := decodeObject(payload)
	if err != nil || obj == nil {
		return nil, &MissingSchemaError{}
	}
	raw, ok := obj[SchemaKey]
	if !ok || isNull(raw) {
		return nil, &MissingSchemaError{}
	}
	return form.ParseSchema(raw)
}

// ParseSchemaDocument reads a schema supplied out of band. Both a bare
// schema body and a full schema response are accepted.
func ParseSchemaDocument(data []byte) (*form.Schema, error) {
	obj, err := decodeObject(data)
	if err == nil && obj != nil {
		if raw, ok := obj[SchemaKey]; ok {
			return form.ParseSchema(raw)
		}
	}
	return form.ParseSchema(data)
}

// InvokeResponse is an interpreted invoke-request response.
type InvokeResponse struct {
	// Body is the decoded response. Non-object responses are kept as-is.
	Body any

	// Result is the display string under ResultKey. Non-string results are
	// rendered as compact JSON.
	Result    string
	HasResult bool

	// Reinvoke reports whether the function asked for another round.
	Reinvoke bool

	schema json.RawMessage
}

// ParseInvokeResponse interprets the payload returned for an invoke request.
// Payloads that are not JSON objects carry no result and never reinvoke.
func ParseInvokeResponse(payload []byte) (*InvokeResponse, error) {
	body, err := decodeAny(payload)
	if err != nil {
		return nil, &ProtocolError{Message: "response is not valid JSON", Cause: err}
	}

	resp := &InvokeResponse{Body: body}
	obj, ok := body.(map[string]any)
	if !ok {
		return resp, nil
	}

	if result, ok := obj[ResultKey]; ok && result != nil {
		resp.HasResult = true
		if s, ok := result.(string); ok {
			resp.Result = s
		} else {
			b, err := json.Marshal(result)
			if err != nil {
				return nil, &ProtocolError{Message: "unreadable result", Cause: err}
			}
			resp.Result = string(b)
		}
	}

	if kind, ok := obj[PayloadTypeKey].(string); ok && PayloadType(kind) == PayloadReinvoke {
		resp.Reinvoke = true
		raw, err := rawMember(payload, SchemaKey)
		if err != nil {
			return nil, &ProtocolError{Message: "unreadable reinvoke schema", Cause: err}
		}
		resp.schema = raw
	}
	return resp, nil
}

// NextSchema returns the schema for the next round of a reinvoke response.
// A reinvoke response without a schema yields *ProtocolError.
func (r *InvokeResponse) NextSchema() (*form.Schema, error) {
	if !r.Reinvoke {
		return nil, &ProtocolError{Message: "response does not request reinvocation"}
	}
	if r.schema == nil || isNull(r.schema) {
		return nil, &ProtocolError{Message: fmt.Sprintf("reinvoke response is missing %s", SchemaKey)}
	}
	return form.ParseSchema(r.schema)
}

// Display returns the body with envelope keys removed.
func (r *InvokeResponse) Display() any {
	if obj, ok := r.Body.(map[string]any); ok {
		return Strip(obj)
	}
	return r.Body
}

func decodeAny(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func rawMember(data []byte, key string) (json.RawMessage, error) {
	obj, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	return obj[key], nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}
