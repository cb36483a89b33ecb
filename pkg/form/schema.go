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
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Schema is an ordered set of inputs plus optional instructions. It is
// immutable once constructed.
type Schema struct {
	instructions *string
	inputs       []Input
}

// NewSchema builds a schema from inputs, validating each one.
func NewSchema(instructions string, inputs ...Input) (*Schema, error) {
	for _, in := range inputs {
		if in == nil {
			return nil, schemaErrorf("", "nil input")
		}
		if err := in.validate(); err != nil {
			return nil, err
		}
	}
	s := &Schema{inputs: append([]Input(nil), inputs...)}
	if instructions != "" {
		s.instructions = &instructions
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error. Intended for schemas
// declared at package level by function authors.
func MustSchema(instructions string, inputs ...Input) *Schema {
	s, err := NewSchema(instructions, inputs...)
	if err != nil {
		panic(err)
	}
	return s
}

// Instructions returns the text shown once before collection.
func (s *Schema) Instructions() string {
	if s.instructions == nil {
		return ""
	}
	return *s.instructions
}

// Inputs returns the inputs in declared order.
func (s *Schema) Inputs() []Input {
	return append([]Input(nil), s.inputs...)
}

// Len returns the number of inputs.
func (s *Schema) Len() int {
	return len(s.inputs)
}

type wireSchema struct {
	Instructions *string           `json:"instructions,omitempty"`
	Inputs       []json.RawMessage `json:"inputs"`
}

// ParseSchema decodes a schema body: {"instructions": ..., "inputs": [...]}.
func ParseSchema(data []byte) (*Schema, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &SchemaError{Message: "schema is not a JSON object", Cause: err}
	}
	if fields == nil {
		return nil, schemaErrorf("", "schema is null")
	}
	if !isSet(fields["inputs"]) {
		return nil, schemaErrorf("", "missing inputs")
	}

	var w wireSchema
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &SchemaError{Message: "malformed schema", Cause: err}
	}

	inputs := make([]Input, 0, len(w.Inputs))
	for idx, raw := range w.Inputs {
		if !isSet(raw) {
			return nil, schemaErrorf(strconv.Itoa(idx), "input is null")
		}
		in, err := ParseInput(raw)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", idx, err)
		}
		inputs = append(inputs, in)
	}

	return &Schema{instructions: w.Instructions, inputs: inputs}, nil
}

// MarshalJSON encodes the schema body.
func (s *Schema) MarshalJSON() ([]byte, error) {
	out := struct {
		Instructions *string `json:"instructions,omitempty"`
		Inputs       []Input `json:"inputs"`
	}{
		Instructions: s.instructions,
		Inputs:       s.inputs,
	}
	if out.Inputs == nil {
		out.Inputs = []Input{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a schema body, so a Schema can be embedded in other
// JSON documents.
func (s *Schema) UnmarshalJSON(data []byte) error {
	parsed, err := ParseSchema(data)
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}

// CollectValues displays the instructions, then collects a value for each
// input in declared order. Inputs that end with no value are left out of the
// result.
func (s *Schema) CollectValues(ctx context.Context, sess *Session) (*Values, error) {
	if text := s.Instructions(); text != "" {
		sess.println(text)
	}
	values := NewValues()
	for _, in := range s.inputs {
		v, ok, err := sess.Collect(ctx, in)
		if err != nil {
			return nil, err
		}
		if ok {
			values.Set(in.Base().Name, v)
		}
	}
	return values, nil
}
