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
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// InputDocument describes one wire input for JSON Schema generation.
type InputDocument struct {
	Name     string `json:"name" jsonschema:"minLength=1"`
	Type     string `json:"type" jsonschema:"enum=string,enum=secret,enum=number,enum=list<string>,enum=const,enum=boolean"`
	Help     string `json:"help,omitempty"`
	Required bool   `json:"required,omitempty"`
	Default  any    `json:"default,omitempty"`
	Pattern  string `json:"pattern,omitempty" jsonschema:"format=regex"`
	Size     int    `json:"size,omitempty" jsonschema:"minimum=0"`
	Integer  bool   `json:"integer,omitempty"`
	Value    any    `json:"value,omitempty"`
}

// SchemaDocument describes a wire schema body for JSON Schema generation.
type SchemaDocument struct {
	Instructions string          `json:"instructions,omitempty"`
	Inputs       []InputDocument `json:"inputs"`
}

// metaSchemaURL names the generated document when compiling it.
const metaSchemaURL = "https://faas-form.dev/schema.json"

var (
	metaOnce     sync.Once
	metaJSON     []byte
	metaCompiled *jsonschema.Schema
	metaErr      error
)

func loadMetaSchema() {
	reflector := invopop.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	doc := reflector.Reflect(&SchemaDocument{})
	doc.Title = "faas-form schema"
	doc.Description = "Inputs a faas-form function requests from the caller"

	metaJSON, metaErr = json.MarshalIndent(doc, "", "  ")
	if metaErr != nil {
		return
	}
	metaCompiled, metaErr = jsonschema.CompileString(metaSchemaURL, string(metaJSON))
}

// MetaSchema returns the JSON Schema document describing a wire schema body.
func MetaSchema() ([]byte, error) {
	metaOnce.Do(loadMetaSchema)
	if metaErr != nil {
		return nil, fmt.Errorf("generate meta schema: %w", metaErr)
	}
	return append([]byte(nil), metaJSON...), nil
}

// CheckDocument validates the structure of a schema body against the meta
// schema. It reports every structural violation at once, whereas ParseSchema
// stops at the first problem.
func CheckDocument(data []byte) error {
	metaOnce.Do(loadMetaSchema)
	if metaErr != nil {
		return fmt.Errorf("generate meta schema: %w", metaErr)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return &SchemaError{Message: "schema is not valid JSON", Cause: err}
	}
	if err := metaCompiled.Validate(doc); err != nil {
		return &SchemaError{Message: "schema does not match the wire format", Cause: err}
	}
	return nil
}
