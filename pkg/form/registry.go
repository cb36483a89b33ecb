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
	"encoding/json"
	"sort"
)

type parseFunc func(w *wireInput) (Input, error)

// registry maps wire type tags to constructors. Adding a variant means adding
// an Input implementation and an entry here.
var registry = map[InputType]parseFunc{
	TypeString:     parseString,
	TypeSecret:     parseSecret,
	TypeNumber:     parseNumber,
	TypeStringList: parseStringList,
	TypeConst:      parseConst,
	TypeBoolean:    parseBoolean,
}

// Types returns the registered type tags in sorted order.
func Types() []InputType {
	types := make([]InputType, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// ParseInput decodes one wire input object, dispatching on its type tag.
func ParseInput(data []byte) (Input, error) {
	var w wireInput
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &SchemaError{Message: "input is not a valid object", Cause: err}
	}
	if w.Name == "" {
		return nil, schemaErrorf("", "name is required")
	}
	parse, ok := registry[w.Type]
	if !ok {
		return nil, schemaErrorf(w.Name, "invalid input type: %q", w.Type)
	}
	in, err := parse(&w)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	return in, nil
}
