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
)

// Values maps input names to collected values, remembering insertion order
// so that encoded documents follow the schema's input order.
type Values struct {
	keys []string
	m    map[string]any
}

// NewValues returns an empty Values.
func NewValues() *Values {
	return &Values{m: make(map[string]any)}
}

// Set stores value under name. Re-setting a name keeps its original position.
func (v *Values) Set(name string, value any) {
	if _, exists := v.m[name]; !exists {
		v.keys = append(v.keys, name)
	}
	v.m[name] = value
}

// Get returns the value stored under name.
func (v *Values) Get(name string) (any, bool) {
	value, ok := v.m[name]
	return value, ok
}

// Keys returns names in insertion order.
func (v *Values) Keys() []string {
	return append([]string(nil), v.keys...)
}

// Len returns the number of stored values.
func (v *Values) Len() int {
	return len(v.keys)
}

// Map returns a copy of the values as a plain map.
func (v *Values) Map() map[string]any {
	out := make(map[string]any, len(v.m))
	for k, val := range v.m {
		out[k] = val
	}
	return out
}

// MarshalJSON encodes the values as an object in insertion order.
func (v *Values) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := v.writeMembers(&buf, false); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// AppendMembers writes the values as object members (without braces) after
// existing members in buf. Used to flatten values into an envelope.
func (v *Values) AppendMembers(buf *bytes.Buffer) error {
	return v.writeMembers(buf, true)
}

func (v *Values) writeMembers(buf *bytes.Buffer, leadingComma bool) error {
	for i, k := range v.keys {
		if i > 0 || leadingComma {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return err
		}
		val, err := json.Marshal(v.m[k])
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	return nil
}
