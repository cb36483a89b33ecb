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
	"math"
	"strings"
)

// InputType is the wire type tag of an input.
type InputType string

const (
	// TypeString is a free text input.
	TypeString InputType = "string"

	// TypeSecret is a free text input entered without echo.
	TypeSecret InputType = "secret"

	// TypeNumber is a numeric input.
	TypeNumber InputType = "number"

	// TypeStringList is a list of free text values.
	TypeStringList InputType = "list<string>"

	// TypeConst is a fixed value that is never prompted for.
	TypeConst InputType = "const"

	// TypeBoolean is a y/n input.
	TypeBoolean InputType = "boolean"
)

// ReservedPrefix namespaces envelope keys. Input names may not use it so that
// collected values can never collide with envelope fields.
const ReservedPrefix = "x-faas-form"

// Input is one named, typed value in a Schema. The set of implementations is
// closed: StringInput, SecretInput, NumberInput, StringListInput, ConstInput
// and BooleanInput.
type Input interface {
	json.Marshaler

	// Type returns the wire type tag.
	Type() InputType

	// Base returns the fields shared by every variant.
	Base() *Common

	// Label returns the text displayed before reading a value.
	Label() string

	// IsRequired resolves the required tri-state for this variant.
	IsRequired() bool

	collect(ctx context.Context, s *Session) (value any, ok bool, err error)
	validate() error
}

// Common holds the fields every input variant shares.
type Common struct {
	// Name keys the collected value. Must be non-empty and unique in a schema.
	Name string

	// Help is optional descriptive text. An explicit empty string is kept
	// on the wire.
	Help *string

	// Required is tri-state: nil resolves to the variant default.
	Required *bool
}

// Base returns c. Variants embed Common and inherit this method.
func (c *Common) Base() *Common { return c }

func (c *Common) resolveRequired(def bool) bool {
	if c.Required != nil {
		return *c.Required
	}
	return def
}

func (c *Common) validate() error {
	if c.Name == "" {
		return schemaErrorf("", "name is required")
	}
	if strings.HasPrefix(c.Name, ReservedPrefix) {
		return schemaErrorf(c.Name, "name must not start with %q", ReservedPrefix)
	}
	return nil
}

// Bool returns a pointer to b, for the tri-state fields.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n.
func Int(n int) *int { return &n }

// String returns a pointer to s.
func String(s string) *string { return &s }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// wireInput is the JSON shape shared by all variants. Field order is the
// serialization order.
type wireInput struct {
	Name     string          `json:"name"`
	Type     InputType       `json:"type"`
	Help     *string         `json:"help,omitempty"`
	Required *bool           `json:"required,omitempty"`
	Default  json.RawMessage `json:"default,omitempty"`
	Pattern  *string         `json:"pattern,omitempty"`
	Size     json.RawMessage `json:"size,omitempty"`
	Integer  *bool           `json:"integer,omitempty"`
	Value    json.RawMessage `json:"value,omitempty"`
}

func (c *Common) toWire(t InputType) wireInput {
	return wireInput{
		Name:     c.Name,
		Type:     t,
		Help:     c.Help,
		Required: c.Required,
	}
}

func (w *wireInput) common() Common {
	return Common{Name: w.Name, Help: w.Help, Required: w.Required}
}

func (w *wireInput) hasDefault() bool {
	return isSet(w.Default)
}

// forbidDefault rejects a default on variants that do not support one.
func (w *wireInput) forbidDefault() error {
	if w.hasDefault() {
		return schemaErrorf(w.Name, "default not allowed for type %s", w.Type)
	}
	return nil
}

// size decodes the size field. Any JSON number with no fractional part is
// accepted, so 2 and 2.0 are equivalent.
func (w *wireInput) size() (*int, error) {
	if !isSet(w.Size) {
		return nil, nil
	}
	var f float64
	if err := json.Unmarshal(w.Size, &f); err != nil {
		return nil, &SchemaError{Input: w.Name, Message: "size must be a number", Cause: err}
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return nil, schemaErrorf(w.Name, "size must be a whole number, got %v", f)
	}
	n := int(f)
	return &n, nil
}

func isSet(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s != "" && s != "null"
}

// buildLabel renders "<name> [<type>] <help> (<properties>): ".
func buildLabel(c *Common, t InputType, props []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]", c.Name, t)
	if c.Help != nil && *c.Help != "" {
		b.WriteString(" ")
		b.WriteString(*c.Help)
	}
	if len(props) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(props, ", "))
	}
	b.WriteString(": ")
	return b.String()
}

// baseProperties lists the required flag when it was set explicitly.
func baseProperties(c *Common) []string {
	if c.Required == nil {
		return nil
	}
	return []string{fmt.Sprintf("required=%t", *c.Required)}
}
