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
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

// StringInput collects free text, optionally constrained by a pattern.
type StringInput struct {
	Common

	// Default is substituted when no value is entered.
	Default *string

	// Pattern is a regular expression every entered value must match.
	Pattern *string

	re *regexp.Regexp
}

func (i *StringInput) Type() InputType  { return TypeString }
func (i *StringInput) IsRequired() bool { return i.resolveRequired(true) }

func (i *StringInput) Label() string {
	props := baseProperties(&i.Common)
	if i.Default != nil {
		props = append(props, fmt.Sprintf("default=%s", *i.Default))
	}
	props = appendPattern(props, i.Pattern)
	return buildLabel(&i.Common, i.Type(), props)
}

func (i *StringInput) MarshalJSON() ([]byte, error) {
	w := i.toWire(i.Type())
	if i.Default != nil {
		raw, err := json.Marshal(*i.Default)
		if err != nil {
			return nil, fmt.Errorf("string %s: %w", i.Name, err)
		}
		w.Default = raw
	}
	w.Pattern = i.Pattern
	return json.Marshal(w)
}

func (i *StringInput) validate() error {
	if err := i.Common.validate(); err != nil {
		return err
	}
	re, err := compilePattern(i.Name, i.Pattern)
	if err != nil {
		return err
	}
	i.re = re
	return nil
}

func (i *StringInput) collect(ctx context.Context, s *Session) (any, bool, error) {
	var def any
	if i.Default != nil {
		def = *i.Default
	}
	return s.collectScalar(ctx, i, false, def, textParser(i.re))
}

func parseString(w *wireInput) (Input, error) {
	in := &StringInput{Common: w.common(), Pattern: w.Pattern}
	if w.hasDefault() {
		var def string
		if err := json.Unmarshal(w.Default, &def); err != nil {
			return nil, &SchemaError{Input: w.Name, Message: "default must be a string", Cause: err}
		}
		in.Default = &def
	}
	return in, nil
}

// SecretInput collects free text without echoing it. It has no default.
type SecretInput struct {
	Common

	// Pattern is a regular expression the entered value must match.
	Pattern *string

	re *regexp.Regexp
}

func (i *SecretInput) Type() InputType  { return TypeSecret }
func (i *SecretInput) IsRequired() bool { return i.resolveRequired(true) }

func (i *SecretInput) Label() string {
	props := baseProperties(&i.Common)
	props = appendPattern(props, i.Pattern)
	return buildLabel(&i.Common, i.Type(), props)
}

func (i *SecretInput) MarshalJSON() ([]byte, error) {
	w := i.toWire(i.Type())
	w.Pattern = i.Pattern
	return json.Marshal(w)
}

func (i *SecretInput) validate() error {
	if err := i.Common.validate(); err != nil {
		return err
	}
	re, err := compilePattern(i.Name, i.Pattern)
	if err != nil {
		return err
	}
	i.re = re
	return nil
}

func (i *SecretInput) collect(ctx context.Context, s *Session) (any, bool, error) {
	return s.collectScalar(ctx, i, true, nil, textParser(i.re))
}

func parseSecret(w *wireInput) (Input, error) {
	if err := w.forbidDefault(); err != nil {
		return nil, err
	}
	return &SecretInput{Common: w.common(), Pattern: w.Pattern}, nil
}

// NumberInput collects a float64, or a whole number when Integer is set.
type NumberInput struct {
	Common

	// Default is substituted when no value is entered.
	Default *float64

	// Integer demands a value without a fractional part. Tri-state on the
	// wire so an explicit false survives a round trip.
	Integer *bool
}

func (i *NumberInput) Type() InputType  { return TypeNumber }
func (i *NumberInput) IsRequired() bool { return i.resolveRequired(true) }

func (i *NumberInput) integer() bool {
	return i.Integer != nil && *i.Integer
}

func (i *NumberInput) Label() string {
	props := baseProperties(&i.Common)
	if i.Default != nil {
		props = append(props, fmt.Sprintf("default=%s", strconv.FormatFloat(*i.Default, 'g', -1, 64)))
	}
	if i.integer() {
		props = append(props, "integer=true")
	}
	return buildLabel(&i.Common, i.Type(), props)
}

func (i *NumberInput) MarshalJSON() ([]byte, error) {
	w := i.toWire(i.Type())
	if i.Default != nil {
		raw, err := json.Marshal(*i.Default)
		if err != nil {
			return nil, fmt.Errorf("number %s: %w", i.Name, err)
		}
		w.Default = raw
	}
	w.Integer = i.Integer
	return json.Marshal(w)
}

func (i *NumberInput) collect(ctx context.Context, s *Session) (any, bool, error) {
	var def any
	if i.Default != nil {
		def = *i.Default
	}
	return s.collectScalar(ctx, i, false, def, numberParser(i.integer()))
}

func parseNumber(w *wireInput) (Input, error) {
	in := &NumberInput{Common: w.common(), Integer: w.Integer}
	if w.hasDefault() {
		var def float64
		if err := json.Unmarshal(w.Default, &def); err != nil {
			return nil, &SchemaError{Input: w.Name, Message: "default must be a number", Cause: err}
		}
		in.Default = &def
	}
	return in, nil
}

// StringListInput collects a sequence of strings. Without Size the list is
// unbounded and may be empty; with Size exactly that many values are taken.
type StringListInput struct {
	Common

	// Pattern is a regular expression every element must match.
	Pattern *string

	// Size is the exact element count, when set.
	Size *int

	re *regexp.Regexp
}

func (i *StringListInput) Type() InputType  { return TypeStringList }
func (i *StringListInput) IsRequired() bool { return i.resolveRequired(true) }

// MinimumSize is the number of elements needed before the list may end.
func (i *StringListInput) MinimumSize() int {
	if i.Size == nil {
		return 0
	}
	return *i.Size
}

// MaximumSize is the element count that ends the list automatically, or -1
// when the list is unbounded.
func (i *StringListInput) MaximumSize() int {
	if i.Size == nil {
		return -1
	}
	return *i.Size
}

func (i *StringListInput) Label() string {
	props := baseProperties(&i.Common)
	props = appendPattern(props, i.Pattern)
	if i.Size != nil {
		props = append(props, fmt.Sprintf("size=%d", *i.Size))
	}
	return buildLabel(&i.Common, i.Type(), props)
}

func (i *StringListInput) MarshalJSON() ([]byte, error) {
	w := i.toWire(i.Type())
	w.Pattern = i.Pattern
	if i.Size != nil {
		w.Size = json.RawMessage(strconv.Itoa(*i.Size))
	}
	return json.Marshal(w)
}

func (i *StringListInput) validate() error {
	if err := i.Common.validate(); err != nil {
		return err
	}
	if i.Size != nil && *i.Size < 0 {
		return schemaErrorf(i.Name, "size must not be negative, got %d", *i.Size)
	}
	re, err := compilePattern(i.Name, i.Pattern)
	if err != nil {
		return err
	}
	i.re = re
	return nil
}

func (i *StringListInput) collect(ctx context.Context, s *Session) (any, bool, error) {
	values, err := s.collectList(ctx, i)
	if err != nil {
		return nil, false, err
	}
	return values, true, nil
}

func parseStringList(w *wireInput) (Input, error) {
	if err := w.forbidDefault(); err != nil {
		return nil, err
	}
	size, err := w.size()
	if err != nil {
		return nil, err
	}
	return &StringListInput{Common: w.common(), Pattern: w.Pattern, Size: size}, nil
}

// ConstInput always yields Value without prompting.
type ConstInput struct {
	Common

	// Value is any JSON value.
	Value any
}

func (i *ConstInput) Type() InputType  { return TypeConst }
func (i *ConstInput) IsRequired() bool { return false }

func (i *ConstInput) Label() string {
	return buildLabel(&i.Common, i.Type(), []string{fmt.Sprintf("value=%v", i.Value)})
}

func (i *ConstInput) MarshalJSON() ([]byte, error) {
	w := i.toWire(i.Type())
	if i.Value != nil {
		raw, err := json.Marshal(i.Value)
		if err != nil {
			return nil, fmt.Errorf("const %s: %w", i.Name, err)
		}
		w.Value = raw
	}
	return json.Marshal(w)
}

func (i *ConstInput) collect(ctx context.Context, s *Session) (any, bool, error) {
	return i.Value, true, nil
}

func parseConst(w *wireInput) (Input, error) {
	if err := w.forbidDefault(); err != nil {
		return nil, err
	}
	in := &ConstInput{Common: w.common()}
	if isSet(w.Value) {
		dec := json.NewDecoder(bytes.NewReader(w.Value))
		dec.UseNumber()
		if err := dec.Decode(&in.Value); err != nil {
			return nil, &SchemaError{Input: w.Name, Message: "invalid value", Cause: err}
		}
	}
	return in, nil
}

// BooleanInput collects a single y/n keystroke. It has no default and is
// never subject to the required check.
type BooleanInput struct {
	Common
}

func (i *BooleanInput) Type() InputType  { return TypeBoolean }
func (i *BooleanInput) IsRequired() bool { return false }

func (i *BooleanInput) Label() string {
	return buildLabel(&i.Common, i.Type(), []string{"y/n"})
}

func (i *BooleanInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.toWire(i.Type()))
}

func (i *BooleanInput) collect(ctx context.Context, s *Session) (any, bool, error) {
	v, err := s.collectBool(ctx, i)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func parseBoolean(w *wireInput) (Input, error) {
	if err := w.forbidDefault(); err != nil {
		return nil, err
	}
	return &BooleanInput{Common: w.common()}, nil
}

func appendPattern(props []string, pattern *string) []string {
	if pattern == nil || *pattern == "" {
		return props
	}
	return append(props, fmt.Sprintf("pattern=%s", *pattern))
}

func compilePattern(name string, pattern *string) (*regexp.Regexp, error) {
	if pattern == nil || *pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(*pattern)
	if err != nil {
		return nil, &SchemaError{Input: name, Message: fmt.Sprintf("invalid pattern %q", *pattern), Cause: err}
	}
	return re, nil
}
