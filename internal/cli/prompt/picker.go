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

package prompt

import (
	"context"
	"errors"
	"sort"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/tombee/faas-form/internal/faas"
	"github.com/tombee/faas-form/pkg/form"
)

// ErrNoFunctions is returned by the picker when there is nothing to pick.
var ErrNoFunctions = errors.New("no compatible functions found")

// Picker chooses a function interactively.
type Picker struct {
	opts []survey.AskOpt
}

// NewPicker creates a picker on the process terminal.
func NewPicker(opts ...survey.AskOpt) *Picker {
	return &Picker{opts: opts}
}

// SelectFunction asks the operator to choose one of funcs and returns its
// ID. An interrupt is reported as form.ErrInterrupted.
func (p *Picker) SelectFunction(ctx context.Context, funcs map[string]faas.FunctionInfo) (string, error) {
	if len(funcs) == 0 {
		return "", ErrNoFunctions
	}

	names := SortedNames(funcs)
	sel := &survey.Select{
		Message: "Function:",
		Options: names,
		Description: func(value string, index int) string {
			return funcs[value].Description
		},
	}

	var choice string
	if err := survey.AskOne(sel, &choice, p.opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", form.ErrInterrupted
		}
		return "", err
	}
	if ctx.Err() != nil {
		return "", form.ErrInterrupted
	}
	return funcs[choice].ID, nil
}

// SortedNames returns the keys of funcs in order.
func SortedNames(funcs map[string]faas.FunctionInfo) []string {
	names := make([]string, 0, len(funcs))
	for name := range funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
