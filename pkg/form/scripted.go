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
	"fmt"
)

// ScriptedReader implements Reader with pre-scripted answers for testing.
// It reports itself as interactive, so rejected answers are re-prompted.
type ScriptedReader struct {
	answers []Answer
	index   int
	prompts []string
}

// NewScriptedReader creates a reader that replays answers in order.
func NewScriptedReader(answers ...Answer) *ScriptedReader {
	return &ScriptedReader{answers: answers}
}

// Lines creates a reader whose answers are the given lines of text.
func Lines(lines ...string) *ScriptedReader {
	answers := make([]Answer, len(lines))
	for i, l := range lines {
		answers[i] = Value(l)
	}
	return NewScriptedReader(answers...)
}

// ReadLine returns the next scripted answer.
func (r *ScriptedReader) ReadLine(ctx context.Context, prompt string, masked bool) (Answer, error) {
	return r.next(prompt)
}

// ReadKey returns the next scripted answer.
func (r *ScriptedReader) ReadKey(ctx context.Context, prompt string) (Answer, error) {
	return r.next(prompt)
}

// Interactive always returns true.
func (r *ScriptedReader) Interactive() bool {
	return true
}

// Prompts returns every prompt displayed so far.
func (r *ScriptedReader) Prompts() []string {
	return r.prompts
}

// Remaining returns the number of unread answers.
func (r *ScriptedReader) Remaining() int {
	return len(r.answers) - r.index
}

func (r *ScriptedReader) next(prompt string) (Answer, error) {
	r.prompts = append(r.prompts, prompt)
	if r.index >= len(r.answers) {
		return Answer{}, fmt.Errorf("no scripted answer for prompt %q", prompt)
	}
	a := r.answers[r.index]
	r.index++
	return a, nil
}
