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

import "context"

// AnswerKind classifies a single read from the operator.
type AnswerKind int

const (
	// AnswerValue carries text the operator entered. The text may be empty.
	AnswerValue AnswerKind = iota

	// AnswerNoValue means the input stream signalled end-of-input.
	AnswerNoValue

	// AnswerInterrupted means the operator asked to abort the conversation.
	AnswerInterrupted
)

// String returns the kind name.
func (k AnswerKind) String() string {
	switch k {
	case AnswerValue:
		return "value"
	case AnswerNoValue:
		return "no-value"
	case AnswerInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Answer is the three-way result of reading from the operator.
type Answer struct {
	Kind AnswerKind
	Text string
}

// Value returns an answer carrying text.
func Value(text string) Answer {
	return Answer{Kind: AnswerValue, Text: text}
}

// EndOfInput returns the end-of-input answer.
func EndOfInput() Answer {
	return Answer{Kind: AnswerNoValue}
}

// Interrupted returns the interrupt answer.
func Interrupted() Answer {
	return Answer{Kind: AnswerInterrupted}
}

// Reader reads operator answers. Implementations own the terminal: prompt
// rendering, echo suppression and raw keystroke mode.
type Reader interface {
	// ReadLine displays prompt and reads one line of text. When masked is
	// set the entered text must not be echoed.
	ReadLine(ctx context.Context, prompt string, masked bool) (Answer, error)

	// ReadKey displays prompt and reads a single keystroke.
	ReadKey(ctx context.Context, prompt string) (Answer, error)

	// Interactive reports whether an operator is present. A non-interactive
	// reader that reaches end-of-input will never produce more answers.
	Interactive() bool
}
