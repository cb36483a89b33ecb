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
	"io"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Messages printed when an answer is rejected. Rejections are always
// recovered locally by prompting again.
const (
	MsgInvalidInput  = "Invalid input!"
	MsgInvalidNumber = "Invalid input! Ctrl-D to enter no value"
	MsgNotInteger    = "Invalid input! Value must be an integer"
	MsgRequired      = "Field is required!"
	MsgNotEnough     = "Not enough values! Minimum size: %d"
	MsgYesNo         = "Please press y or n"
)

// Session collects values from an operator through a Reader.
type Session struct {
	reader Reader
	out    io.Writer
	logger *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger used for collection diagnostics.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession creates a session reading from r and writing messages to out.
func NewSession(r Reader, out io.Writer, opts ...SessionOption) *Session {
	s := &Session{
		reader: r,
		out:    out,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Collect elicits one value for in. ok is false when the input ended with no
// value and none is required. ErrInterrupted is returned when the operator
// aborts.
func (s *Session) Collect(ctx context.Context, in Input) (value any, ok bool, err error) {
	if err := in.validate(); err != nil {
		return nil, false, err
	}
	s.logger.Debug("collecting input", "input", in.Base().Name, "type", in.Type())
	return in.collect(ctx, s)
}

func (s *Session) println(msg string) {
	fmt.Fprintln(s.out, msg)
}

// parser converts non-empty text into a value, or returns the rejection
// message to print before prompting again.
type parser func(text string) (value any, rejection string)

func textParser(re *regexp.Regexp) parser {
	return func(text string) (any, string) {
		if re != nil && !re.MatchString(text) {
			return nil, MsgInvalidInput
		}
		return text, ""
	}
}

func numberParser(integer bool) parser {
	return func(text string) (any, string) {
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, MsgInvalidNumber
		}
		if integer && f != math.Trunc(f) {
			return nil, MsgNotInteger
		}
		return f, ""
	}
}

// readText reads one line. eof reports an end-of-input answer; the text is
// empty in that case.
func (s *Session) readText(ctx context.Context, prompt string, masked bool) (text string, eof bool, err error) {
	answer, err := s.reader.ReadLine(ctx, prompt, masked)
	if err != nil {
		return "", false, err
	}
	switch answer.Kind {
	case AnswerInterrupted:
		return "", false, ErrInterrupted
	case AnswerNoValue:
		return "", true, nil
	default:
		return answer.Text, false, nil
	}
}

// retryAfterEOF fails when the reader cannot produce another answer.
func (s *Session) retryAfterEOF(name string, eof bool) error {
	if eof && !s.reader.Interactive() {
		return &InputClosedError{Input: name}
	}
	return nil
}

// collectScalar runs the string/secret/number algorithm: reject and retry
// invalid text, substitute def on no value, then enforce required.
func (s *Session) collectScalar(ctx context.Context, in Input, masked bool, def any, parse parser) (any, bool, error) {
	name := in.Base().Name
	prompt := in.Label()
	for {
		text, eof, err := s.readText(ctx, prompt, masked)
		if err != nil {
			return nil, false, err
		}

		if text != "" {
			value, rejection := parse(text)
			if rejection != "" {
				s.println(rejection)
				continue
			}
			return value, true, nil
		}

		if def != nil {
			return def, true, nil
		}
		if in.IsRequired() {
			s.println(MsgRequired)
			if err := s.retryAfterEOF(name, eof); err != nil {
				return nil, false, err
			}
			continue
		}
		return nil, false, nil
	}
}

func (s *Session) collectList(ctx context.Context, in *StringListInput) ([]string, error) {
	prompt := in.Label()
	minSize, maxSize := in.MinimumSize(), in.MaximumSize()
	values := make([]string, 0)
	for {
		if maxSize >= 0 && len(values) >= maxSize {
			return values, nil
		}

		text, eof, err := s.readText(ctx, prompt, false)
		if err != nil {
			return nil, err
		}

		if text == "" {
			if len(values) >= minSize {
				return values, nil
			}
			s.println(fmt.Sprintf(MsgNotEnough, minSize))
			if err := s.retryAfterEOF(in.Name, eof); err != nil {
				return nil, err
			}
			continue
		}

		if in.re != nil && !in.re.MatchString(text) {
			s.println(MsgInvalidInput)
			continue
		}
		values = append(values, text)
	}
}

func (s *Session) collectBool(ctx context.Context, in *BooleanInput) (bool, error) {
	prompt := in.Label()
	for {
		answer, err := s.reader.ReadKey(ctx, prompt)
		if err != nil {
			return false, err
		}
		switch answer.Kind {
		case AnswerInterrupted:
			return false, ErrInterrupted
		case AnswerValue:
			switch strings.ToLower(answer.Text) {
			case "y":
				return true, nil
			case "n":
				return false, nil
			}
		}
		s.println(MsgYesNo)
		if err := s.retryAfterEOF(in.Name, answer.Kind == AnswerNoValue); err != nil {
			return false, err
		}
	}
}
