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

// Package prompt reads operator answers from the terminal and presents the
// interactive function picker.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/tombee/faas-form/pkg/form"
)

// Control bytes seen in raw mode.
const (
	keyInterrupt = 3 // Ctrl-C
	keyEOF       = 4 // Ctrl-D
)

// Terminal operations, replaced in tests.
var (
	makeRaw      = term.MakeRaw
	getState     = term.GetState
	restore      = term.Restore
	readPassword = term.ReadPassword
)

// TerminalReader implements form.Reader on a terminal or a plain stream.
//
// On a terminal, masked lines are read with echo disabled and keystrokes are
// read in raw mode, where Ctrl-C is an interrupt and Ctrl-D is end-of-input.
// On a plain stream every read consumes one line and keystroke reads use the
// first character of the line.
//
// Cancelling the context turns a pending read into an interrupt. The
// terminal state is restored before returning.
type TerminalReader struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
	tty bool
}

// NewTerminalReader reads from in and writes prompts to out. in is treated
// as a terminal when its descriptor is one.
func NewTerminalReader(in *os.File, out io.Writer) *TerminalReader {
	fd := int(in.Fd())
	return newReader(in, out, fd, term.IsTerminal(fd))
}

// NewStreamReader reads answers line by line from a non-terminal stream.
func NewStreamReader(in io.Reader, out io.Writer) *TerminalReader {
	return newReader(in, out, -1, false)
}

func newReader(in io.Reader, out io.Writer, fd int, tty bool) *TerminalReader {
	return &TerminalReader{
		in:  bufio.NewReader(in),
		out: out,
		fd:  fd,
		tty: tty,
	}
}

// Interactive reports whether input comes from a terminal.
func (r *TerminalReader) Interactive() bool {
	return r.tty
}

// ReadLine implements form.Reader.
func (r *TerminalReader) ReadLine(ctx context.Context, prompt string, masked bool) (form.Answer, error) {
	if ctx.Err() != nil {
		return form.Interrupted(), nil
	}
	fmt.Fprint(r.out, prompt)

	if masked && r.tty {
		return r.readMasked(ctx)
	}
	return r.readLine(ctx)
}

// ReadKey implements form.Reader.
func (r *TerminalReader) ReadKey(ctx context.Context, prompt string) (form.Answer, error) {
	if ctx.Err() != nil {
		return form.Interrupted(), nil
	}
	fmt.Fprint(r.out, prompt)

	if !r.tty {
		answer, err := r.readLine(ctx)
		if err != nil || answer.Kind != form.AnswerValue {
			return answer, err
		}
		text := strings.TrimSpace(answer.Text)
		if text != "" {
			text = text[:1]
		}
		return form.Value(text), nil
	}

	r.discardBuffered()
	state, err := makeRaw(r.fd)
	if err != nil {
		return form.Answer{}, fmt.Errorf("enter raw mode: %w", err)
	}
	answer, err := await(ctx, func() (form.Answer, error) {
		b, err := r.in.ReadByte()
		// Bytes pasted along with the keystroke belong to no prompt.
		r.discardBuffered()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return form.EndOfInput(), nil
			}
			return form.Answer{}, err
		}
		switch b {
		case keyInterrupt:
			return form.Interrupted(), nil
		case keyEOF:
			return form.EndOfInput(), nil
		default:
			return form.Value(string(b)), nil
		}
	})
	if rerr := restore(r.fd, state); rerr != nil && err == nil {
		err = fmt.Errorf("restore terminal: %w", rerr)
	}
	if answer.Kind == form.AnswerValue {
		fmt.Fprintln(r.out)
	}
	return answer, err
}

func (r *TerminalReader) readLine(ctx context.Context) (form.Answer, error) {
	return await(ctx, func() (form.Answer, error) {
		line, err := r.in.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return form.Answer{}, err
			}
			if line == "" {
				if r.tty {
					fmt.Fprintln(r.out)
				}
				return form.EndOfInput(), nil
			}
		}
		return form.Value(line), nil
	})
}

func (r *TerminalReader) readMasked(ctx context.Context) (form.Answer, error) {
	// ReadPassword reads the descriptor directly, so typed-ahead text held
	// in the buffer would otherwise surface at the next prompt.
	r.discardBuffered()
	state, err := getState(r.fd)
	if err != nil {
		return form.Answer{}, fmt.Errorf("read terminal state: %w", err)
	}
	answer, err := await(ctx, func() (form.Answer, error) {
		b, err := readPassword(r.fd)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return form.EndOfInput(), nil
			}
			return form.Answer{}, err
		}
		return form.Value(string(b)), nil
	})
	if answer.Kind == form.AnswerInterrupted {
		_ = restore(r.fd, state)
	}
	fmt.Fprintln(r.out)
	return answer, err
}

func (r *TerminalReader) discardBuffered() {
	if n := r.in.Buffered(); n > 0 {
		_, _ = r.in.Discard(n)
	}
}

// await runs read in the background and returns its answer, or an interrupt
// if ctx is cancelled first. A cancelled read is abandoned.
func await(ctx context.Context, read func() (form.Answer, error)) (form.Answer, error) {
	type result struct {
		answer form.Answer
		err    error
	}
	done := make(chan result, 1)
	go func() {
		a, err := read()
		done <- result{a, err}
	}()

	select {
	case <-ctx.Done():
		return form.Interrupted(), nil
	case res := <-done:
		return res.answer, res.err
	}
}

var _ form.Reader = (*TerminalReader)(nil)
