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
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// closedReader is a non-interactive reader whose stream has ended.
type closedReader struct{ reads int }

func (r *closedReader) ReadLine(ctx context.Context, prompt string, masked bool) (Answer, error) {
	r.reads++
	return EndOfInput(), nil
}

func (r *closedReader) ReadKey(ctx context.Context, prompt string) (Answer, error) {
	r.reads++
	return EndOfInput(), nil
}

func (r *closedReader) Interactive() bool { return false }

// maskRecorder records the masked flag of each ReadLine call.
type maskRecorder struct {
	*ScriptedReader
	masked []bool
}

func (r *maskRecorder) ReadLine(ctx context.Context, prompt string, masked bool) (Answer, error) {
	r.masked = append(r.masked, masked)
	return r.ScriptedReader.ReadLine(ctx, prompt, masked)
}

func collect(t *testing.T, in Input, reader Reader) (any, bool, string) {
	t.Helper()
	var out bytes.Buffer
	value, ok, err := NewSession(reader, &out).Collect(context.Background(), in)
	require.NoError(t, err)
	return value, ok, out.String()
}

func TestCollect_String(t *testing.T) {
	tests := []struct {
		name      string
		input     *StringInput
		answers   []Answer
		wantValue any
		wantOK    bool
		wantReads int
	}{
		{
			name:      "value accepted",
			input:     &StringInput{Common: Common{Name: "s"}},
			answers:   []Answer{Value("FOO")},
			wantValue: "FOO",
			wantOK:    true,
			wantReads: 1,
		},
		{
			name:      "pattern rejects then accepts",
			input:     &StringInput{Common: Common{Name: "s"}, Pattern: String("^[a-z]+$")},
			answers:   []Answer{Value("AB"), Value("ab")},
			wantValue: "ab",
			wantOK:    true,
			wantReads: 2,
		},
		{
			name:      "required without default re-prompts",
			input:     &StringInput{Common: Common{Name: "s", Required: Bool(true)}},
			answers:   []Answer{Value(""), EndOfInput(), Value("foo")},
			wantValue: "foo",
			wantOK:    true,
			wantReads: 3,
		},
		{
			name:      "required with default returns default",
			input:     &StringInput{Common: Common{Name: "s", Required: Bool(true)}, Default: String("dflt")},
			answers:   []Answer{Value("")},
			wantValue: "dflt",
			wantOK:    true,
			wantReads: 1,
		},
		{
			name:      "end of input uses default",
			input:     &StringInput{Common: Common{Name: "s"}, Default: String("dflt")},
			answers:   []Answer{EndOfInput()},
			wantValue: "dflt",
			wantOK:    true,
			wantReads: 1,
		},
		{
			name:      "not required accepts no value",
			input:     &StringInput{Common: Common{Name: "s", Required: Bool(false)}},
			answers:   []Answer{EndOfInput()},
			wantValue: nil,
			wantOK:    false,
			wantReads: 1,
		},
		{
			name:      "pattern not applied to empty answer",
			input:     &StringInput{Common: Common{Name: "s", Required: Bool(false)}, Pattern: String("^[a-z]+$")},
			answers:   []Answer{Value("")},
			wantValue: nil,
			wantOK:    false,
			wantReads: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewScriptedReader(tt.answers...)
			value, ok, _ := collect(t, tt.input, reader)
			assert.Equal(t, tt.wantValue, value)
			assert.Equal(t, tt.wantOK, ok)
			assert.Len(t, reader.Prompts(), tt.wantReads)
		})
	}
}

func TestCollect_RequiredMessage(t *testing.T) {
	_, _, out := collect(t, &StringInput{Common: Common{Name: "s"}}, Lines("", "x"))
	assert.Equal(t, MsgRequired+"\n", out)
}

func TestCollect_Secret(t *testing.T) {
	reader := &maskRecorder{ScriptedReader: Lines("", "hunter2")}
	value, ok, out := collect(t, &SecretInput{Common: Common{Name: "pw"}}, reader)

	assert.Equal(t, "hunter2", value)
	assert.True(t, ok)
	assert.Equal(t, []bool{true, true}, reader.masked)
	assert.NotContains(t, out, "hunter2")
}

func TestCollect_Number(t *testing.T) {
	tests := []struct {
		name      string
		input     *NumberInput
		lines     []string
		wantValue any
		wantMsgs  []string
	}{
		{
			name:      "float",
			input:     &NumberInput{Common: Common{Name: "n"}},
			lines:     []string{"2.5"},
			wantValue: 2.5,
		},
		{
			name:      "integer accepts whole number",
			input:     &NumberInput{Common: Common{Name: "n"}, Integer: Bool(true)},
			lines:     []string{"2"},
			wantValue: 2.0,
		},
		{
			name:      "integer rejects fraction",
			input:     &NumberInput{Common: Common{Name: "n"}, Integer: Bool(true)},
			lines:     []string{"2.5", "3"},
			wantValue: 3.0,
			wantMsgs:  []string{MsgNotInteger},
		},
		{
			name:      "non numeric rejected",
			input:     &NumberInput{Common: Common{Name: "n"}},
			lines:     []string{"abc", "NaN", " 7 "},
			wantValue: 7.0,
			wantMsgs:  []string{MsgInvalidNumber, MsgInvalidNumber},
		},
		{
			name:      "default",
			input:     &NumberInput{Common: Common{Name: "n"}, Default: Float(1.5)},
			lines:     []string{""},
			wantValue: 1.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok, out := collect(t, tt.input, Lines(tt.lines...))
			assert.True(t, ok)
			assert.Equal(t, tt.wantValue, value)

			var msgs []string
			for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
				if line != "" {
					msgs = append(msgs, line)
				}
			}
			assert.Equal(t, tt.wantMsgs, msgs)
		})
	}
}

func TestCollect_StringList(t *testing.T) {
	t.Run("size reached ends without extra prompt", func(t *testing.T) {
		reader := Lines("a", "b")
		value, ok, _ := collect(t, &StringListInput{Common: Common{Name: "l"}, Size: Int(2)}, reader)
		assert.True(t, ok)
		assert.Equal(t, []string{"a", "b"}, value)
		assert.Len(t, reader.Prompts(), 2)
	})

	t.Run("end of input before size re-prompts", func(t *testing.T) {
		reader := NewScriptedReader(Value("a"), EndOfInput(), Value("b"))
		value, _, out := collect(t, &StringListInput{Common: Common{Name: "l"}, Size: Int(2)}, reader)
		assert.Equal(t, []string{"a", "b"}, value)
		assert.Len(t, reader.Prompts(), 3)
		assert.Contains(t, out, "Not enough values! Minimum size: 2")
	})

	t.Run("unbounded ends on empty line", func(t *testing.T) {
		value, _, _ := collect(t, &StringListInput{Common: Common{Name: "l"}}, Lines("a", "b", "c", ""))
		assert.Equal(t, []string{"a", "b", "c"}, value)
	})

	t.Run("unbounded may be empty", func(t *testing.T) {
		value, ok, _ := collect(t, &StringListInput{Common: Common{Name: "l"}}, NewScriptedReader(EndOfInput()))
		assert.True(t, ok)
		assert.Equal(t, []string{}, value)
	})

	t.Run("size zero never prompts", func(t *testing.T) {
		reader := Lines()
		value, _, _ := collect(t, &StringListInput{Common: Common{Name: "l"}, Size: Int(0)}, reader)
		assert.Equal(t, []string{}, value)
		assert.Empty(t, reader.Prompts())
	})

	t.Run("pattern applies per element", func(t *testing.T) {
		value, _, out := collect(t, &StringListInput{Common: Common{Name: "l"}, Pattern: String("^[0-9]+$")}, Lines("1", "x", "2", ""))
		assert.Equal(t, []string{"1", "2"}, value)
		assert.Contains(t, out, MsgInvalidInput)
	})
}

func TestCollect_Boolean(t *testing.T) {
	tests := []struct {
		name    string
		answers []Answer
		want    bool
	}{
		{"yes", []Answer{Value("y")}, true},
		{"no upper case", []Answer{Value("N")}, false},
		{"retry on other key", []Answer{Value("q"), EndOfInput(), Value("y")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok, _ := collect(t, &BooleanInput{Common: Common{Name: "b"}}, NewScriptedReader(tt.answers...))
			assert.True(t, ok)
			assert.Equal(t, tt.want, value)
		})
	}
}

func TestCollect_Const(t *testing.T) {
	reader := Lines()
	value, ok, _ := collect(t, &ConstInput{Common: Common{Name: "c"}, Value: "simple"}, reader)
	assert.True(t, ok)
	assert.Equal(t, "simple", value)
	assert.Empty(t, reader.Prompts())
}

func TestCollect_Interrupted(t *testing.T) {
	inputs := []Input{
		&StringInput{Common: Common{Name: "s"}},
		&SecretInput{Common: Common{Name: "p"}},
		&NumberInput{Common: Common{Name: "n"}},
		&StringListInput{Common: Common{Name: "l"}},
		&BooleanInput{Common: Common{Name: "b"}},
	}

	for _, in := range inputs {
		t.Run(string(in.Type()), func(t *testing.T) {
			_, _, err := NewSession(NewScriptedReader(Interrupted()), &bytes.Buffer{}).Collect(context.Background(), in)
			assert.ErrorIs(t, err, ErrInterrupted)
		})
	}
}

func TestCollect_ClosedNonInteractiveStream(t *testing.T) {
	inputs := []Input{
		&StringInput{Common: Common{Name: "s"}},
		&StringListInput{Common: Common{Name: "l"}, Size: Int(1)},
		&BooleanInput{Common: Common{Name: "b"}},
	}

	for _, in := range inputs {
		t.Run(string(in.Type()), func(t *testing.T) {
			reader := &closedReader{}
			_, _, err := NewSession(reader, &bytes.Buffer{}).Collect(context.Background(), in)

			var closedErr *InputClosedError
			require.True(t, errors.As(err, &closedErr), "expected InputClosedError, got %v", err)
			assert.Equal(t, in.Base().Name, closedErr.Input)
			assert.Equal(t, 1, reader.reads)
		})
	}

	t.Run("optional input still ends with no value", func(t *testing.T) {
		_, ok, err := NewSession(&closedReader{}, &bytes.Buffer{}).Collect(context.Background(),
			&StringInput{Common: Common{Name: "s", Required: Bool(false)}})
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCollect_ReaderError(t *testing.T) {
	_, _, err := NewSession(Lines(), &bytes.Buffer{}).Collect(context.Background(), &StringInput{Common: Common{Name: "s"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scripted answer")
}
