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
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"golang.org/x/term"

	"github.com/tombee/faas-form/internal/faas"
	"github.com/tombee/faas-form/pkg/form"
)

func TestStreamReader_ReadLine(t *testing.T) {
	var out bytes.Buffer
	r := NewStreamReader(strings.NewReader("first\r\n\nlast"), &out)
	ctx := context.Background()

	want := []form.Answer{
		form.Value("first"),
		form.Value(""),
		form.Value("last"),
		form.EndOfInput(),
		form.EndOfInput(),
	}
	for i, w := range want {
		got, err := r.ReadLine(ctx, "p: ", i == 1)
		if err != nil {
			t.Fatalf("read %d: unexpected error: %v", i, err)
		}
		if got != w {
			t.Errorf("read %d = %+v, want %+v", i, got, w)
		}
	}

	if got := out.String(); got != strings.Repeat("p: ", len(want)) {
		t.Errorf("prompts = %q", got)
	}
	if r.Interactive() {
		t.Error("stream reader should not be interactive")
	}
}

func TestStreamReader_ReadKey(t *testing.T) {
	r := NewStreamReader(strings.NewReader("yes\n\n  N\n"), io.Discard)
	ctx := context.Background()

	want := []form.Answer{form.Value("y"), form.Value(""), form.Value("N"), form.EndOfInput()}
	for i, w := range want {
		got, err := r.ReadKey(ctx, "")
		if err != nil {
			t.Fatalf("read %d: unexpected error: %v", i, err)
		}
		if got != w {
			t.Errorf("read %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestStreamReader_CancelledContext(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	r := NewStreamReader(pr, io.Discard)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan form.Answer, 1)
	go func() {
		a, _ := r.ReadLine(ctx, "", false)
		done <- a
	}()
	cancel()

	if got := <-done; got.Kind != form.AnswerInterrupted {
		t.Errorf("answer = %+v, want interrupted", got)
	}

	got, err := r.ReadKey(ctx, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != form.AnswerInterrupted {
		t.Errorf("answer = %+v, want interrupted", got)
	}
}

func TestStreamReader_DrivesSession(t *testing.T) {
	schema := form.MustSchema("",
		&form.StringInput{Common: form.Common{Name: "name"}},
		&form.BooleanInput{Common: form.Common{Name: "ok"}},
	)
	r := NewStreamReader(strings.NewReader("Ada\nmaybe\ny\n"), io.Discard)
	var out bytes.Buffer

	values, err := schema.CollectValues(context.Background(), form.NewSession(r, &out))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := values.Map(); got["name"] != "Ada" || got["ok"] != true {
		t.Errorf("values = %v", got)
	}
	if !strings.Contains(out.String(), form.MsgYesNo) {
		t.Errorf("expected yes/no rejection, got %q", out.String())
	}
}

// fakeTerminal replaces the raw and masked terminal calls. Masked reads
// return each of passwords in turn.
func fakeTerminal(t *testing.T, passwords ...string) {
	t.Helper()
	origRaw, origState, origRestore, origPassword := makeRaw, getState, restore, readPassword
	t.Cleanup(func() {
		makeRaw, getState, restore, readPassword = origRaw, origState, origRestore, origPassword
	})

	makeRaw = func(int) (*term.State, error) { return &term.State{}, nil }
	getState = func(int) (*term.State, error) { return &term.State{}, nil }
	restore = func(int, *term.State) error { return nil }
	readPassword = func(int) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, io.EOF
		}
		p := passwords[0]
		passwords = passwords[1:]
		return []byte(p), nil
	}
}

func TestTerminalReader_MaskedReadDiscardsTypeAhead(t *testing.T) {
	fakeTerminal(t, "hunter2")
	r := newReader(strings.NewReader("alice\ntyped-ahead\n"), io.Discard, 0, true)
	ctx := context.Background()

	got, err := r.ReadLine(ctx, "user: ", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != form.Value("alice") {
		t.Errorf("user = %+v", got)
	}

	got, err = r.ReadLine(ctx, "password: ", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != form.Value("hunter2") {
		t.Errorf("password = %+v, want the masked read", got)
	}

	got, err = r.ReadLine(ctx, "next: ", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != form.AnswerNoValue {
		t.Errorf("next = %+v, typed-ahead text should have been discarded", got)
	}
}

func TestTerminalReader_KeystrokeDiscardsPastedBytes(t *testing.T) {
	fakeTerminal(t)
	var out bytes.Buffer
	r := newReader(strings.NewReader("yes please\n"), &out, 0, true)
	ctx := context.Background()

	got, err := r.ReadKey(ctx, "ok? ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != form.Value("y") {
		t.Errorf("key = %+v, want y", got)
	}

	got, err = r.ReadLine(ctx, "name: ", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != form.AnswerNoValue {
		t.Errorf("line = %+v, pasted bytes should not reach the next prompt", got)
	}
}

func TestTerminalReader_KeystrokeControls(t *testing.T) {
	fakeTerminal(t)
	ctx := context.Background()

	tests := []struct {
		input string
		want  form.AnswerKind
	}{
		{"\x03", form.AnswerInterrupted},
		{"\x04", form.AnswerNoValue},
		{"", form.AnswerNoValue},
	}
	for _, tt := range tests {
		r := newReader(strings.NewReader(tt.input), io.Discard, 0, true)
		got, err := r.ReadKey(ctx, "")
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.input, err)
		}
		if got.Kind != tt.want {
			t.Errorf("%q: kind = %v, want %v", tt.input, got.Kind, tt.want)
		}
	}
}

func TestSortedNames(t *testing.T) {
	funcs := map[string]faas.FunctionInfo{
		"b": {ID: "arn:b"},
		"a": {ID: "arn:a"},
		"c": {ID: "arn:c"},
	}
	got := SortedNames(funcs)
	if strings.Join(got, ",") != "a,b,c" {
		t.Errorf("SortedNames() = %v", got)
	}
}

func TestPicker_NoFunctions(t *testing.T) {
	_, err := NewPicker().SelectFunction(context.Background(), nil)
	if err != ErrNoFunctions {
		t.Errorf("error = %v, want ErrNoFunctions", err)
	}
}
