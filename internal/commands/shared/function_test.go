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

package shared

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/tombee/faas-form/internal/config"
	"github.com/tombee/faas-form/internal/faas"
	pkgerrors "github.com/tombee/faas-form/pkg/errors"
	"github.com/tombee/faas-form/pkg/form"
)

func TestResolveFunction(t *testing.T) {
	local := faas.NewLocalProvider(nil)
	noop := func(ctx context.Context, event map[string]any) (any, error) { return nil, nil }
	local.Register("hello", "Says hello", noop)
	local.Register("world", "", noop)
	cfg := config.Default()

	t.Run("argument wins", func(t *testing.T) {
		got, err := ResolveFunction(context.Background(), []string{"arn:aws:lambda:x"}, local, cfg)
		if err != nil || got != "arn:aws:lambda:x" {
			t.Errorf("ResolveFunction() = %q, %v", got, err)
		}
	})

	t.Run("non-interactive requires a name", func(t *testing.T) {
		prev := nonInteractive
		nonInteractive = func() bool { return true }
		defer func() { nonInteractive = prev }()

		_, err := ResolveFunction(context.Background(), nil, local, cfg)
		var valErr *pkgerrors.ValidationError
		if !errors.As(err, &valErr) || valErr.Field != "function" {
			t.Errorf("expected function validation error, got %v", err)
		}
	})

	t.Run("picker receives the listing", func(t *testing.T) {
		var seen map[string]faas.FunctionInfo
		restore := SetFunctionPickerForTest(func(ctx context.Context, funcs map[string]faas.FunctionInfo) (string, error) {
			seen = funcs
			return funcs["world"].ID, nil
		})
		defer restore()

		got, err := ResolveFunction(context.Background(), nil, local, cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "world" {
			t.Errorf("ResolveFunction() = %q, want world", got)
		}
		if len(seen) != 2 {
			t.Errorf("picker saw %d functions, want 2", len(seen))
		}
	})

	t.Run("picker interrupt", func(t *testing.T) {
		restore := SetFunctionPickerForTest(func(ctx context.Context, funcs map[string]faas.FunctionInfo) (string, error) {
			return "", form.ErrInterrupted
		})
		defer restore()

		_, err := ResolveFunction(context.Background(), []string{""}, local, cfg)
		if ExitCode(err) != ExitInterrupted {
			t.Errorf("expected interrupt, got %v", err)
		}
	})
}

func TestNewReader_Stream(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("answer\n"))

	r := NewReader(cmd)
	if r.Interactive() {
		t.Error("a non-file input should not be interactive")
	}
	got, err := r.ReadLine(context.Background(), "", false)
	if err != nil || got != form.Value("answer") {
		t.Errorf("ReadLine() = %+v, %v", got, err)
	}
}
