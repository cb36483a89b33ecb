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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pkgerrors "github.com/tombee/faas-form/pkg/errors"
	"github.com/tombee/faas-form/pkg/form"
)

func TestReadSchemaArg(t *testing.T) {
	const doc = `{"inputs":[{"name":"n","type":"string"}]}`

	path := filepath.Join(t.TempDir(), "schema.json")
	if err := os.WriteFile(path, []byte(`{"x-faas-form-schema":`+doc+`}`), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		value string
		stdin string
	}{
		{"inline", doc, ""},
		{"file with wrapped schema", "@" + path, ""},
		{"stdin", "@-", doc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema, err := ReadSchemaArg("--schema", tt.value, strings.NewReader(tt.stdin))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if schema.Len() != 1 || schema.Inputs()[0].Base().Name != "n" {
				t.Errorf("unexpected schema %+v", schema.Inputs())
			}
		})
	}
}

func TestReadSchemaArg_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := ReadSchemaArg("--schema", "@"+filepath.Join(t.TempDir(), "nope.json"), nil)
		var vErr *pkgerrors.ValidationError
		if !errors.As(err, &vErr) || vErr.Field != "--schema" {
			t.Errorf("expected ValidationError on --schema, got %v", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ReadSchemaArg("--schema", "  ", nil)
		var vErr *pkgerrors.ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})

	t.Run("invalid schema", func(t *testing.T) {
		_, err := ReadSchemaArg("--schema", `{"inputs":[{"name":"n","type":"colour"}]}`, nil)
		var sErr *form.SchemaError
		if !errors.As(err, &sErr) {
			t.Fatalf("expected SchemaError, got %v", err)
		}
		if ExitCode(err) != ExitInvalidSchema {
			t.Errorf("exit code = %d", ExitCode(err))
		}
	})
}
