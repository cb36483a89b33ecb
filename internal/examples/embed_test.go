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

package examples

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tombee/faas-form/pkg/form"
)

func TestList(t *testing.T) {
	examples, err := List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}

	found := map[string]bool{}
	for _, ex := range examples {
		found[ex.Name] = true
		if ex.Description == "" {
			t.Errorf("%s example has no description", ex.Name)
		}
	}

	for _, name := range []string{"simple", "advanced"} {
		if !found[name] {
			t.Errorf("%s example not found in list", name)
		}
	}
}

func TestGet(t *testing.T) {
	if _, err := Get("simple"); err != nil {
		t.Errorf("Get() unexpected error: %v", err)
	}
	if _, err := Get("nonexistent"); err == nil {
		t.Error("Get() expected error, got nil")
	}
}

// Every embedded schema must parse and pass the wire format check.
func TestSchemasAreValid(t *testing.T) {
	examples, err := List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}

	for _, ex := range examples {
		t.Run(ex.Name, func(t *testing.T) {
			content, err := Get(ex.Name)
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if err := form.CheckDocument(content); err != nil {
				t.Errorf("CheckDocument() failed: %v", err)
			}
			if _, err := Schema(ex.Name); err != nil {
				t.Errorf("Schema() failed: %v", err)
			}
		})
	}
}

func TestAdvancedCoversEveryType(t *testing.T) {
	schema, err := Schema("advanced")
	if err != nil {
		t.Fatalf("Schema() failed: %v", err)
	}

	seen := map[form.InputType]bool{}
	for _, in := range schema.Inputs() {
		seen[in.Type()] = true
	}
	for _, typ := range form.Types() {
		if !seen[typ] {
			t.Errorf("advanced schema has no %s input", typ)
		}
	}
}

func TestCopyTo(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nested", "simple.json")

	if err := CopyTo("simple", dest); err != nil {
		t.Fatalf("CopyTo() failed: %v", err)
	}

	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("failed to read copied file: %v", err)
	}
	want, _ := Get("simple")
	if string(content) != string(want) {
		t.Error("copied content does not match embedded content")
	}

	if err := CopyTo("nonexistent", dest); err == nil {
		t.Error("CopyTo() expected error for unknown example")
	}
}
