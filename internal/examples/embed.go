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

// Package examples holds the built-in demonstration function and the
// schemas it serves.
package examples

import (
	"embed"
	"os"
	"path"
	"path/filepath"
	"strings"

	fferrors "github.com/tombee/faas-form/pkg/errors"
	"github.com/tombee/faas-form/pkg/form"
)

// Embed example schemas into the binary for offline availability
//
//go:embed schemas/*.json
var embeddedFS embed.FS

const schemaDir = "schemas"

// Example represents metadata about an embedded example schema
type Example struct {
	Name        string
	Description string
	FilePath    string
}

// List returns all available embedded example schemas
func List() ([]Example, error) {
	entries, err := embeddedFS.ReadDir(schemaDir)
	if err != nil {
		return nil, fferrors.Wrap(err, "failed to read embedded examples")
	}

	var examples []Example
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		examples = append(examples, Example{
			Name:        name,
			Description: getDescription(name),
			FilePath:    path.Join(schemaDir, entry.Name()),
		})
	}

	return examples, nil
}

// Get returns the content of a specific example schema by name
func Get(name string) ([]byte, error) {
	content, err := embeddedFS.ReadFile(path.Join(schemaDir, name+".json"))
	if err != nil {
		return nil, fferrors.Wrapf(err, "example %q not found", name)
	}
	return content, nil
}

// Schema returns a parsed example schema.
func Schema(name string) (*form.Schema, error) {
	content, err := Get(name)
	if err != nil {
		return nil, err
	}
	return form.ParseSchema(content)
}

// CopyTo writes an example schema to the filesystem at destPath
func CopyTo(name string, destPath string) error {
	content, err := Get(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fferrors.Wrap(err, "failed to create destination directory")
	}

	if err := os.WriteFile(destPath, content, 0644); err != nil {
		return fferrors.Wrap(err, "failed to write example file")
	}

	return nil
}

// getDescription returns a human-readable description for each example
func getDescription(name string) string {
	descriptions := map[string]string{
		"simple":   "Greeting form served on the first round",
		"advanced": "Every input type, served after greeting Merlin",
	}

	if desc, ok := descriptions[name]; ok {
		return desc
	}
	return "Example schema"
}
