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
	"io"
	"os"
	"strings"

	"github.com/tombee/faas-form/pkg/envelope"
	pkgerrors "github.com/tombee/faas-form/pkg/errors"
	"github.com/tombee/faas-form/pkg/form"
)

// ReadSchemaArg reads a schema given on the command line: inline JSON, or
// @path to read a file, or @- to read stdin. Both a bare schema and one
// wrapped in the schema key are accepted.
func ReadSchemaArg(flag, value string, stdin io.Reader) (*form.Schema, error) {
	data, err := ReadDocumentArg(flag, value, stdin)
	if err != nil {
		return nil, err
	}
	return envelope.ParseSchemaDocument(data)
}

// ReadDocumentArg returns the bytes named by an inline-or-@file argument.
func ReadDocumentArg(flag, value string, stdin io.Reader) ([]byte, error) {
	if strings.TrimSpace(value) == "" {
		return nil, &pkgerrors.ValidationError{Field: flag, Message: "empty document", Hint: "Pass inline JSON, @file or @-"}
	}
	if !strings.HasPrefix(value, "@") {
		return []byte(value), nil
	}

	path := value[1:]
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, &pkgerrors.ValidationError{
			Field:   flag,
			Message: err.Error(),
			Hint:    "Check that the file exists and is readable",
		}
	}
	return data, nil
}
