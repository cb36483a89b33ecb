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

package demo

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/faas-form/internal/commands/shared"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDemo_Greeting(t *testing.T) {
	out, err := execute(t, "Ada\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello! Thanks for trying faas-form.")
	assert.Contains(t, out, "Hello, Ada!")
}

func TestDemo_Advanced(t *testing.T) {
	answers := strings.Join([]string{
		"Merlin",
		"value",   // required
		"",        // not_required
		"Q", "q", // lowercase_only, first answer rejected
		"",        // with_default
		"hunter2", // shhh
		"1.5",     // num
		"3",       // num_int
		"a", "",   // strings
		"x", "y",  // strings_with_size
		"y",       // result
		"n",       // again
	}, "\n") + "\n"

	out, err := execute(t, answers)
	require.NoError(t, err)

	assert.Contains(t, out, "Hello, Merlin!")
	assert.Contains(t, out, "This is the advanced example.")
	assert.Contains(t, out, "Invalid input!")
	assert.Contains(t, out, "This is a short summary from the function")
}

func TestDemo_NoReinvoke(t *testing.T) {
	out, err := execute(t, "Merlin\n", "--no-reinvoke")
	require.NoError(t, err)
	assert.NotContains(t, out, "This is the advanced example.")
}

func TestDemo_Interrupted(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := NewCommand()
	cmd.SetIn(strings.NewReader("Ada\n"))
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.ExecuteContext(ctx)
	assert.Equal(t, shared.ExitInterrupted, shared.ExitCode(err))
}

func TestSchemas_List(t *testing.T) {
	out, err := execute(t, "", "schemas")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "advanced")
	assert.Contains(t, out, "simple")
}

func TestSchemas_Print(t *testing.T) {
	out, err := execute(t, "", "schemas", "simple")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Hello! Thanks for trying faas-form.", doc["instructions"])

	_, err = execute(t, "", "schemas", "nope")
	assert.Error(t, err)
}

func TestSchemas_CopyTo(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "", "schemas", "advanced", "--copy-to", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Copied advanced")

	data, err := os.ReadFile(filepath.Join(dir, "advanced.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "strings_with_size")
}
