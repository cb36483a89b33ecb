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

package invoke

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/faas-form/internal/commands/shared"
	"github.com/tombee/faas-form/internal/config"
	"github.com/tombee/faas-form/internal/examples"
	"github.com/tombee/faas-form/internal/faas"
	"github.com/tombee/faas-form/internal/log"
	"github.com/tombee/faas-form/pkg/envelope"
)

func setupProvider(t *testing.T) *faas.LocalProvider {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FAAS_FORM_PROVIDER", "")

	local := faas.NewLocalProvider(log.Discard())
	examples.NewHello(log.Discard()).Register(local)

	restore := shared.SetProviderFactoryForTest(func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (faas.Provider, error) {
		return local, nil
	})
	t.Cleanup(restore)
	return local
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestInvoke_Hello(t *testing.T) {
	setupProvider(t)

	out, err := execute(t, "Ada\n", examples.HelloName)
	require.NoError(t, err)

	assert.Contains(t, out, "Hello! Thanks for trying faas-form.")
	assert.Contains(t, out, "Result:\nHello, Ada!\n")
}

func TestInvoke_NoReinvoke(t *testing.T) {
	setupProvider(t)

	out, err := execute(t, examples.MagicName+"\n", examples.HelloName, "--no-reinvoke")
	require.NoError(t, err)

	assert.Contains(t, out, "Hello, Merlin!")
	assert.NotContains(t, out, "This is the advanced example.")
}

func TestInvoke_LocalSchema(t *testing.T) {
	setupProvider(t)

	schema := `{"inputs":[{"name":"event_type","type":"const","value":"simple"},{"name":"name","type":"string"}]}`
	out, err := execute(t, "Grace\n", examples.HelloName, "--schema", schema)
	require.NoError(t, err)

	assert.NotContains(t, out, "Thanks for trying", "the function's own schema should not be fetched")
	assert.Contains(t, out, "Hello, Grace!")
}

func TestInvoke_InvalidSchemaFlag(t *testing.T) {
	setupProvider(t)

	_, err := execute(t, "", examples.HelloName, "--schema", `{"inputs":[{"name":"x","type":"colour"}]}`)
	require.Error(t, err)
	assert.Equal(t, shared.ExitInvalidSchema, shared.ExitCode(err))
}

func TestInvoke_MissingSchema(t *testing.T) {
	local := setupProvider(t)
	local.Register("silent", "", func(ctx context.Context, event map[string]any) (any, error) {
		return map[string]any{"ok": true}, nil
	})

	_, err := execute(t, "", "silent")
	var missing *envelope.MissingSchemaError
	require.True(t, errors.As(err, &missing), "got %v", err)
	assert.Equal(t, shared.ExitMissingSchema, shared.ExitCode(err))
}

func TestInvoke_UnknownFunction(t *testing.T) {
	setupProvider(t)

	_, err := execute(t, "", "nope")
	var invErr *faas.InvocationError
	require.True(t, errors.As(err, &invErr), "got %v", err)
	assert.Equal(t, shared.ExitExecutionFailed, shared.ExitCode(err))
}

func TestInvoke_Query(t *testing.T) {
	local := setupProvider(t)
	local.Register("report", "", func(ctx context.Context, event map[string]any) (any, error) {
		if envelope.IsSchemaRequest(event) {
			return map[string]any{envelope.SchemaKey: map[string]any{"inputs": []any{}}}, nil
		}
		return map[string]any{"summary": map[string]any{"total": 3}, "rows": []any{1, 2, 3}}, nil
	})

	out, err := execute(t, "", "report", "--query", ".summary")
	require.NoError(t, err)

	assert.Contains(t, out, `"total": 3`)
	assert.NotContains(t, out, "rows")
}

func TestInvoke_InterruptedInput(t *testing.T) {
	setupProvider(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := NewCommand()
	cmd.SetIn(strings.NewReader("Ada\n"))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{examples.HelloName})
	err := cmd.ExecuteContext(ctx)
	assert.Equal(t, shared.ExitInterrupted, shared.ExitCode(err), "got %v", err)
}
