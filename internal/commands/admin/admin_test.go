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

package admin

import (
	"bytes"
	"context"
	"encoding/json"
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
	"github.com/tombee/faas-form/pkg/form"
)

// identityProvider adds a caller identity to a local provider.
type identityProvider struct {
	*faas.LocalProvider
	identity *faas.Identity
	err      error
}

func (p *identityProvider) Whoami(ctx context.Context) (*faas.Identity, error) {
	return p.identity, p.err
}

func useProvider(t *testing.T, p faas.Provider) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FAAS_FORM_PROVIDER", "")
	restore := shared.SetProviderFactoryForTest(func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (faas.Provider, error) {
		return p, nil
	})
	t.Cleanup(restore)
}

func newLocal() *faas.LocalProvider {
	local := faas.NewLocalProvider(log.Discard())
	examples.NewHello(log.Discard()).Register(local)
	return local
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func listed(t *testing.T, local *faas.LocalProvider) map[string]faas.FunctionInfo {
	t.Helper()
	funcs, err := local.List(context.Background(), faas.ListOptions{Tags: true})
	require.NoError(t, err)
	return funcs
}

func TestTagAndUntag(t *testing.T) {
	local := newLocal()
	useProvider(t, local)

	out, err := execute(t, "untag", examples.HelloName, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Untagged hello")
	assert.NotContains(t, listed(t, local), examples.HelloName)

	out, err = execute(t, "tag", examples.HelloName, "-d", "Greeter")
	require.NoError(t, err)
	assert.Contains(t, out, "Tagged hello")
	assert.Equal(t, "Greeter", listed(t, local)[examples.HelloName].Description)
}

func TestTag_UnknownFunction(t *testing.T) {
	useProvider(t, newLocal())

	_, err := execute(t, "tag", "nope")
	require.Error(t, err)
	assert.Equal(t, shared.ExitProviderError, shared.ExitCode(err))
	assert.True(t, errors.Is(err, faas.ErrNotFound))
}

func TestTag_ChecksCredentials(t *testing.T) {
	local := newLocal()
	denied := &faas.ProviderError{Provider: "lambda", Op: "validate credentials", Cause: errors.New("expired token")}
	useProvider(t, &identityProvider{LocalProvider: local, err: denied})

	_, err := execute(t, "tag", examples.HelloName, "-d", "changed")
	require.ErrorIs(t, err, denied)
	assert.NotEqual(t, "changed", listed(t, local)[examples.HelloName].Description, "nothing should change without valid credentials")
}

func TestUntag_Confirmation(t *testing.T) {
	prevConfirm, prevCheck := confirm, nonInteractive
	t.Cleanup(func() { confirm, nonInteractive = prevConfirm, prevCheck })

	t.Run("non-interactive requires --yes", func(t *testing.T) {
		local := newLocal()
		useProvider(t, local)
		nonInteractive = func() bool { return true }

		_, err := execute(t, "untag", examples.HelloName)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "confirmation required")
		assert.Contains(t, listed(t, local), examples.HelloName)
	})

	t.Run("declined", func(t *testing.T) {
		local := newLocal()
		useProvider(t, local)
		nonInteractive = func() bool { return false }
		var asked string
		confirm = func(title string) (bool, error) {
			asked = title
			return false, nil
		}

		out, err := execute(t, "untag", examples.HelloName)
		require.NoError(t, err)
		assert.Contains(t, asked, examples.HelloName)
		assert.Contains(t, out, "Cancelled")
		assert.Contains(t, listed(t, local), examples.HelloName)
	})

	t.Run("aborted", func(t *testing.T) {
		useProvider(t, newLocal())
		nonInteractive = func() bool { return false }
		confirm = func(string) (bool, error) { return false, form.ErrInterrupted }

		_, err := execute(t, "untag", examples.HelloName)
		assert.Equal(t, shared.ExitInterrupted, shared.ExitCode(err))
	})

	t.Run("accepted", func(t *testing.T) {
		local := newLocal()
		useProvider(t, local)
		nonInteractive = func() bool { return false }
		confirm = func(string) (bool, error) { return true, nil }

		_, err := execute(t, "untag", examples.HelloName)
		require.NoError(t, err)
		assert.NotContains(t, listed(t, local), examples.HelloName)
	})
}

func TestShow(t *testing.T) {
	useProvider(t, newLocal())

	out, err := execute(t, "show", examples.HelloName)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Hello! Thanks for trying faas-form.", doc["instructions"])
	assert.Len(t, doc["inputs"], 2)
}

func TestWhoami(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		useProvider(t, &identityProvider{
			LocalProvider: newLocal(),
			identity:      &faas.Identity{Account: "123456789012", ARN: "arn:aws:iam::123456789012:user/ada", UserID: "AIDA"},
		})

		out, err := execute(t, "whoami")
		require.NoError(t, err)
		assert.Contains(t, out, "123456789012")
		assert.Contains(t, out, "user/ada")
	})

	t.Run("json", func(t *testing.T) {
		useProvider(t, &identityProvider{
			LocalProvider: newLocal(),
			identity:      &faas.Identity{Account: "1", ARN: "arn", UserID: "u"},
		})
		shared.SetJSONForTest(true)
		defer shared.SetJSONForTest(false)

		out, err := execute(t, "whoami")
		require.NoError(t, err)
		assert.JSONEq(t, `{"account":"1","arn":"arn","user_id":"u"}`, out)
	})

	t.Run("unsupported", func(t *testing.T) {
		useProvider(t, newLocal())

		_, err := execute(t, "whoami")
		require.Error(t, err)
		assert.True(t, errors.Is(err, faas.ErrUnsupported))
		assert.True(t, strings.Contains(err.Error(), "local"))
	})
}
