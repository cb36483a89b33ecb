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

package envelope

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/faas-form/pkg/form"
)

func TestRequest_Marshal(t *testing.T) {
	t.Run("schema request", func(t *testing.T) {
		got, err := json.Marshal(NewSchemaRequest())
		require.NoError(t, err)
		assert.Equal(t, `{"x-faas-form-payload":"schema"}`, string(got))
	})

	t.Run("invoke request flattens values in order", func(t *testing.T) {
		values := form.NewValues()
		values.Set("name", "Merlin")
		values.Set("again", true)
		values.Set("nums", []string{"a"})

		got, err := json.Marshal(NewInvokeRequest(values))
		require.NoError(t, err)
		assert.Equal(t, `{"x-faas-form-payload":"invoke","name":"Merlin","again":true,"nums":["a"]}`, string(got))
	})

	t.Run("invoke request without values", func(t *testing.T) {
		got, err := json.Marshal(NewInvokeRequest(form.NewValues()))
		require.NoError(t, err)
		assert.Equal(t, `{"x-faas-form-payload":"invoke"}`, string(got))
	})

	t.Run("reserved value name rejected", func(t *testing.T) {
		values := form.NewValues()
		values.Set("x-faas-form-result", "x")
		_, err := json.Marshal(NewInvokeRequest(values))
		assert.Error(t, err)
	})
}

func TestStrip(t *testing.T) {
	in := map[string]any{
		"x-faas-form-payload": "reinvoke",
		"x-faas-form-schema":  map[string]any{},
		"x-faas-form-result":  "hi",
		"keep":                1,
	}
	assert.Equal(t, map[string]any{"keep": 1}, Strip(in))
	assert.Len(t, in, 4)
}

func TestParseSchemaResponse(t *testing.T) {
	s, err := ParseSchemaResponse([]byte(`{"x-faas-form-schema":{"instructions":"hi","inputs":[{"name":"name","type":"string"}]}}`))
	require.NoError(t, err)
	assert.Equal(t, "hi", s.Instructions())
	assert.Equal(t, 1, s.Len())

	for _, payload := range []string{`{}`, `{"x-faas-form-schema":null}`, `null`, `"text"`, `[1]`} {
		t.Run("missing "+payload, func(t *testing.T) {
			_, err := ParseSchemaResponse([]byte(payload))
			var missing *MissingSchemaError
			assert.True(t, errors.As(err, &missing), "got %v", err)
		})
	}

	t.Run("invalid schema", func(t *testing.T) {
		_, err := ParseSchemaResponse([]byte(`{"x-faas-form-schema":{"instructions":"x"}}`))
		var schemaErr *form.SchemaError
		assert.True(t, errors.As(err, &schemaErr))
	})
}

func TestParseSchemaDocument(t *testing.T) {
	bare := `{"inputs":[{"name":"a","type":"boolean"}]}`
	wrapped := `{"x-faas-form-schema":` + bare + `}`

	for _, doc := range []string{bare, wrapped} {
		s, err := ParseSchemaDocument([]byte(doc))
		require.NoError(t, err)
		assert.Equal(t, form.TypeBoolean, s.Inputs()[0].Type())
	}
}

func TestParseInvokeResponse(t *testing.T) {
	t.Run("result string", func(t *testing.T) {
		resp, err := ParseInvokeResponse([]byte(`{"x-faas-form-result":"Hello, Merlin","extra":1}`))
		require.NoError(t, err)
		assert.True(t, resp.HasResult)
		assert.Equal(t, "Hello, Merlin", resp.Result)
		assert.False(t, resp.Reinvoke)
		assert.Equal(t, map[string]any{"extra": json.Number("1")}, resp.Display())
	})

	t.Run("non string result", func(t *testing.T) {
		resp, err := ParseInvokeResponse([]byte(`{"x-faas-form-result":{"a":[1,2]}}`))
		require.NoError(t, err)
		assert.Equal(t, `{"a":[1,2]}`, resp.Result)
	})

	t.Run("no result", func(t *testing.T) {
		resp, err := ParseInvokeResponse([]byte(`{"status":"ok"}`))
		require.NoError(t, err)
		assert.False(t, resp.HasResult)
	})

	t.Run("non object body", func(t *testing.T) {
		resp, err := ParseInvokeResponse([]byte(`"done"`))
		require.NoError(t, err)
		assert.False(t, resp.HasResult)
		assert.False(t, resp.Reinvoke)
		assert.Equal(t, "done", resp.Display())
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseInvokeResponse([]byte(`{`))
		var protoErr *ProtocolError
		assert.True(t, errors.As(err, &protoErr))
	})

	t.Run("reinvoke with schema", func(t *testing.T) {
		resp, err := ParseInvokeResponse([]byte(`{"x-faas-form-payload":"reinvoke","x-faas-form-schema":{"inputs":[{"name":"n","type":"number"}]}}`))
		require.NoError(t, err)
		require.True(t, resp.Reinvoke)

		next, err := resp.NextSchema()
		require.NoError(t, err)
		assert.Equal(t, form.TypeNumber, next.Inputs()[0].Type())
	})

	t.Run("reinvoke without schema", func(t *testing.T) {
		resp, err := ParseInvokeResponse([]byte(`{"x-faas-form-payload":"reinvoke"}`))
		require.NoError(t, err)
		require.True(t, resp.Reinvoke)

		_, err = resp.NextSchema()
		var protoErr *ProtocolError
		assert.True(t, errors.As(err, &protoErr))
	})

	t.Run("other payload types do not reinvoke", func(t *testing.T) {
		resp, err := ParseInvokeResponse([]byte(`{"x-faas-form-payload":"invoke","x-faas-form-schema":{"inputs":[]}}`))
		require.NoError(t, err)
		assert.False(t, resp.Reinvoke)
	})
}

func TestFunctionHelpers(t *testing.T) {
	assert.True(t, IsSchemaRequest(map[string]any{PayloadTypeKey: "schema"}))
	assert.False(t, IsSchemaRequest(map[string]any{PayloadTypeKey: "invoke"}))
	assert.True(t, IsInvokeRequest(map[string]any{PayloadTypeKey: "invoke", "name": "x"}))
	assert.False(t, IsInvokeRequest(map[string]any{}))

	schema := form.MustSchema("next", &form.StringInput{Common: form.Common{Name: "a"}})

	t.Run("schema response parses back", func(t *testing.T) {
		payload, err := json.Marshal(SetSchemaResponse(nil, schema))
		require.NoError(t, err)
		s, err := ParseSchemaResponse(payload)
		require.NoError(t, err)
		assert.Equal(t, "next", s.Instructions())
	})

	t.Run("reinvoke response parses back", func(t *testing.T) {
		payload, err := json.Marshal(SetReinvokeResponse(SetResult(nil, "again"), schema))
		require.NoError(t, err)

		resp, err := ParseInvokeResponse(payload)
		require.NoError(t, err)
		assert.Equal(t, "again", resp.Result)
		require.True(t, resp.Reinvoke)
		next, err := resp.NextSchema()
		require.NoError(t, err)
		assert.Equal(t, 1, next.Len())
	})
}
