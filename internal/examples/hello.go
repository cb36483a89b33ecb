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
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tombee/faas-form/internal/faas"
	"github.com/tombee/faas-form/pkg/envelope"
)

// HelloName is the name the demonstration function is registered under.
const HelloName = "hello"

// MagicName switches the greeting into the advanced schema.
const MagicName = "Merlin"

// ErrInvalidEvent is returned for requests the function does not recognise.
var ErrInvalidEvent = errors.New("input event is invalid")

// Hello is the demonstration function. It serves the simple schema, greets
// the caller, and reinvokes into the advanced schema for MagicName.
type Hello struct {
	logger *slog.Logger
}

// NewHello creates the demonstration function.
func NewHello(logger *slog.Logger) *Hello {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hello{logger: logger.With("component", "example")}
}

// Register adds the function to a local provider.
func (h *Hello) Register(p *faas.LocalProvider) {
	p.Register(HelloName, "Says hello. Try the name "+MagicName, h.Handle)
}

// Handle implements faas.Handler.
func (h *Hello) Handle(ctx context.Context, event map[string]any) (any, error) {
	h.logger.DebugContext(ctx, "event received", "keys", len(event))

	if envelope.IsSchemaRequest(event) {
		schema, err := Schema("simple")
		if err != nil {
			return nil, err
		}
		return envelope.SetSchemaResponse(nil, schema), nil
	}

	switch event["event_type"] {
	case "simple":
		return h.handleSimple(event)
	case "advanced":
		return h.handleAdvanced(event)
	default:
		return nil, ErrInvalidEvent
	}
}

func (h *Hello) handleSimple(event map[string]any) (any, error) {
	name, _ := event["name"].(string)
	result := fmt.Sprintf("Hello, %s!", name)
	response := envelope.SetResult(nil, result)

	if name == MagicName {
		schema, err := Schema("advanced")
		if err != nil {
			return nil, err
		}
		envelope.SetReinvokeResponse(response, schema)
	}
	return response, nil
}

func (h *Hello) handleAdvanced(event map[string]any) (any, error) {
	response := map[string]any{
		"received_event": event,
		"foo":            "bar",
	}
	if wants, _ := event["result"].(bool); wants {
		envelope.SetResult(response, "This is a short summary from the function, instead of the response payload.")
	}
	if again, _ := event["again"].(bool); again {
		schema, err := Schema("advanced")
		if err != nil {
			return nil, err
		}
		envelope.SetReinvokeResponse(response, schema)
	}
	return response, nil
}
