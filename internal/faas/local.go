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

package faas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/tombee/faas-form/internal/log"
)

// Handler is an in-process function. It receives the decoded request
// object and returns a JSON-encodable response.
type Handler func(ctx context.Context, event map[string]any) (any, error)

type localFunction struct {
	handler     Handler
	description string
	tagged      bool
}

// LocalProvider runs registered handlers in-process. Registered functions
// count as carrying the environment marker; Tag and Untag toggle the tag
// marker. Handler errors are reported the way Lambda reports an unhandled
// function error.
type LocalProvider struct {
	mu        sync.RWMutex
	functions map[string]*localFunction
	logger    *slog.Logger
}

// NewLocalProvider creates an empty local provider.
func NewLocalProvider(logger *slog.Logger) *LocalProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalProvider{
		functions: make(map[string]*localFunction),
		logger:    log.WithProvider(logger, "local"),
	}
}

// Register adds a tagged function.
func (p *LocalProvider) Register(name, description string, h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.functions[name] = &localFunction{handler: h, description: description, tagged: true}
}

// Name implements Provider.
func (p *LocalProvider) Name() string { return "local" }

// Invoke runs the handler registered under id.
func (p *LocalProvider) Invoke(ctx context.Context, id string, payload []byte, opts InvokeOptions) (*InvocationResponse, error) {
	p.mu.RLock()
	fn, ok := p.functions[id]
	p.mu.RUnlock()
	if !ok {
		return nil, &InvocationError{Function: id, StatusCode: 404, Cause: ErrNotFound}
	}

	var resp *InvocationResponse
	inv := &log.Invocation{Function: id, Provider: p.Name(), Payload: payloadKind(payload)}
	err := log.Timed(ctx, p.logger, inv, func() (int, error) {
		var err error
		resp, err = p.run(ctx, fn, payload)
		if err != nil {
			return 0, err
		}
		return resp.StatusCode, nil
	})
	if err != nil {
		return nil, &InvocationError{Function: id, Cause: err}
	}
	return resp, nil
}

func (p *LocalProvider) run(ctx context.Context, fn *localFunction, payload []byte) (*InvocationResponse, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var event map[string]any
	if err := dec.Decode(&event); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}

	result, herr := fn.handler(ctx, event)
	if herr != nil {
		body, err := json.Marshal(map[string]string{
			"errorMessage": herr.Error(),
			"errorType":    fmt.Sprintf("%T", herr),
		})
		if err != nil {
			return nil, err
		}
		return &InvocationResponse{StatusCode: 200, Payload: body, FunctionError: "Unhandled", Raw: herr}, nil
	}

	body, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return &InvocationResponse{StatusCode: 200, Payload: body, Raw: result}, nil
}

// List returns tagged functions with opts.Tags and all registered functions
// with opts.Env.
func (p *LocalProvider) List(ctx context.Context, opts ListOptions) (map[string]FunctionInfo, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	funcs := make(map[string]FunctionInfo)
	for name, fn := range p.functions {
		if opts.Env || (opts.Tags && fn.tagged) {
			funcs[name] = FunctionInfo{ID: name, Name: name, Description: fn.description}
		}
	}
	return funcs, nil
}

// Names returns the registered function names in order.
func (p *LocalProvider) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, 0, len(p.functions))
	for name := range p.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tag sets the tag marker and description.
func (p *LocalProvider) Tag(ctx context.Context, id, description string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	fn, ok := p.functions[id]
	if !ok {
		return &ProviderError{Provider: p.Name(), Op: "tag", Cause: ErrNotFound}
	}
	fn.tagged = true
	fn.description = description
	return nil
}

// Untag clears the tag marker.
func (p *LocalProvider) Untag(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	fn, ok := p.functions[id]
	if !ok {
		return &ProviderError{Provider: p.Name(), Op: "untag", Cause: ErrNotFound}
	}
	fn.tagged = false
	return nil
}
