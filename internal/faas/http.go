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
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/tombee/faas-form/internal/httpclient"
	"github.com/tombee/faas-form/internal/log"
)

// maxResponseBytes bounds the size of a function response body.
const maxResponseBytes = 6 << 20

// HTTPFunction is a function endpoint known to the HTTP provider.
type HTTPFunction struct {
	URL         string
	Description string
}

// HTTPConfig configures the HTTP provider.
type HTTPConfig struct {
	// BaseURL is joined with the function name for functions not listed in
	// Functions.
	BaseURL string

	// Functions maps names to explicit endpoints. These are the functions
	// returned by List.
	Functions map[string]HTTPFunction

	// Client configures timeouts and extra headers.
	Client httpclient.Config
}

// HTTPProvider invokes functions exposed as HTTPS endpoints accepting a
// JSON POST, such as Lambda function URLs or Cloud Run services.
type HTTPProvider struct {
	cfg    HTTPConfig
	client *http.Client
	logger *slog.Logger
}

// NewHTTPProvider creates an HTTP provider.
func NewHTTPProvider(cfg HTTPConfig, logger *slog.Logger) (*HTTPProvider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL != "" {
		if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
			return nil, &ProviderError{Provider: "http", Op: "configure", Cause: fmt.Errorf("invalid base_url: %w", err)}
		}
	}
	client, err := httpclient.New(cfg.Client, logger)
	if err != nil {
		return nil, &ProviderError{Provider: "http", Op: "configure", Cause: err}
	}
	return &HTTPProvider{
		cfg:    cfg,
		client: client,
		logger: log.WithProvider(logger, "http"),
	}, nil
}

// Name implements Provider.
func (p *HTTPProvider) Name() string { return "http" }

// endpoint resolves id to a URL: an absolute URL, a configured function,
// or a path under BaseURL.
func (p *HTTPProvider) endpoint(id string) (string, error) {
	if strings.HasPrefix(id, "https://") || strings.HasPrefix(id, "http://") {
		return id, nil
	}
	if fn, ok := p.cfg.Functions[id]; ok {
		return fn.URL, nil
	}
	if p.cfg.BaseURL == "" {
		return "", fmt.Errorf("%w: %s (no http.base_url configured)", ErrNotFound, id)
	}
	return strings.TrimRight(p.cfg.BaseURL, "/") + "/" + url.PathEscape(id), nil
}

// Invoke POSTs payload to the function endpoint. HTTP endpoints do not
// return execution logs, so opts.Logs is ignored.
func (p *HTTPProvider) Invoke(ctx context.Context, id string, payload []byte, opts InvokeOptions) (*InvocationResponse, error) {
	target, err := p.endpoint(id)
	if err != nil {
		return nil, &InvocationError{Function: id, Cause: err}
	}

	var resp *InvocationResponse
	inv := &log.Invocation{Function: id, Provider: p.Name(), Payload: payloadKind(payload)}
	err = log.Timed(ctx, p.logger, inv, func() (int, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
		if err != nil {
			return 0, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		httpResp, err := p.client.Do(req)
		if err != nil {
			return 0, err
		}
		defer httpResp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
		if err != nil {
			return httpResp.StatusCode, fmt.Errorf("read response: %w", err)
		}
		resp = &InvocationResponse{
			StatusCode: httpResp.StatusCode,
			Payload:    body,
			Raw:        httpResp,
		}
		return httpResp.StatusCode, nil
	})
	if err != nil {
		return nil, &InvocationError{Function: id, Message: "http invoke failed", Cause: err}
	}
	return resp, nil
}

// List returns the configured functions.
func (p *HTTPProvider) List(ctx context.Context, opts ListOptions) (map[string]FunctionInfo, error) {
	funcs := make(map[string]FunctionInfo, len(p.cfg.Functions))
	for name, fn := range p.cfg.Functions {
		funcs[name] = FunctionInfo{ID: name, Name: name, Description: fn.Description}
	}
	return funcs, nil
}

// Tag is not supported; HTTP functions are listed from configuration.
func (p *HTTPProvider) Tag(ctx context.Context, id, description string) error {
	return &ProviderError{Provider: p.Name(), Op: "tag", Cause: ErrUnsupported}
}

// Untag is not supported; HTTP functions are listed from configuration.
func (p *HTTPProvider) Untag(ctx context.Context, id string) error {
	return &ProviderError{Provider: p.Name(), Op: "untag", Cause: ErrUnsupported}
}
