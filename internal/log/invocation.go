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

package log

import (
	"context"
	"log/slog"
	"time"
)

// Invocation describes one call to a remote function for logging purposes.
type Invocation struct {
	// Function is the function identifier.
	Function string

	// Provider names the invocation backend (lambda, http, local).
	Provider string

	// Payload is the request kind (schema, invoke).
	Payload string
}

// InvocationResult describes the outcome of an invocation.
type InvocationResult struct {
	// StatusCode is the transport status reported by the provider.
	StatusCode int

	// Error is the error message if the invocation failed.
	Error string

	// DurationMs is the duration of the call in milliseconds.
	DurationMs int64
}

// LogInvocation logs an outgoing invocation.
func LogInvocation(ctx context.Context, logger *slog.Logger, inv *Invocation) {
	logger.DebugContext(ctx, "invoking function",
		"event", "invoke_request",
		FunctionKey, inv.Function,
		ProviderKey, inv.Provider,
		"payload", inv.Payload,
	)
}

// LogInvocationResult logs the outcome of an invocation. Failures are
// logged at warn so they show at the default CLI level.
func LogInvocationResult(ctx context.Context, logger *slog.Logger, inv *Invocation, res *InvocationResult) {
	attrs := []any{
		"event", "invoke_response",
		FunctionKey, inv.Function,
		ProviderKey, inv.Provider,
		"payload", inv.Payload,
		"status", res.StatusCode,
		DurationKey, res.DurationMs,
	}

	level := slog.LevelDebug
	message := "invocation completed"
	if res.Error != "" {
		attrs = append(attrs, "error", res.Error)
		level = slog.LevelWarn
		message = "invocation failed"
	}

	logger.Log(ctx, level, message, attrs...)
}

// Timed runs call and logs it as an invocation. call returns the
// provider status code alongside its error.
func Timed(ctx context.Context, logger *slog.Logger, inv *Invocation, call func() (int, error)) error {
	start := time.Now()
	LogInvocation(ctx, logger, inv)

	status, err := call()

	res := &InvocationResult{
		StatusCode: status,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		res.Error = err.Error()
	}
	LogInvocationResult(ctx, logger, inv, res)
	return err
}
