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

// Package conversation runs the multi-round exchange with a function:
// fetch a schema, collect values, invoke, show the response, and repeat
// while the function asks to be reinvoked.
//
// Rounds are strictly sequential. An operator interrupt while collecting
// aborts the conversation before anything is sent. Once an invocation is
// sent it runs to completion; cancellation of the caller's context does not
// reach it.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/tombee/faas-form/internal/faas"
	"github.com/tombee/faas-form/internal/jq"
	"github.com/tombee/faas-form/internal/log"
	"github.com/tombee/faas-form/pkg/envelope"
	"github.com/tombee/faas-form/pkg/form"
)

// State is a conversation state.
type State int

const (
	StateAwaitingSchema State = iota
	StateCollecting
	StateInvoking
	StateInterpreting
	StateDone
	StateAborted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateAwaitingSchema:
		return "awaiting-schema"
	case StateCollecting:
		return "collecting"
	case StateInvoking:
		return "invoking"
	case StateInterpreting:
		return "interpreting"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateAborted
}

// Options configures a conversation.
type Options struct {
	// Function is the identifier passed to the invoker.
	Function string

	// Invoker performs the remote calls.
	Invoker faas.Invoker

	// Reader supplies operator answers.
	Reader form.Reader

	// Out receives prompts, instructions and results.
	Out io.Writer

	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// DisableReinvoke stops after the first round even if the function
	// asks for another.
	DisableReinvoke bool

	// Query is a jq expression applied to displayed response bodies.
	Query string

	// ShowLogs requests and prints the function's log tail each round.
	ShowLogs bool
}

// Outcome summarises a finished conversation.
type Outcome struct {
	// State is StateDone or StateAborted.
	State State

	// Rounds counts collection rounds started.
	Rounds int

	// Values are the most recently collected values.
	Values *form.Values

	// Response is the most recently interpreted response.
	Response *envelope.InvokeResponse
}

// Conversation drives one function through the protocol.
type Conversation struct {
	opts    Options
	session *form.Session
	jq      *jq.Executor
	printer *printer
	logger  *slog.Logger
}

// New validates opts and creates a conversation.
func New(opts Options) (*Conversation, error) {
	if opts.Function == "" {
		return nil, errors.New("function is required")
	}
	if opts.Invoker == nil {
		return nil, errors.New("invoker is required")
	}
	if opts.Reader == nil {
		return nil, errors.New("reader is required")
	}
	if opts.Out == nil {
		return nil, errors.New("output writer is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	executor := jq.NewExecutor(0, 0)
	if err := executor.Validate(opts.Query); err != nil {
		return nil, err
	}

	logger := log.WithComponent(log.WithFunction(opts.Logger, opts.Function), "conversation")
	return &Conversation{
		opts:    opts,
		session: form.NewSession(opts.Reader, opts.Out, form.WithLogger(logger)),
		jq:      executor,
		printer: newPrinter(opts.Out),
		logger:  logger,
	}, nil
}

// Run executes the conversation. With a nil schema the schema is fetched
// from the function first. The returned Outcome is never nil; on error its
// State is StateAborted.
func (c *Conversation) Run(ctx context.Context, schema *form.Schema) (*Outcome, error) {
	id := log.NewCorrelationID()
	ctx = log.ToContext(ctx, id)
	logger := log.WithCorrelationID(c.logger, id.String())
	start := time.Now()

	outcome := &Outcome{State: StateAwaitingSchema}
	if schema != nil {
		outcome.State = StateCollecting
	}

	var (
		values   *form.Values
		response *faas.InvocationResponse
	)

	for !outcome.State.Terminal() {
		logger.DebugContext(ctx, "conversation state", log.StateKey, outcome.State.String(), log.RoundKey, outcome.Rounds)

		switch outcome.State {
		case StateAwaitingSchema:
			fetched, err := faas.GetSchema(ctx, c.opts.Invoker, c.opts.Function)
			if err != nil {
				return c.abort(ctx, logger, outcome, err)
			}
			schema = fetched
			outcome.State = StateCollecting

		case StateCollecting:
			outcome.Rounds++
			collected, err := schema.CollectValues(ctx, c.session)
			if err != nil {
				return c.abort(ctx, logger, outcome, err)
			}
			values = collected
			outcome.Values = collected
			outcome.State = StateInvoking

		case StateInvoking:
			sent, err := faas.InvokeValues(context.WithoutCancel(ctx), c.opts.Invoker, c.opts.Function, values,
				faas.InvokeOptions{Logs: c.opts.ShowLogs})
			if err != nil {
				var invErr *faas.InvocationError
				if c.opts.ShowLogs && errors.As(err, &invErr) && invErr.Logs != "" {
					c.printer.logs(invErr.Logs)
				}
				return c.abort(ctx, logger, outcome, err)
			}
			response = sent
			outcome.State = StateInterpreting

		case StateInterpreting:
			parsed, err := envelope.ParseInvokeResponse(response.Payload)
			if err != nil {
				return c.abort(ctx, logger, outcome, err)
			}
			outcome.Response = parsed

			if err := c.show(ctx, parsed, response.Logs); err != nil {
				return c.abort(ctx, logger, outcome, err)
			}

			if !parsed.Reinvoke || c.opts.DisableReinvoke {
				outcome.State = StateDone
				continue
			}

			next, err := parsed.NextSchema()
			if err != nil {
				return c.abort(ctx, logger, outcome, err)
			}
			schema = next
			c.printer.separator()
			outcome.State = StateCollecting
		}
	}

	logger.DebugContext(ctx, "conversation finished",
		log.StateKey, outcome.State.String(),
		log.RoundKey, outcome.Rounds,
		log.Duration("elapsed", time.Since(start).Milliseconds()),
	)
	return outcome, nil
}

func (c *Conversation) abort(ctx context.Context, logger *slog.Logger, outcome *Outcome, err error) (*Outcome, error) {
	logger.DebugContext(ctx, "conversation aborted",
		"from", outcome.State.String(),
		log.RoundKey, outcome.Rounds,
		log.Error(err),
	)
	outcome.State = StateAborted
	return outcome, err
}

// show prints the result text, or the stripped and optionally filtered
// body when there is none, followed by any log tail.
func (c *Conversation) show(ctx context.Context, resp *envelope.InvokeResponse, logs string) error {
	if resp.HasResult {
		c.printer.result(resp.Result)
	} else {
		body, err := c.jq.Execute(ctx, c.opts.Query, resp.Display())
		if err != nil {
			return fmt.Errorf("query response: %w", err)
		}
		if err := c.printer.response(body); err != nil {
			return err
		}
	}
	if c.opts.ShowLogs && logs != "" {
		c.printer.logs(logs)
	}
	return nil
}
