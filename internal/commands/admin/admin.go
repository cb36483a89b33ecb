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

// Package admin implements the admin commands that mark functions as
// compatible, inspect them, and check provider credentials.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tombee/faas-form/internal/commands/completion"
	"github.com/tombee/faas-form/internal/commands/shared"
	"github.com/tombee/faas-form/internal/faas"
	pkgerrors "github.com/tombee/faas-form/pkg/errors"
	"github.com/tombee/faas-form/pkg/form"
)

// NewCommand creates the admin command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage compatible functions",
		Long: `Admin commands add or remove the "faasform" tag that marks a function as
compatible, show a function's schema, and report the provider identity the
commands run as.

See also: faas-form ls`,
	}

	cmd.AddCommand(newTagCommand())
	cmd.AddCommand(newUntagCommand())
	cmd.AddCommand(newShowCommand())
	cmd.AddCommand(newWhoamiCommand())

	return cmd
}

func newTagCommand() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "tag <function>",
		Short: "Mark a function as compatible",
		Long: `Tag sets the "faasform" tag on a function. The tag value is shown as the
function's description by 'faas-form ls'.`,
		Example: `  # Example 1: Tag a function
  faas-form admin tag hello -d "Says hello"`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.CompleteFunctionNames,
		SilenceUsage:      true,
		SilenceErrors:     true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, logger, provider, err := shared.Setup(ctx)
			if err != nil {
				return err
			}
			if err := checkCredentials(ctx, logger, provider); err != nil {
				return err
			}
			if err := provider.Tag(ctx, args[0], description); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), shared.RenderOK("Tagged "+args[0]))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Description shown by ls")

	return cmd
}

var nonInteractive = shared.IsNonInteractive

// confirm asks the operator a yes/no question.
var confirm = func(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes, untag").
				Negative("No").
				Value(&ok),
		),
	).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, form.ErrInterrupted
	}
	return ok, err
}

func newUntagCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "untag <function>",
		Short: "Remove the compatibility tag from a function",
		Long: `Untag removes the "faasform" tag from a function. A function that carries
the marker as an environment variable is still listed by 'faas-form ls --env'.`,
		Example: `  # Example 1: Untag after confirming
  faas-form admin untag hello

  # Example 2: Untag from a script
  faas-form admin untag hello --yes`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.CompleteFunctionNames,
		SilenceUsage:      true,
		SilenceErrors:     true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			if !yes {
				if nonInteractive() {
					return &pkgerrors.ValidationError{
						Field:   "yes",
						Message: "confirmation required",
						Hint:    "Pass --yes to untag without prompting",
					}
				}
				ok, err := confirm(fmt.Sprintf("Remove the faasform tag from %s?", name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), shared.RenderWarn("Cancelled"))
					return nil
				}
			}

			_, logger, provider, err := shared.Setup(ctx)
			if err != nil {
				return err
			}
			if err := checkCredentials(ctx, logger, provider); err != nil {
				return err
			}
			if err := provider.Untag(ctx, name); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), shared.RenderOK("Untagged "+name))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <function>",
		Short: "Print a function's schema",
		Long: `Show requests the schema of a function and prints it as JSON. The output
can be edited and passed back with 'faas-form invoke --schema @file'.`,
		Example: `  # Example 1: Save a function's schema
  faas-form admin show hello > schema.json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.CompleteFunctionNames,
		SilenceUsage:      true,
		SilenceErrors:     true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, _, provider, err := shared.Setup(ctx)
			if err != nil {
				return err
			}
			schema, err := faas.GetSchema(ctx, provider, args[0])
			if err != nil {
				return err
			}
			return shared.EmitJSON(cmd.OutOrStdout(), schema)
		},
	}
}

func newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "whoami",
		Short:         "Show the identity the provider runs as",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, _, provider, err := shared.Setup(ctx)
			if err != nil {
				return err
			}
			checker, ok := provider.(faas.IdentityChecker)
			if !ok {
				return &faas.ProviderError{Provider: provider.Name(), Op: "whoami", Cause: faas.ErrUnsupported}
			}
			id, err := checker.Whoami(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if shared.GetJSON() {
				return shared.EmitJSON(out, id)
			}
			fmt.Fprintf(out, "%s %s\n", shared.RenderLabel("Account:"), id.Account)
			fmt.Fprintf(out, "%s %s\n", shared.RenderLabel("ARN:"), id.ARN)
			fmt.Fprintf(out, "%s %s\n", shared.RenderLabel("User ID:"), id.UserID)
			return nil
		},
	}
}

// checkCredentials fails early when the provider can tell that its
// credentials do not work.
func checkCredentials(ctx context.Context, logger *slog.Logger, provider faas.Provider) error {
	checker, ok := provider.(faas.IdentityChecker)
	if !ok {
		return nil
	}
	id, err := checker.Whoami(ctx)
	if err != nil {
		return err
	}
	logger.Debug("credentials valid", "account", id.Account, "arn", id.ARN)
	return nil
}
