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

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/tombee/faas-form/internal/cli"
	"github.com/tombee/faas-form/internal/commands/admin"
	"github.com/tombee/faas-form/internal/commands/completion"
	"github.com/tombee/faas-form/internal/commands/config"
	"github.com/tombee/faas-form/internal/commands/demo"
	"github.com/tombee/faas-form/internal/commands/invoke"
	"github.com/tombee/faas-form/internal/commands/list"
	"github.com/tombee/faas-form/internal/commands/prompt"
	"github.com/tombee/faas-form/internal/commands/validate"
	versioncmd "github.com/tombee/faas-form/internal/commands/version"
)

// Version information (injected via ldflags at build time)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.SetVersion(version, commit, buildDate)

	rootCmd := cli.NewRootCommand()

	// Function commands
	cli.AddGroupedCommand(rootCmd, cli.GroupFunctions, list.NewCommand())
	cli.AddGroupedCommand(rootCmd, cli.GroupFunctions, invoke.NewCommand())
	cli.AddGroupedCommand(rootCmd, cli.GroupFunctions, prompt.NewCommand())
	cli.AddGroupedCommand(rootCmd, cli.GroupFunctions, demo.NewCommand())

	// Administration commands
	cli.AddGroupedCommand(rootCmd, cli.GroupAdmin, admin.NewCommand())
	cli.AddGroupedCommand(rootCmd, cli.GroupAdmin, validate.NewCommand())
	cli.AddGroupedCommand(rootCmd, cli.GroupAdmin, config.NewConfigCommand())

	rootCmd.AddCommand(completion.NewCommand())
	rootCmd.AddCommand(versioncmd.NewVersionCommand())

	// Custom help command with JSON support
	rootCmd.SetHelpCommand(cli.NewHelpCommand(rootCmd))

	// The first interrupt cancels the context; prompts turn that into an
	// abort. Invocations already sent run to completion.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		cli.HandleExitError(err)
	}
}
