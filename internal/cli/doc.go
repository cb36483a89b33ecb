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

/*
Package cli provides the root command and shared configuration for faas-form's CLI.

This package creates the root Cobra command and handles global concerns like
version information, persistent flags, and error handling. Individual commands
are implemented in the internal/commands subpackages.

# Command Tree

The CLI is organized as:

	faas-form
	├── ls          List compatible functions
	├── invoke      Fill in a function's form and invoke it
	├── prompt      Collect values for a schema and print them
	├── demo        Try the built-in example function
	├── admin       Tag, untag and inspect functions
	├── validate    Validate a schema document
	├── config      Show the configuration
	├── completion  Shell completion scripts
	├── version     Show version
	└── help        Show help

# Usage

From main.go:

	cli.SetVersion(version, commit, date)
	rootCmd := cli.NewRootCommand()
	cli.AddGroupedCommand(rootCmd, cli.GroupFunctions, invoke.NewCommand())
	// ... add commands ...
	if err := rootCmd.ExecuteContext(ctx); err != nil {
	    cli.HandleExitError(err)
	}

# Global Flags

All commands inherit these flags:

	--verbose, -v    Enable debug logging on stderr
	--json           Output in JSON format
	--config         Path to config file
	--provider       Function provider override

# Error Handling

Errors are handled centrally to ensure proper exit codes:

  - Exit 0: Success
  - Exit 1: Invocation or other execution failure
  - Exit 2: Invalid schema
  - Exit 3: Function returned no schema
  - Exit 4: Provider or configuration error
  - Exit 130: Interrupted by the operator
*/
package cli
