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

package completion

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tombee/faas-form/internal/cli/prompt"
	"github.com/tombee/faas-form/internal/commands/shared"
	"github.com/tombee/faas-form/internal/faas"
)

// listTimeout bounds the provider call made while completing.
const listTimeout = 3 * time.Second

// SafeCompletionWrapper wraps a completion function with panic recovery.
// Returns empty completion list on panic or error.
func SafeCompletionWrapper(fn func() ([]string, cobra.ShellCompDirective)) (results []string, directive cobra.ShellCompDirective) {
	results = []string{}
	directive = cobra.ShellCompDirectiveNoFileComp

	defer func() {
		if r := recover(); r != nil {
			results = []string{}
			directive = cobra.ShellCompDirectiveNoFileComp
		}
	}()

	results, directive = fn()
	if results == nil {
		return []string{}, cobra.ShellCompDirectiveNoFileComp
	}
	return results, directive
}

// CompleteFunctionNames completes the first argument with the names of
// compatible functions, as listed by the configured provider. Failures
// yield no suggestions.
func CompleteFunctionNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return []string{}, cobra.ShellCompDirectiveNoFileComp
	}
	return SafeCompletionWrapper(func() ([]string, cobra.ShellCompDirective) {
		ctx, cancel := context.WithTimeout(cmd.Context(), listTimeout)
		defer cancel()

		cfg, _, provider, err := shared.Setup(ctx)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		funcs, err := provider.List(ctx, faas.ListOptions{Tags: cfg.Discovery.Tags, Env: cfg.Discovery.Env})
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return filterPrefix(funcs, toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}

func filterPrefix(funcs map[string]faas.FunctionInfo, prefix string) []string {
	var names []string
	for _, name := range prompt.SortedNames(funcs) {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if desc := funcs[name].Description; desc != "" {
			names = append(names, name+"\t"+desc)
		} else {
			names = append(names, name)
		}
	}
	return names
}
