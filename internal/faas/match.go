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
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Match returns the functions whose name matches the glob pattern. An empty
// pattern matches everything.
func Match(funcs map[string]FunctionInfo, pattern string) (map[string]FunctionInfo, error) {
	if pattern == "" {
		return funcs, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	matched := make(map[string]FunctionInfo)
	for name, info := range funcs {
		if ok, _ := doublestar.Match(pattern, name); ok {
			matched[name] = info
		}
	}
	return matched, nil
}
