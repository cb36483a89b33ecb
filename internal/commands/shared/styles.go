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

package shared

import (
	"github.com/charmbracelet/lipgloss"
)

// Status styles for command output.
var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))  // green
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")) // orange
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // red
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")) // gray
)

// RenderOK prefixes msg with a green check mark.
func RenderOK(msg string) string {
	return okStyle.Render("✓") + " " + msg
}

// RenderWarn prefixes msg with an orange warning sign.
func RenderWarn(msg string) string {
	return warnStyle.Render("⚠") + " " + msg
}

// RenderError prefixes msg with a red cross.
func RenderError(msg string) string {
	return errorStyle.Render("✗") + " " + msg
}

// RenderLabel dims a label in key: value output.
func RenderLabel(label string) string {
	return mutedStyle.Render(label)
}
