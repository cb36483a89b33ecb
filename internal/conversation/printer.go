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

package conversation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// printer writes response sections. Colour is enabled only when out is a
// terminal.
type printer struct {
	out    io.Writer
	header lipgloss.Style
	muted  lipgloss.Style
}

func newPrinter(out io.Writer) *printer {
	r := lipgloss.NewRenderer(out)
	return &printer{
		out:    out,
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		muted:  r.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

func (p *printer) result(text string) {
	fmt.Fprintln(p.out, p.header.Render("Result:"))
	fmt.Fprintln(p.out, text)
}

func (p *printer) response(body any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(body); err != nil {
		return fmt.Errorf("render response: %w", err)
	}
	fmt.Fprintln(p.out, p.header.Render("Response:"))
	_, err := p.out.Write(buf.Bytes())
	return err
}

func (p *printer) logs(text string) {
	fmt.Fprintln(p.out, p.header.Render("Logs:"))
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintln(p.out, p.muted.Render(line))
	}
}

func (p *printer) separator() {
	fmt.Fprintln(p.out)
}
