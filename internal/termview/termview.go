// Package termview prints RFC documents and the RFC table of contents in
// a terminal.
package termview

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/dgallion1/rfcsite/internal/content"
	"github.com/dgallion1/rfcsite/internal/toc"
)

// Options controls terminal output.
type Options struct {
	Width int    // word wrap column, 80 when zero
	Style string // glamour style name; "auto" detects the terminal background
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffa0"))
	metaStyle  = lipgloss.NewStyle().Faint(true)
	labelStyle = lipgloss.NewStyle().Bold(true)
)

func (o Options) renderer() (*glamour.TermRenderer, error) {
	width := o.Width
	if width <= 0 {
		width = 80
	}
	style := glamour.WithAutoStyle()
	if o.Style != "" && o.Style != "auto" {
		style = glamour.WithStandardStyle(o.Style)
	}
	return glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
}

// Document writes doc's title, reading time and rendered body to w.
func Document(w io.Writer, doc content.Document, opts Options) error {
	r, err := opts.renderer()
	if err != nil {
		return fmt.Errorf("terminal renderer: %w", err)
	}
	out, err := r.Render(string(doc.Body))
	if err != nil {
		return fmt.Errorf("render %s: %w", doc.SourcePath, err)
	}

	minutes := int(doc.ReadingTime() / time.Minute)
	fmt.Fprintln(w, titleStyle.Render(doc.Title))
	fmt.Fprintln(w, metaStyle.Render(fmt.Sprintf("%s · %d min read", doc.Route, minutes)))
	_, err = io.WriteString(w, out)
	return err
}

// TOC writes one line per entry, label then link.
func TOC(w io.Writer, entries []toc.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, metaStyle.Render("no RFCs found"))
		return err
	}
	width := 0
	for _, e := range entries {
		width = max(width, lipgloss.Width(e.Label))
	}
	for _, e := range entries {
		pad := strings.Repeat(" ", width-lipgloss.Width(e.Label))
		if _, err := fmt.Fprintf(w, "%s%s  %s\n", labelStyle.Render(e.Label), pad, metaStyle.Render(e.Href)); err != nil {
			return err
		}
	}
	return nil
}
