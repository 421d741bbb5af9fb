// Package toc derives the RFC table of contents from the docs sidebar.
//
// Only two-level entries are considered: a top-level category and its
// direct link children. A link survives when its label follows the RFC
// naming convention, e.g. "RFC-0004: Session protocol".
package toc

import (
	"html/template"
	"io"
	"regexp"
	"strings"

	"github.com/dgallion1/rfcsite/internal/sidebar"
)

// LabelPattern matches RFC labels such as "RFC-0001: Intro".
var LabelPattern = regexp.MustCompile(`RFC-\d{4}: `)

// Entry is one row of the table of contents.
type Entry struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Source supplies the navigation tree for the current render.
type Source interface {
	Sidebar() sidebar.Tree
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func() sidebar.Tree

func (f SourceFunc) Sidebar() sidebar.Tree { return f() }

// FilterEntries returns the RFC links found directly under top-level
// categories, in sidebar order. Nodes of unexpected shape are skipped.
func FilterEntries(tree sidebar.Tree) []Entry {
	var out []Entry
	for _, node := range tree {
		cat, ok := node.(*sidebar.Category)
		if !ok || cat == nil || len(cat.Items) == 0 {
			continue
		}
		for _, child := range cat.Items {
			link, ok := child.(*sidebar.Link)
			if !ok || link == nil {
				continue
			}
			if LabelPattern.MatchString(link.Label) {
				out = append(out, Entry{Label: link.Label, Href: link.Href})
			}
		}
	}
	return out
}

// Entries filters the tree currently supplied by src.
func Entries(src Source) []Entry {
	if src == nil {
		return nil
	}
	return FilterEntries(src.Sidebar())
}

// ClientNavAttr marks anchors whose clicks are handled by the client-side
// router instead of a full page load.
const ClientNavAttr = "data-client-nav"

var listTmpl = template.Must(template.New("toc").Parse(
	`<div class="rfc-toc"><ul>{{range .}}<li><a href="{{.Href}}" ` + ClientNavAttr + `>{{.Label}}</a></li>{{end}}</ul></div>`))

// Render writes the entries as a list of client-navigated links.
func Render(w io.Writer, entries []Entry) error {
	return listTmpl.Execute(w, entries)
}

// HTML renders the entries for embedding in a page template.
func HTML(entries []Entry) template.HTML {
	var b strings.Builder
	if err := Render(&b, entries); err != nil {
		return ""
	}
	return template.HTML(b.String())
}
