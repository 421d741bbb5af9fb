// Package web holds the site's HTML templates, static assets and the small
// set of presentational components shared by every page.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/dgallion1/rfcsite/internal/config"
	"github.com/dgallion1/rfcsite/internal/doctree"
	"github.com/dgallion1/rfcsite/internal/sidebar"
	"github.com/dgallion1/rfcsite/internal/toc"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

// Assets returns the embedded static assets rooted at "assets/".
func Assets() fs.FS {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// NavLink is a resolved navbar entry.
type NavLink struct {
	Label    string
	Href     string
	External bool
}

// Chrome is the part of every page outside the main content.
type Chrome struct {
	Site         config.Site
	NavLeft      []NavLink
	NavRight     []NavLink
	FirstDocHref string
	PDFHref      string
	Copyright    string
	LiveReload   bool
}

// SidebarItem is the template view of a sidebar node.
type SidebarItem struct {
	Label      string
	Href       string
	IsCategory bool
	Active     bool
	Items      []SidebarItem
}

// Doc is the template view of a rendered document.
type Doc struct {
	Content        template.HTML
	Headings       []*doctree.Heading
	ReadingMinutes int
	EditHref       string
	Prev, Next     *sidebar.Link
}

// PageData is passed to the layout template.
type PageData struct {
	Chrome      Chrome
	Title       string
	Description string
	Sidebar     []SidebarItem
	TOC         template.HTML
	Doc         *Doc
	NotFound    bool
}

// UI renders pages for one site configuration.
type UI struct {
	tmpl *template.Template
	site config.Site
}

// New parses the embedded templates.
func New(site config.Site) (*UI, error) {
	u := &UI{site: site}
	tmpl, err := template.New("site").Funcs(template.FuncMap{
		"url":       u.URL,
		"abs":       u.Absolute,
		"button":    u.Button,
		"pdfButton": u.DownloadPDFButton,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	u.tmpl = tmpl
	return u, nil
}

// URL prefixes site-relative paths with the base URL. Absolute URLs and
// fragments pass through.
func (u *UI) URL(p string) string {
	switch {
	case p == "", strings.HasPrefix(p, "#"), strings.HasPrefix(p, "//"), strings.Contains(p, "://"):
		return p
	case !strings.HasPrefix(p, "/"):
		p = "/" + p
	}
	return strings.TrimSuffix(u.site.BaseURL, "/") + p
}

// Absolute returns the canonical URL for a site path.
func (u *UI) Absolute(p string) string {
	if strings.Contains(p, "://") {
		return p
	}
	return strings.TrimSuffix(u.site.URL, "/") + u.URL(p)
}

// NewChrome resolves navbar and footer for the current sidebar.
func (u *UI) NewChrome(tree sidebar.Tree, pdfHref string, liveReload bool, now time.Time) Chrome {
	c := Chrome{
		Site:       u.site,
		Copyright:  u.site.CopyrightText(now),
		LiveReload: liveReload,
	}
	if pdfHref != "" {
		c.PDFHref = u.URL(pdfHref)
	}
	if links := tree.Links(); len(links) > 0 {
		c.FirstDocHref = u.URL(links[0].Href)
	}
	resolve := func(items []config.NavbarItem) []NavLink {
		var out []NavLink
		for _, it := range items {
			l := NavLink{Label: it.Label, Href: it.Href}
			if it.Type == "docSidebar" {
				if c.FirstDocHref == "" {
					continue
				}
				l.Href = c.FirstDocHref
			} else {
				l.External = strings.Contains(it.Href, "://")
				if !l.External {
					l.Href = u.URL(it.Href)
				}
			}
			out = append(out, l)
		}
		return out
	}
	c.NavLeft = resolve(u.site.NavItems("left"))
	c.NavRight = resolve(u.site.NavItems("right"))
	return c
}

// SidebarView converts the tree for display, marking the branch that
// leads to active.
func SidebarView(tree sidebar.Tree, active string) []SidebarItem {
	var out []SidebarItem
	for _, n := range tree {
		switch n := n.(type) {
		case *sidebar.Category:
			if n == nil {
				continue
			}
			items := SidebarView(n.Items, active)
			item := SidebarItem{Label: n.Label, Href: n.Href, IsCategory: true, Items: items}
			for _, it := range items {
				if it.Active {
					item.Active = true
				}
			}
			out = append(out, item)
		case *sidebar.Link:
			if n == nil {
				continue
			}
			out = append(out, SidebarItem{Label: n.Label, Href: n.Href, Active: n.Href == active})
		}
	}
	return out
}

// TOC renders the RFC table of contents with base-prefixed links.
func (u *UI) TOC(entries []toc.Entry) template.HTML {
	prefixed := make([]toc.Entry, len(entries))
	for i, e := range entries {
		prefixed[i] = toc.Entry{Label: e.Label, Href: u.URL(e.Href)}
	}
	return toc.HTML(prefixed)
}

// RenderPage writes a complete HTML page.
func (u *UI) RenderPage(w io.Writer, d PageData) error {
	return u.tmpl.ExecuteTemplate(w, "layout", d)
}

// Fragment is the payload for client-side navigation: the page body
// without navbar, footer or scripts.
type Fragment struct {
	Title string `json:"title"`
	HTML  string `json:"html"`
}

// RenderFragment renders only the page body of d.
func (u *UI) RenderFragment(d PageData) (Fragment, error) {
	var buf bytes.Buffer
	if err := u.tmpl.ExecuteTemplate(&buf, "page-body", d); err != nil {
		return Fragment{}, err
	}
	return Fragment{Title: d.Title, HTML: buf.String()}, nil
}
