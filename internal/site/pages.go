package site

import (
	"io"
	"strings"
	"time"

	"github.com/dgallion1/rfcsite/internal/pdfexport"
	"github.com/dgallion1/rfcsite/internal/web"
)

func (s *Site) chrome() web.Chrome {
	pdfHref := ""
	if s.pdf != nil {
		pdfHref = pdfexport.Route
	}
	return s.ui.NewChrome(s.tree, pdfHref, s.liveReload, s.now())
}

// HomeData is the landing page.
func (s *Site) HomeData() web.PageData {
	return web.PageData{
		Chrome:      s.chrome(),
		Title:       s.cfg.Title,
		Description: s.cfg.Description,
		TOC:         s.ui.TOC(s.entries),
	}
}

// NotFoundData is the 404 page.
func (s *Site) NotFoundData() web.PageData {
	return web.PageData{
		Chrome:      s.chrome(),
		Title:       "Page Not Found | " + s.cfg.Title,
		Description: s.cfg.Description,
		TOC:         s.ui.TOC(s.entries),
		NotFound:    true,
	}
}

// DocData is the page for a rendered document.
func (s *Site) DocData(p *Page) web.PageData {
	prev, next := s.tree.Neighbors(p.Route)
	return web.PageData{
		Chrome:      s.chrome(),
		Title:       p.Title + " | " + s.cfg.Title,
		Description: p.Description,
		Sidebar:     web.SidebarView(s.tree, p.Route),
		TOC:         s.ui.TOC(s.entries),
		Doc: &web.Doc{
			Content:        p.Body.HTML,
			Headings:       p.Headings,
			ReadingMinutes: int(p.Doc.ReadingTime() / time.Minute),
			EditHref:       s.editHref(p),
			Prev:           prev,
			Next:           next,
		},
	}
}

func (s *Site) editHref(p *Page) string {
	if s.cfg.EditURL == "" {
		return ""
	}
	return strings.TrimSuffix(s.cfg.EditURL, "/") + "/" + p.Doc.SourcePath
}

// Lookup returns the page data for a base-relative route and whether a
// page exists there.
func (s *Site) Lookup(route string) (web.PageData, bool) {
	route = normalizeRoute(route)
	if route == "/" {
		return s.HomeData(), true
	}
	if p, ok := s.pages[route]; ok {
		return s.DocData(p), true
	}
	return s.NotFoundData(), false
}

// RenderPage writes the full HTML page for d.
func (s *Site) RenderPage(w io.Writer, d web.PageData) error {
	return s.ui.RenderPage(w, d)
}

// RenderFragment renders d for client-side navigation.
func (s *Site) RenderFragment(d web.PageData) (web.Fragment, error) {
	return s.ui.RenderFragment(d)
}
