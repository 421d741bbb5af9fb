package site

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/dgallion1/rfcsite/internal/config"
	"github.com/dgallion1/rfcsite/internal/content"
	"github.com/dgallion1/rfcsite/internal/doctree"
	"github.com/dgallion1/rfcsite/internal/pdfexport"
	"github.com/dgallion1/rfcsite/internal/render"
	"github.com/dgallion1/rfcsite/internal/sidebar"
	"github.com/dgallion1/rfcsite/internal/toc"
	"github.com/dgallion1/rfcsite/internal/web"
	"golang.org/x/sync/errgroup"
)

// Options controls a site build.
type Options struct {
	Site       config.Site
	PDF        *pdfexport.Asset // nil when there is no PDF export
	LiveReload bool
	Workers    int
	Log        *slog.Logger
	Now        func() time.Time
}

// Page is a rendered document.
type Page struct {
	Route       string
	Title       string
	Description string
	Doc         content.Document
	Body        render.Page
	Headings    []*doctree.Heading
}

// Site is an immutable, fully rendered snapshot of the RFC collection.
// It is safe for concurrent use.
type Site struct {
	cfg        config.Site
	ui         *web.UI
	tree       sidebar.Tree
	entries    []toc.Entry
	pages      map[string]*Page
	routes     []string
	css        string
	pdf        *pdfexport.Asset
	liveReload bool
	now        func() time.Time
	builtAt    time.Time
	log        *slog.Logger
}

// Build loads every document in fsys, renders it and checks links.
func Build(ctx context.Context, fsys fs.FS, opts Options) (*Site, error) {
	if opts.Log == nil {
		opts.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if err := opts.Site.Validate(); err != nil {
		return nil, fmt.Errorf("site config: %w", err)
	}

	coll, err := content.Load(fsys)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}

	ui, err := web.New(opts.Site)
	if err != nil {
		return nil, err
	}
	css, err := render.HighlightCSS(opts.Site.Prism.Theme, opts.Site.Prism.DarkTheme)
	if err != nil {
		return nil, err
	}

	s := &Site{
		cfg:        opts.Site,
		ui:         ui,
		tree:       sidebar.Generate(coll),
		pages:      make(map[string]*Page, len(coll.Docs)),
		css:        css,
		pdf:        opts.PDF,
		liveReload: opts.LiveReload,
		now:        opts.Now,
		log:        opts.Log,
	}
	s.entries = toc.Entries(s)

	bySource := make(map[string]string, len(coll.Docs))
	for _, d := range coll.Docs {
		bySource[d.SourcePath] = d.Route
	}

	pages := make([]*Page, len(coll.Docs))
	r := render.New(render.WithBaseURL(opts.Site.BaseURL))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, doc := range coll.Docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			body, err := r.Render(doc.Body, sourceResolver(doc, bySource))
			if err != nil {
				return fmt.Errorf("%s: %w", doc.SourcePath, err)
			}
			levels := opts.Site.TableOfContents
			pages[i] = &Page{
				Route:       doc.Route,
				Title:       doc.Title,
				Description: firstNonEmpty(doc.Description, opts.Site.Description),
				Doc:         doc,
				Body:        body,
				Headings:    doctree.Build(body.Headings, levels.MinHeadingLevel, levels.MaxHeadingLevel),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, p := range pages {
		s.pages[p.Route] = p
		s.routes = append(s.routes, p.Route)
	}
	sort.Strings(s.routes)

	if err := s.checkLinks(); err != nil {
		return nil, err
	}

	s.builtAt = opts.Now()
	opts.Log.Info("site built", "documents", len(s.pages), "toc_entries", len(s.entries))
	return s, nil
}

// sourceResolver maps markdown file references in doc to routes.
func sourceResolver(doc content.Document, bySource map[string]string) render.LinkResolver {
	return func(dest string) (string, bool) {
		var p string
		if strings.HasPrefix(dest, "/") {
			p = strings.TrimPrefix(path.Clean(dest), "/")
		} else {
			p = path.Join(path.Dir(doc.SourcePath), dest)
		}
		route, ok := bySource[p]
		return route, ok
	}
}

// Sidebar returns the navigation tree. Site implements toc.Source.
func (s *Site) Sidebar() sidebar.Tree { return s.tree }

// TOC returns the RFC table of contents.
func (s *Site) TOC() []toc.Entry { return s.entries }

// Routes returns every document route in sorted order.
func (s *Site) Routes() []string { return s.routes }

// Page looks up a document by route. Trailing slashes are ignored.
func (s *Site) Page(route string) (*Page, bool) {
	p, ok := s.pages[normalizeRoute(route)]
	return p, ok
}

// HighlightCSS is the stylesheet for highlighted code blocks.
func (s *Site) HighlightCSS() string { return s.css }

// PDF returns the PDF export, or nil.
func (s *Site) PDF() *pdfexport.Asset { return s.pdf }

// Config returns the site configuration the snapshot was built with.
func (s *Site) Config() config.Site { return s.cfg }

// BuiltAt is when the snapshot finished building.
func (s *Site) BuiltAt() time.Time { return s.builtAt }

func normalizeRoute(route string) string {
	if route == "" {
		return "/"
	}
	return path.Clean("/" + route)
}

// StripBase removes the configured base URL from a request path.
func (s *Site) StripBase(p string) (string, bool) {
	base := strings.TrimSuffix(s.cfg.BaseURL, "/")
	if base == "" {
		return p, true
	}
	if p == base {
		return "/", true
	}
	if !strings.HasPrefix(p, base+"/") {
		return "", false
	}
	return strings.TrimPrefix(p, base), true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
