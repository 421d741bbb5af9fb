package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/dgallion1/rfcsite/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	goldhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Page is a rendered document body plus what was found in it.
type Page struct {
	HTML     template.HTML
	Headings []doctree.Heading // flat, in document order
	Links    []string          // href of every anchor, in document order

	// BrokenMarkdownLinks lists references to markdown files that the
	// resolver could not map to a route.
	BrokenMarkdownLinks []string
}

// Renderer turns RFC markdown into HTML. It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

type options struct {
	baseURL string
}

// Option configures a Renderer.
type Option func(*options)

// WithBaseURL prefixes root-relative link targets, including resolved
// markdown file references, with the site base URL.
func WithBaseURL(base string) Option {
	return func(o *options) { o.baseURL = base }
}

// New returns a renderer with GFM, footnotes, math and diagram support.
func New(opts ...Option) *Renderer {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	links := &mdLinkTransformer{base: strings.TrimSuffix(o.baseURL, "/")}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
			Math,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
			parser.WithASTTransformers(util.Prioritized(links, 500)),
		),
		goldmark.WithRendererOptions(
			goldhtml.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(newCodeRenderer(), 200)),
		),
	)
	return &Renderer{md: md}
}

// Render converts markdown source into a Page. resolve may be nil, in which
// case every markdown file reference is reported as broken.
func (r *Renderer) Render(src []byte, resolve LinkResolver) (Page, error) {
	var unresolved []string
	pc := parser.NewContext()
	pc.Set(resolverKey, resolve)
	pc.Set(unresolvedKey, &unresolved)

	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf, parser.WithContext(pc)); err != nil {
		return Page{}, fmt.Errorf("render markdown: %w", err)
	}
	headings, links, err := Inspect(buf.Bytes())
	if err != nil {
		return Page{}, err
	}
	return Page{
		HTML:                template.HTML(buf.String()),
		Headings:            headings,
		Links:               links,
		BrokenMarkdownLinks: unresolved,
	}, nil
}
