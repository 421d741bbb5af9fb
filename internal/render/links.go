package render

import (
	"net/url"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// LinkResolver maps a relative markdown file reference (e.g.
// "../RFC-0002-mixnet/index.md") to a site route.
type LinkResolver func(dest string) (route string, ok bool)

var (
	resolverKey   = parser.NewContextKey()
	unresolvedKey = parser.NewContextKey()
)

// mdLinkTransformer rewrites links to markdown files into routes so that
// RFCs can cross-reference each other by file path, and puts the base URL
// in front of every root-relative target.
type mdLinkTransformer struct {
	base string // without trailing slash, "" for a site served at "/"
}

func (t *mdLinkTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	resolve, _ := pc.Get(resolverKey).(LinkResolver)
	unresolved, _ := pc.Get(unresolvedKey).(*[]string)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		dest := string(link.Destination)
		file, fragment := splitFragment(dest)
		if !isMarkdownRef(file) {
			if isRootRelative(dest) {
				link.Destination = []byte(t.base + dest)
			}
			return ast.WalkContinue, nil
		}
		if resolve != nil {
			if route, ok := resolve(file); ok {
				link.Destination = []byte(t.base + route + fragment)
				return ast.WalkContinue, nil
			}
		}
		if unresolved != nil {
			*unresolved = append(*unresolved, dest)
		}
		return ast.WalkContinue, nil
	})
}

func splitFragment(dest string) (string, string) {
	if i := strings.IndexByte(dest, '#'); i >= 0 {
		return dest[:i], dest[i:]
	}
	return dest, ""
}

func isRootRelative(dest string) bool {
	return strings.HasPrefix(dest, "/") && !strings.HasPrefix(dest, "//")
}

func isMarkdownRef(dest string) bool {
	if dest == "" {
		return false
	}
	if u, err := url.Parse(dest); err != nil || u.Scheme != "" || u.Host != "" {
		return false
	}
	lower := strings.ToLower(dest)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}
