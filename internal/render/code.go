package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// codeRenderer replaces goldmark's fenced code output: mermaid blocks are
// left for the client-side diagram renderer, everything else is
// highlighted with chroma using CSS classes.
type codeRenderer struct {
	formatter *chromahtml.Formatter
}

func newCodeRenderer() *codeRenderer {
	return &codeRenderer{formatter: chromahtml.New(chromahtml.WithClasses(true))}
}

func (r *codeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCode)
}

func (r *codeRenderer) renderFencedCode(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	lang := strings.ToLower(string(n.Language(source)))

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}

	if lang == "mermaid" {
		w.WriteString(`<pre class="mermaid">`)
		template.HTMLEscape(w, code.Bytes())
		w.WriteString("</pre>\n")
		return ast.WalkSkipChildren, nil
	}

	lexer := lexers.Get(lang)
	if lang == "" || lexer == nil {
		w.WriteString(`<pre class="chroma"><code>`)
		template.HTMLEscape(w, code.Bytes())
		w.WriteString("</code></pre>\n")
		return ast.WalkSkipChildren, nil
	}

	it, err := chroma.Coalesce(lexer).Tokenise(nil, code.String())
	if err != nil {
		return ast.WalkStop, fmt.Errorf("highlight %s: %w", lang, err)
	}
	fmt.Fprintf(w, `<div class="code-block" data-lang="%s">`, template.HTMLEscapeString(lang))
	if err := r.formatter.Format(w, styles.Fallback, it); err != nil {
		return ast.WalkStop, fmt.Errorf("highlight %s: %w", lang, err)
	}
	w.WriteString("</div>\n")
	return ast.WalkSkipChildren, nil
}

// HighlightCSS returns the stylesheet for highlighted code: the light
// style unscoped and the dark style scoped to [data-theme="dark"].
func HighlightCSS(light, dark string) (string, error) {
	f := chromahtml.New(chromahtml.WithClasses(true))

	var out strings.Builder
	var lightCSS bytes.Buffer
	if err := f.WriteCSS(&lightCSS, lookupStyle(light)); err != nil {
		return "", fmt.Errorf("light style %q: %w", light, err)
	}
	out.Write(lightCSS.Bytes())

	var darkCSS bytes.Buffer
	if err := f.WriteCSS(&darkCSS, lookupStyle(dark)); err != nil {
		return "", fmt.Errorf("dark style %q: %w", dark, err)
	}
	scoped := strings.NewReplacer(
		".chroma", `[data-theme="dark"] .chroma`,
		".bg ", `[data-theme="dark"] .bg `,
	).Replace(darkCSS.String())
	out.WriteString(scoped)
	return out.String(), nil
}

func lookupStyle(name string) *chroma.Style {
	return styles.Get(name)
}
