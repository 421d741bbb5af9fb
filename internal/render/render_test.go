package render

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dgallion1/rfcsite/internal/doctree"
)

func render(t *testing.T, src string, resolve LinkResolver) Page {
	t.Helper()
	p, err := New().Render([]byte(src), resolve)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestRender_Headings(t *testing.T) {
	p := render(t, "# RFC-0001: Intro\n\n## Motivation\n\n### Prior art\n\n## Design {#wire-design}\n", nil)

	want := []doctree.Heading{
		{Title: "RFC-0001: Intro", ID: "rfc-0001-intro", Level: 1},
		{Title: "Motivation", ID: "motivation", Level: 2},
		{Title: "Prior art", ID: "prior-art", Level: 3},
		{Title: "Design", ID: "wire-design", Level: 2},
	}
	if diff := cmp.Diff(want, p.Headings); diff != "" {
		t.Errorf("headings mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_InlineMath(t *testing.T) {
	p := render(t, "Energy $E=mc^2$ and $$x<y$$ here.\n", nil)
	html := string(p.HTML)
	if !strings.Contains(html, `<span class="math math-inline">\(E=mc^2\)</span>`) {
		t.Errorf("missing inline math in %s", html)
	}
	if !strings.Contains(html, `<span class="math math-display">\[x&lt;y\]</span>`) {
		t.Errorf("missing one-line display math in %s", html)
	}
}

func TestRender_DollarProse(t *testing.T) {
	p := render(t, "It costs $5 and $6 in total.\n", nil)
	if strings.Contains(string(p.HTML), "math") {
		t.Errorf("prices rendered as math: %s", p.HTML)
	}
}

func TestRender_BlockMath(t *testing.T) {
	p := render(t, "Before.\n\n$$\na < b\n$$\n\nAfter.\n", nil)
	html := string(p.HTML)
	if !strings.Contains(html, `<div class="math math-display">\[`) {
		t.Fatalf("missing display block in %s", html)
	}
	if !strings.Contains(html, "a &lt; b") {
		t.Errorf("expected escaped equation body in %s", html)
	}
	if !strings.Contains(html, "<p>After.</p>") {
		t.Errorf("block did not close: %s", html)
	}
}

func TestRender_Mermaid(t *testing.T) {
	p := render(t, "```mermaid\ngraph TD; A-->B\n```\n", nil)
	html := string(p.HTML)
	if !strings.Contains(html, `<pre class="mermaid">graph TD; A--&gt;B`) {
		t.Errorf("mermaid block not preserved: %s", html)
	}
	if strings.Contains(html, "chroma") {
		t.Errorf("mermaid block was highlighted: %s", html)
	}
}

func TestRender_CodeHighlight(t *testing.T) {
	p := render(t, "```go\nfunc main() {}\n```\n", nil)
	html := string(p.HTML)
	if !strings.Contains(html, `<div class="code-block" data-lang="go">`) {
		t.Errorf("missing code wrapper: %s", html)
	}
	if !strings.Contains(html, `class="chroma"`) {
		t.Errorf("expected chroma classes: %s", html)
	}
}

func TestRender_CodeUnknownLanguage(t *testing.T) {
	p := render(t, "```\n<raw>\n```\n", nil)
	if !strings.Contains(string(p.HTML), `<pre class="chroma"><code>&lt;raw&gt;`) {
		t.Errorf("expected escaped plain block: %s", p.HTML)
	}
}

func TestRender_MarkdownLinks(t *testing.T) {
	resolve := func(dest string) (string, bool) {
		if dest == "../RFC-0002/index.md" {
			return "/rfcs/RFC-0002", true
		}
		return "", false
	}
	src := strings.Join([]string{
		"See [mixnet](../RFC-0002/index.md#packet-format).",
		"Also [missing](missing.md) and [remote](https://example.com/spec.md).",
		"And [route](/rfcs/other).",
	}, "\n\n")
	p := render(t, src, resolve)

	wantLinks := []string{
		"/rfcs/RFC-0002#packet-format",
		"missing.md",
		"https://example.com/spec.md",
		"/rfcs/other",
	}
	if diff := cmp.Diff(wantLinks, p.Links); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"missing.md"}, p.BrokenMarkdownLinks); diff != "" {
		t.Errorf("broken links mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_BaseURL(t *testing.T) {
	resolve := func(dest string) (string, bool) {
		if dest == "RFC-0002-mixnet.md" {
			return "/rfcs/RFC-0002-mixnet", true
		}
		return "", false
	}
	src := strings.Join([]string{
		"See [mixnet](RFC-0002-mixnet.md#packet-format).",
		"Also [intro](/rfcs/RFC-0001-intro), [sibling](notes) and [cdn](//cdn.example.com/x.js).",
		"And [gone](missing.md).",
	}, "\n\n")
	p, err := New(WithBaseURL("/rfc/")).Render([]byte(src), resolve)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantLinks := []string{
		"/rfc/rfcs/RFC-0002-mixnet#packet-format",
		"/rfc/rfcs/RFC-0001-intro",
		"notes",
		"//cdn.example.com/x.js",
		"missing.md",
	}
	if diff := cmp.Diff(wantLinks, p.Links); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"missing.md"}, p.BrokenMarkdownLinks); diff != "" {
		t.Errorf("broken links mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_NilResolver(t *testing.T) {
	p := render(t, "[a](a.md)\n", nil)
	if len(p.BrokenMarkdownLinks) != 1 {
		t.Errorf("expected a.md to be reported, got %v", p.BrokenMarkdownLinks)
	}
}

func TestRender_GFMAndRawHTML(t *testing.T) {
	src := "| a | b |\n|---|---|\n| 1 | 2 |\n\nPress <kbd>Ctrl</kbd>.[^1]\n\n[^1]: A note.\n"
	html := string(render(t, src, nil).HTML)
	for _, want := range []string{"<table>", "<kbd>Ctrl</kbd>", `class="footnotes"`} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in %s", want, html)
		}
	}
}

func TestHighlightCSS(t *testing.T) {
	css, err := HighlightCSS("github", "dracula")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(css, ".chroma") {
		t.Error("missing light rules")
	}
	if !strings.Contains(css, `[data-theme="dark"] .chroma`) {
		t.Error("missing scoped dark rules")
	}
}

func TestInspect_SkipsMermaid(t *testing.T) {
	doc := `<h2 id="a">A <code>b</code></h2><pre class="mermaid"><a href="/ignored">x</a></pre><a href="/kept">y</a>`
	headings, links, err := Inspect([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(headings) != 1 || headings[0].Title != "A b" || headings[0].ID != "a" || headings[0].Level != 2 {
		t.Errorf("unexpected headings %+v", headings)
	}
	if diff := cmp.Diff([]string{"/kept"}, links); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
}
