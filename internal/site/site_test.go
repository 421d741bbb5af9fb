package site

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dgallion1/rfcsite/internal/config"
	"github.com/dgallion1/rfcsite/internal/pdfexport"
	"github.com/dgallion1/rfcsite/internal/toc"
	"github.com/dgallion1/rfcsite/internal/web"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"rfcs/_category_.json":   {Data: []byte(`{"label": "RFCs", "position": 1}`)},
		"rfcs/RFC-0001-intro.md": {Data: []byte("# RFC-0001: Intro\n\nSee the [mixnet](RFC-0002-mixnet.md#packet-format).\n")},
		"rfcs/RFC-0002-mixnet.md": {Data: []byte("# RFC-0002: Mixnet\n\n## Packet format\n\nBack to [intro](/rfcs/RFC-0001-intro).\n")},
		"rfcs/notes.md":          {Data: []byte("# Notes\n\nNot an RFC.\n")},
	}
}

func testOptions() Options {
	return Options{
		Site: config.DefaultSite(),
		Now:  func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
	}
}

func build(t *testing.T, fsys fstest.MapFS, opts Options) *Site {
	t.Helper()
	s, err := Build(context.Background(), fsys, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestBuild_TOC(t *testing.T) {
	s := build(t, testFS(), testOptions())

	want := []toc.Entry{
		{Label: "RFC-0001: Intro", Href: "/rfcs/RFC-0001-intro"},
		{Label: "RFC-0002: Mixnet", Href: "/rfcs/RFC-0002-mixnet"},
	}
	if diff := cmp.Diff(want, s.TOC()); diff != "" {
		t.Errorf("toc mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"/rfcs/RFC-0001-intro", "/rfcs/RFC-0002-mixnet", "/rfcs/notes"}, s.Routes()); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}
	if !s.BuiltAt().Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("unexpected build time %v", s.BuiltAt())
	}
}

func TestBuild_ResolvesMarkdownLinks(t *testing.T) {
	s := build(t, testFS(), testOptions())
	p, ok := s.Page("/rfcs/RFC-0001-intro/")
	if !ok {
		t.Fatal("expected page to be found with trailing slash")
	}
	if !strings.Contains(string(p.Body.HTML), `href="/rfcs/RFC-0002-mixnet#packet-format"`) {
		t.Errorf("markdown link not rewritten: %s", p.Body.HTML)
	}
	mix, _ := s.Page("/rfcs/RFC-0002-mixnet")
	if len(mix.Headings) != 1 || mix.Headings[0].ID != "packet-format" {
		t.Errorf("expected h2 heading tree, got %+v", mix.Headings)
	}
}

func TestBuild_BrokenLinks(t *testing.T) {
	fsys := testFS()
	fsys["rfcs/notes.md"] = &fstest.MapFile{Data: []byte("# Notes\n\n[gone](/rfcs/missing) and [pdf](/rfcs.pdf)\n")}

	_, err := Build(context.Background(), fsys, testOptions())
	var blErr *BrokenLinksError
	if !errors.As(err, &blErr) {
		t.Fatalf("expected *BrokenLinksError, got %v", err)
	}
	want := []BrokenLink{
		{Page: "/rfcs/notes", Target: "/rfcs.pdf"},
		{Page: "/rfcs/notes", Target: "/rfcs/missing"},
	}
	if diff := cmp.Diff(want, blErr.Links); diff != "" {
		t.Errorf("broken links mismatch (-want +got):\n%s", diff)
	}

	for _, policy := range []string{config.PolicyWarn, config.PolicyIgnore} {
		opts := testOptions()
		opts.Site.OnBrokenLinks = policy
		if _, err := Build(context.Background(), fsys, opts); err != nil {
			t.Errorf("policy %s: unexpected error: %v", policy, err)
		}
	}
}

func TestBuild_BrokenMarkdownLinksThrow(t *testing.T) {
	fsys := testFS()
	fsys["rfcs/notes.md"] = &fstest.MapFile{Data: []byte("# Notes\n\n[old](RFC-0009.md)\n")}

	opts := testOptions()
	if _, err := Build(context.Background(), fsys, opts); err != nil {
		t.Fatalf("warn policy should not fail: %v", err)
	}
	opts.Site.OnBrokenMarkdownRef = config.PolicyThrow
	_, err := Build(context.Background(), fsys, opts)
	var blErr *BrokenLinksError
	if !errors.As(err, &blErr) || blErr.Kind != "markdown links" {
		t.Fatalf("expected markdown links error, got %v", err)
	}
}

func TestBuild_BaseURLLinks(t *testing.T) {
	opts := testOptions()
	opts.Site.BaseURL = "/rfc/"
	s := build(t, testFS(), opts)

	intro, _ := s.Page("/rfcs/RFC-0001-intro")
	if !strings.Contains(string(intro.Body.HTML), `href="/rfc/rfcs/RFC-0002-mixnet#packet-format"`) {
		t.Errorf("markdown link missing base URL: %s", intro.Body.HTML)
	}
	mix, _ := s.Page("/rfcs/RFC-0002-mixnet")
	if !strings.Contains(string(mix.Body.HTML), `href="/rfc/rfcs/RFC-0001-intro"`) {
		t.Errorf("root-relative link missing base URL: %s", mix.Body.HTML)
	}

	fsys := testFS()
	fsys["rfcs/notes.md"] = &fstest.MapFile{Data: []byte("# Notes\n\nRaw <a href=\"/rfcs/RFC-0001-intro\">intro</a>.\n")}
	_, err := Build(context.Background(), fsys, opts)
	var blErr *BrokenLinksError
	if !errors.As(err, &blErr) {
		t.Fatalf("expected link without base URL to be broken, got %v", err)
	}
	want := []BrokenLink{{Page: "/rfcs/notes", Target: "/rfcs/RFC-0001-intro"}}
	if diff := cmp.Diff(want, blErr.Links); diff != "" {
		t.Errorf("broken links mismatch (-want +got):\n%s", diff)
	}

	fsys["rfcs/notes.md"] = &fstest.MapFile{Data: []byte("# Notes\n\nRaw <a href=\"/rfc/rfcs/RFC-0001-intro\">intro</a>.\n")}
	if _, err := Build(context.Background(), fsys, opts); err != nil {
		t.Errorf("link with base URL should resolve: %v", err)
	}
}

func TestBuild_PDFButton(t *testing.T) {
	fsys := testFS()
	fsys["rfcs/notes.md"] = &fstest.MapFile{Data: []byte("# Notes\n\nGet the [pdf](/rfcs.pdf).\n")}

	opts := testOptions()
	opts.PDF = &pdfexport.Asset{Path: "rfcs.pdf", Pages: 1}
	s := build(t, fsys, opts)

	var buf bytes.Buffer
	home, _ := s.Lookup("/")
	if err := s.RenderPage(&buf, home); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), web.DownloadPDFLabel) {
		t.Error("expected download button when a PDF is configured")
	}

	buf.Reset()
	plain := build(t, testFS(), testOptions())
	home, _ = plain.Lookup("/")
	if err := plain.RenderPage(&buf, home); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), web.DownloadPDFLabel) {
		t.Error("download button shown without a PDF")
	}
}

func TestBuild_InvalidConfig(t *testing.T) {
	opts := testOptions()
	opts.Site.BaseURL = "rfc"
	if _, err := Build(context.Background(), testFS(), opts); err == nil {
		t.Error("expected config validation error")
	}
}

func TestLookup(t *testing.T) {
	s := build(t, testFS(), testOptions())

	home, ok := s.Lookup("/")
	if !ok || home.Doc != nil || home.NotFound {
		t.Errorf("unexpected home page %+v", home)
	}
	if !strings.Contains(string(home.TOC), `href="/rfcs/RFC-0001-intro" data-client-nav`) {
		t.Errorf("home toc missing entry: %s", home.TOC)
	}

	doc, ok := s.Lookup("/rfcs/RFC-0002-mixnet")
	if !ok || doc.Doc == nil {
		t.Fatalf("expected doc page, got %+v", doc)
	}
	if doc.Title != "RFC-0002: Mixnet | HOPR RFCs" {
		t.Errorf("unexpected title %q", doc.Title)
	}
	if doc.Doc.Prev == nil || doc.Doc.Prev.Href != "/rfcs/RFC-0001-intro" {
		t.Errorf("unexpected prev link %+v", doc.Doc.Prev)
	}
	if doc.Doc.EditHref != "https://github.com/hoprnet/rfc/ui/rfcs/RFC-0002-mixnet.md" {
		t.Errorf("unexpected edit href %q", doc.Doc.EditHref)
	}

	nf, ok := s.Lookup("/nope")
	if ok || !nf.NotFound {
		t.Errorf("expected not found page, got ok=%v", ok)
	}
}

func TestStripBase(t *testing.T) {
	opts := testOptions()
	opts.Site.BaseURL = "/rfc/"
	s := build(t, testFS(), opts)

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"/rfc", "/", true},
		{"/rfc/", "/", true},
		{"/rfc/rfcs/notes", "/rfcs/notes", true},
		{"/rfcsx", "", false},
		{"/other", "", false},
	}
	for _, tt := range tests {
		got, ok := s.StripBase(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("StripBase(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}

	var buf bytes.Buffer
	d, _ := s.Lookup("/")
	if err := s.RenderPage(&buf, d); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), `href="/rfc/rfcs/RFC-0001-intro"`) {
		t.Error("expected base-prefixed toc links on landing page")
	}
}

func TestRenderFragment(t *testing.T) {
	s := build(t, testFS(), testOptions())
	d, _ := s.Lookup("/rfcs/RFC-0001-intro")
	frag, err := s.RenderFragment(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frag.Title != d.Title {
		t.Errorf("fragment title %q, want %q", frag.Title, d.Title)
	}
	if strings.Contains(frag.HTML, "<nav class=\"navbar\"") || strings.Contains(frag.HTML, "<html") {
		t.Error("fragment should not contain page chrome")
	}
	if !strings.Contains(frag.HTML, "RFC-0001: Intro") {
		t.Errorf("fragment missing document body: %s", frag.HTML)
	}
}

func TestWriteStatic(t *testing.T) {
	s := build(t, testFS(), testOptions())
	out := t.TempDir()
	static := t.TempDir()
	if err := os.WriteFile(filepath.Join(static, "robots.txt"), []byte("User-agent: *\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := s.WriteStatic(context.Background(), out, static, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Pages != 5 {
		t.Errorf("expected 5 pages (home, 404, 3 docs), got %d", res.Pages)
	}

	for _, f := range []string{
		"index.html",
		"404.html",
		"rfcs/RFC-0001-intro/index.html",
		"rfcs/notes/index.html",
		"sidebar.json",
		"toc.json",
		"robots.txt",
		"img/hopr_icon.svg",
		"assets/js/nav.js",
		"assets/css/highlight.css",
	} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(f))); err != nil {
			t.Errorf("missing %s: %v", f, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(out, "toc.json"))
	if err != nil {
		t.Fatal(err)
	}
	var entries []toc.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("invalid toc.json: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 toc entries, got %d", len(entries))
	}
}

func TestWriteStatic_Cancelled(t *testing.T) {
	s := build(t, testFS(), testOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.WriteStatic(ctx, t.TempDir(), "", 1); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
