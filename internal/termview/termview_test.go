package termview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dgallion1/rfcsite/internal/content"
	"github.com/dgallion1/rfcsite/internal/toc"
)

func TestTOC(t *testing.T) {
	var buf bytes.Buffer
	entries := []toc.Entry{
		{Label: "RFC-0001: Intro", Href: "/rfcs/RFC-0001"},
		{Label: "RFC-0010: Session protocol", Href: "/rfcs/RFC-0010"},
	}
	if err := TOC(&buf, entries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	for i, e := range entries {
		if !strings.Contains(lines[i], e.Label) || !strings.Contains(lines[i], e.Href) {
			t.Errorf("line %d = %q, want label and href of %+v", i, lines[i], e)
		}
	}
}

func TestTOC_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := TOC(&buf, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "no RFCs found") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestDocument(t *testing.T) {
	doc := content.Document{
		Title: "RFC-0002: Mixnet",
		Route: "/rfcs/RFC-0002",
		Body:  []byte("## Packet format\n\nPackets are **fixed size**.\n"),
		Words: 450,
	}
	var buf bytes.Buffer
	if err := Document(&buf, doc, Options{Width: 60, Style: "notty"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"RFC-0002: Mixnet", "/rfcs/RFC-0002 · 3 min read", "Packet format", "fixed size"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}
