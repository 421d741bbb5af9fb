package doctree

import "testing"

func TestBuild_Hierarchy(t *testing.T) {
	flat := []Heading{
		{Title: "Title", ID: "title", Level: 1},
		{Title: "Section A", ID: "section-a", Level: 2},
		{Title: "Subsection A1", ID: "subsection-a1", Level: 3},
		{Title: "Section B", ID: "section-b", Level: 2},
	}
	tree := Build(flat, 1, 6)

	if len(tree) != 1 {
		t.Fatalf("expected 1 top-level heading, got %d", len(tree))
	}
	h1 := tree[0]
	if h1.Title != "Title" {
		t.Errorf("expected %q, got %q", "Title", h1.Title)
	}
	if len(h1.Children) != 2 {
		t.Fatalf("expected 2 h2 children, got %d", len(h1.Children))
	}
	secA := h1.Children[0]
	if secA.ID != "section-a" {
		t.Errorf("expected id %q, got %q", "section-a", secA.ID)
	}
	if len(secA.Children) != 1 || secA.Children[0].Title != "Subsection A1" {
		t.Errorf("expected Subsection A1 under Section A, got %+v", secA.Children)
	}
	if h1.Children[1].Title != "Section B" {
		t.Errorf("expected %q, got %q", "Section B", h1.Children[1].Title)
	}
	if n := Count(tree); n != 4 {
		t.Errorf("expected count 4, got %d", n)
	}
}

func TestBuild_LevelRange(t *testing.T) {
	flat := []Heading{
		{Title: "Title", Level: 1},
		{Title: "A", Level: 2},
		{Title: "A1", Level: 3},
		{Title: "Deep", Level: 6},
		{Title: "B", Level: 2},
	}
	tree := Build(flat, 2, 5)
	if len(tree) != 2 {
		t.Fatalf("expected h2 headings at the top, got %d", len(tree))
	}
	if tree[0].Title != "A" || tree[1].Title != "B" {
		t.Errorf("unexpected top-level titles %q %q", tree[0].Title, tree[1].Title)
	}
	if n := Count(tree); n != 3 {
		t.Errorf("expected h1 and h6 to be dropped, count = %d", n)
	}
}

func TestBuild_SkippedLevel(t *testing.T) {
	flat := []Heading{
		{Title: "A", Level: 2},
		{Title: "A-deep", Level: 4},
		{Title: "A-mid", Level: 3},
	}
	tree := Build(flat, 2, 5)
	if len(tree) != 1 || len(tree[0].Children) != 2 {
		t.Fatalf("expected both deeper headings under A, got %+v", tree)
	}
}

func TestBuild_Empty(t *testing.T) {
	if tree := Build(nil, 2, 5); len(tree) != 0 {
		t.Errorf("expected no headings, got %d", len(tree))
	}
}
