package sidebar

import (
	"path"
	"sort"
	"strings"

	"github.com/dgallion1/rfcsite/internal/content"
)

// Generate builds the sidebar from a loaded collection. Directories become
// categories and documents become links. Siblings are ordered by position,
// with unpositioned entries after positioned ones, then by name.
func Generate(c *content.Collection) Tree {
	root := &Category{}
	cats := map[string]*Category{"": root}

	var ensure func(dir string) *Category
	ensure = func(dir string) *Category {
		if cat, ok := cats[dir]; ok {
			return cat
		}
		meta := c.Categories[dir]
		cat := &Category{Label: meta.Label, Position: meta.Position}
		if cat.Label == "" {
			cat.Label = path.Base(dir)
		}
		cats[dir] = cat
		parent := path.Dir(dir)
		if parent == "." {
			parent = ""
		}
		p := ensure(parent)
		p.Items = append(p.Items, cat)
		return cat
	}

	for _, doc := range c.Docs {
		cat := ensure(doc.Dir)
		cat.Items = append(cat.Items, &Link{
			Label:    doc.Label,
			Href:     doc.Route,
			DocID:    doc.ID,
			Position: doc.Position,
		})
	}

	sortTree(root.Items)
	return root.Items
}

func sortTree(t Tree) {
	sort.SliceStable(t, func(i, j int) bool {
		pi, pj := position(t[i]), position(t[j])
		if pi != pj {
			if pi == 0 {
				return false
			}
			if pj == 0 {
				return true
			}
			return pi < pj
		}
		return strings.ToLower(t[i].NodeLabel()) < strings.ToLower(t[j].NodeLabel())
	})
	for _, n := range t {
		if cat, ok := n.(*Category); ok {
			sortTree(cat.Items)
		}
	}
}

func position(n Node) int {
	switch n := n.(type) {
	case *Category:
		return n.Position
	case *Link:
		return n.Position
	}
	return 0
}
