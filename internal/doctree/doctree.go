package doctree

// Heading is a single heading found in a rendered document.
type Heading struct {
	Title    string     // Heading text
	ID       string     // Anchor id, used as "#id" target
	Level    int        // 1-6
	Children []*Heading // Nested subheadings
}

// Build nests a flat list of headings by level, keeping only levels in
// [minLevel, maxLevel]. A heading whose level skips ahead of its parent is
// still attached to the nearest shallower heading.
func Build(flat []Heading, minLevel, maxLevel int) []*Heading {
	type stackEntry struct {
		node  *Heading
		level int
	}

	root := &Heading{}
	stack := []stackEntry{{node: root, level: 0}}

	for _, h := range flat {
		if h.Level < minLevel || h.Level > maxLevel {
			continue
		}
		node := &Heading{Title: h.Title, ID: h.ID, Level: h.Level}

		// Pop until the top of the stack is shallower than this heading.
		for len(stack) > 1 && stack[len(stack)-1].level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].node
		parent.Children = append(parent.Children, node)
		stack = append(stack, stackEntry{node: node, level: h.Level})
	}
	return root.Children
}

// Count returns the number of headings in the forest.
func Count(nodes []*Heading) int {
	n := 0
	for _, h := range nodes {
		n += 1 + Count(h.Children)
	}
	return n
}
