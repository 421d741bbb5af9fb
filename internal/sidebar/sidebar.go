package sidebar

import (
	"encoding/json"
	"fmt"
)

// Tree is the ordered navigation tree shown in the docs sidebar.
type Tree []Node

// Node is either a *Category or a *Link.
type Node interface {
	NodeType() string
	NodeLabel() string
}

// Category groups child nodes. It is not itself navigable unless Href is set.
type Category struct {
	Label    string
	Href     string
	Position int
	Items    Tree
}

// Link is a leaf pointing at a document route.
type Link struct {
	Label    string
	Href     string
	DocID    string
	Position int
}

const (
	TypeCategory = "category"
	TypeLink     = "link"
)

func (c *Category) NodeType() string  { return TypeCategory }
func (c *Category) NodeLabel() string { return c.Label }
func (l *Link) NodeType() string      { return TypeLink }
func (l *Link) NodeLabel() string     { return l.Label }

// wireNode is the JSON shape exchanged with the client and external tools.
type wireNode struct {
	Type  string            `json:"type"`
	Label string            `json:"label"`
	Href  string            `json:"href,omitempty"`
	DocID string            `json:"docId,omitempty"`
	Items []json.RawMessage `json:"items,omitempty"`
}

type wireOut struct {
	Type  string    `json:"type"`
	Label string    `json:"label"`
	Href  string    `json:"href,omitempty"`
	DocID string    `json:"docId,omitempty"`
	Items []wireOut `json:"items,omitempty"`
}

// MarshalJSON encodes the tree with a "type" discriminator per node.
func (t Tree) MarshalJSON() ([]byte, error) {
	out := toWire(t)
	if out == nil {
		out = []wireOut{}
	}
	return json.Marshal(out)
}

func toWire(t Tree) []wireOut {
	var out []wireOut
	for _, n := range t {
		switch n := n.(type) {
		case *Category:
			if n == nil {
				continue
			}
			out = append(out, wireOut{Type: TypeCategory, Label: n.Label, Href: n.Href, Items: toWire(n.Items)})
		case *Link:
			if n == nil {
				continue
			}
			out = append(out, wireOut{Type: TypeLink, Label: n.Label, Href: n.Href, DocID: n.DocID})
		}
	}
	return out
}

// Decode parses a JSON navigation tree. Nodes with an unknown type, a
// missing label or an unexpected shape are dropped; only malformed JSON at
// the top level is reported as an error.
func Decode(data []byte) (Tree, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode sidebar: %w", err)
	}
	return decodeNodes(raw), nil
}

// UnmarshalJSON implements json.Unmarshaler using Decode semantics.
func (t *Tree) UnmarshalJSON(data []byte) error {
	tree, err := Decode(data)
	if err != nil {
		return err
	}
	*t = tree
	return nil
}

func decodeNodes(raw []json.RawMessage) Tree {
	var tree Tree
	for _, r := range raw {
		var w wireNode
		if err := json.Unmarshal(r, &w); err != nil {
			continue
		}
		switch w.Type {
		case TypeCategory:
			tree = append(tree, &Category{Label: w.Label, Href: w.Href, Items: decodeNodes(w.Items)})
		case TypeLink:
			if w.Label == "" || w.Href == "" {
				continue
			}
			tree = append(tree, &Link{Label: w.Label, Href: w.Href, DocID: w.DocID})
		}
	}
	return tree
}

// Links returns every link in the tree in depth-first order.
func (t Tree) Links() []*Link {
	var out []*Link
	for _, n := range t {
		switch n := n.(type) {
		case *Category:
			if n != nil {
				out = append(out, n.Items.Links()...)
			}
		case *Link:
			if n != nil {
				out = append(out, n)
			}
		}
	}
	return out
}

// Neighbors returns the links before and after href in reading order.
// Either may be nil.
func (t Tree) Neighbors(href string) (prev, next *Link) {
	links := t.Links()
	for i, l := range links {
		if l.Href != href {
			continue
		}
		if i > 0 {
			prev = links[i-1]
		}
		if i+1 < len(links) {
			next = links[i+1]
		}
		return prev, next
	}
	return nil, nil
}
