package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dgallion1/rfcsite/internal/doctree"
	"golang.org/x/net/html"
)

// Inspect walks rendered HTML and returns its headings and link targets.
func Inspect(doc []byte) ([]doctree.Heading, []string, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, nil, fmt.Errorf("parse html: %w", err)
	}

	var (
		headings []doctree.Heading
		links    []string
	)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				headings = append(headings, doctree.Heading{
					Title: textContent(n),
					ID:    attr(n, "id"),
					Level: level,
				})
			}
			if n.Data == "a" {
				if href := attr(n, "href"); href != "" {
					links = append(links, href)
				}
			}
			// Diagram and math sources are not prose.
			if n.Data == "pre" && hasClass(n, "mermaid") {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return headings, links, nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
