package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// WordsPerMinute is the reading speed used for ReadingTime.
const WordsPerMinute = 200

// Document is a single RFC page loaded from the content directory.
type Document struct {
	ID          string
	Title       string
	Label       string // sidebar label
	Description string
	Position    int    // sidebar position, 0 when unset
	Dir         string // slash-separated directory relative to the content root
	SourcePath  string // slash-separated file path relative to the content root
	Route       string
	Body        []byte // markdown without front matter
	Words       int
}

// ReadingTime estimates how long the document takes to read, rounded up
// to whole minutes.
func (d Document) ReadingTime() time.Duration {
	if d.Words == 0 {
		return 0
	}
	minutes := (d.Words + WordsPerMinute - 1) / WordsPerMinute
	return time.Duration(minutes) * time.Minute
}

// Category is sidebar metadata for a content directory.
type Category struct {
	Dir      string
	Label    string
	Position int
}

// Collection is everything loaded from a content directory.
type Collection struct {
	Docs       []Document
	Categories map[string]Category
}

// ErrRouteConflict is returned when two documents resolve to the same
// route or a document claims the landing page.
var ErrRouteConflict = errors.New("route conflict")

var numberPrefix = regexp.MustCompile(`^(\d+)[-_. ]+(.+)$`)

var titleCaser = cases.Title(language.English, cases.NoLower)

// LoadDir loads the collection rooted at dir on the local filesystem.
func LoadDir(dir string) (*Collection, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	return Load(os.DirFS(dir))
}

// Load walks fsys and reads every supported document and category file.
func Load(fsys fs.FS) (*Collection, error) {
	c := &Collection{Categories: make(map[string]Category)}
	routes := make(map[string]string)

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if p != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return fs.SkipDir
			}
			return nil
		}
		dir := path.Dir(p)
		if dir == "." {
			dir = ""
		}

		if isCategoryFile(name) {
			data, err := fs.ReadFile(fsys, p)
			if err != nil {
				return fmt.Errorf("read %s: %w", p, err)
			}
			cat, err := parseCategory(data)
			if err != nil {
				return fmt.Errorf("parse %s: %w", p, err)
			}
			cat.Dir = dir
			c.Categories[dir] = cat
			return nil
		}

		if strings.HasPrefix(name, "_") || !IsSupported(name) {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		doc, err := parseDocument(p, dir, data)
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		if doc.Route == "/" {
			return fmt.Errorf("%s: %w: document claims the landing page", p, ErrRouteConflict)
		}
		if prev, ok := routes[doc.Route]; ok {
			return fmt.Errorf("%s and %s: %w: %s", prev, p, ErrRouteConflict, doc.Route)
		}
		routes[doc.Route] = p
		c.Docs = append(c.Docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Directories without a category file still get a label.
	for _, doc := range c.Docs {
		for dir := doc.Dir; dir != ""; dir = parentDir(dir) {
			if _, ok := c.Categories[dir]; !ok {
				c.Categories[dir] = Category{Dir: dir, Label: dirLabel(dir)}
			}
		}
	}
	for dir, cat := range c.Categories {
		if cat.Label == "" {
			cat.Label = dirLabel(dir)
			c.Categories[dir] = cat
		}
	}

	sort.SliceStable(c.Docs, func(i, j int) bool {
		return c.Docs[i].SourcePath < c.Docs[j].SourcePath
	})
	return c, nil
}

// Find returns the document with the given ID, route or "RFC-####" prefix.
func (c *Collection) Find(key string) (Document, bool) {
	for _, d := range c.Docs {
		if d.ID == key || d.Route == key || strings.TrimSuffix(d.Route, "/") == "/"+strings.Trim(key, "/") {
			return d, true
		}
	}
	upper := strings.ToUpper(key)
	for _, d := range c.Docs {
		if strings.HasPrefix(strings.ToUpper(d.Label), upper) || strings.HasPrefix(strings.ToUpper(d.ID), upper) {
			return d, true
		}
	}
	return Document{}, false
}

// IsSupported reports whether name is a document format the loader reads.
func IsSupported(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown", ".docx":
		return true
	}
	return false
}

func isCategoryFile(name string) bool {
	switch name {
	case "_category_.json", "_category_.yml", "_category_.yaml":
		return true
	}
	return false
}

func parseDocument(p, dir string, data []byte) (Document, error) {
	name := path.Base(p)
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	var (
		fm   FrontMatter
		body []byte
		err  error
	)
	if strings.EqualFold(ext, ".docx") {
		body, err = DocxToMarkdown(data)
		if err != nil {
			return Document{}, err
		}
	} else {
		fm, body, err = SplitFrontMatter(data)
		if err != nil {
			return Document{}, err
		}
	}

	position := fm.SidebarPosition
	if m := numberPrefix.FindStringSubmatch(stem); m != nil {
		stem = m[2]
		if position == 0 {
			position, _ = strconv.Atoi(m[1])
		}
	}

	heading := firstHeading(body)
	doc := Document{
		ID:          firstNonEmpty(fm.ID, stem),
		Title:       firstNonEmpty(fm.Title, heading, stem),
		Description: fm.Description,
		Position:    position,
		Dir:         dir,
		SourcePath:  p,
		Body:        body,
		Words:       len(strings.Fields(string(body))),
	}
	doc.Label = firstNonEmpty(fm.SidebarLabel, doc.Title)
	doc.Route = route(dir, stem, fm.Slug)
	return doc, nil
}

func route(dir, stem, slug string) string {
	if slug != "" {
		if strings.HasPrefix(slug, "/") {
			return cleanRoute(slug)
		}
		return cleanRoute("/" + path.Join(dir, slug))
	}
	switch strings.ToLower(stem) {
	case "index", "readme":
		return cleanRoute("/" + dir)
	}
	if dir != "" && path.Base(dir) == stem {
		return cleanRoute("/" + dir)
	}
	return cleanRoute("/" + path.Join(dir, stem))
}

func cleanRoute(r string) string {
	return path.Clean("/" + r)
}

func firstHeading(body []byte) string {
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}

func dirLabel(dir string) string {
	base := path.Base(dir)
	if m := numberPrefix.FindStringSubmatch(base); m != nil {
		base = m[2]
	}
	return titleCaser.String(strings.NewReplacer("-", " ", "_", " ").Replace(base))
}

func parentDir(dir string) string {
	p := path.Dir(dir)
	if p == "." {
		return ""
	}
	return p
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
