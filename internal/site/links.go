package site

import (
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/dgallion1/rfcsite/internal/config"
	"github.com/dgallion1/rfcsite/internal/pdfexport"
)

// BrokenLink is a link in a document that points nowhere.
type BrokenLink struct {
	Page   string // route of the page containing the link
	Target string // href as written
}

// BrokenLinksError lists every broken link found during a build.
type BrokenLinksError struct {
	Kind  string // "links" or "markdown links"
	Links []BrokenLink
}

func (e *BrokenLinksError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d broken %s:", len(e.Links), e.Kind)
	for _, l := range e.Links {
		fmt.Fprintf(&b, "\n  %s -> %s", l.Page, l.Target)
	}
	return b.String()
}

// checkLinks applies the configured policies to unresolved markdown file
// references and to site-relative links that match no route.
func (s *Site) checkLinks() error {
	var broken, brokenMD []BrokenLink
	for _, route := range s.routes {
		p := s.pages[route]
		for _, target := range p.Body.BrokenMarkdownLinks {
			brokenMD = append(brokenMD, BrokenLink{Page: route, Target: target})
		}
		for _, target := range p.Body.Links {
			if !s.linkResolves(route, target) {
				broken = append(broken, BrokenLink{Page: route, Target: target})
			}
		}
	}

	if err := s.applyPolicy(s.cfg.OnBrokenMarkdownRef, "markdown links", brokenMD); err != nil {
		return err
	}
	return s.applyPolicy(s.cfg.OnBrokenLinks, "links", broken)
}

func (s *Site) applyPolicy(policy, kind string, links []BrokenLink) error {
	if len(links) == 0 {
		return nil
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].Page != links[j].Page {
			return links[i].Page < links[j].Page
		}
		return links[i].Target < links[j].Target
	})
	switch policy {
	case config.PolicyThrow:
		return &BrokenLinksError{Kind: kind, Links: links}
	case config.PolicyWarn:
		for _, l := range links {
			s.log.Warn("broken "+kind, "page", l.Page, "target", l.Target)
		}
	}
	return nil
}

// linkResolves reports whether href, found on the page at route, points at
// a document, the landing page or the PDF. Root-relative links must carry
// the base URL. External links, anchors and links to files with an
// extension other than the PDF are not checked.
func (s *Site) linkResolves(route, href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	if u.Scheme != "" || u.Host != "" || u.Path == "" {
		return true
	}

	if ext := path.Ext(u.Path); strings.EqualFold(ext, ".md") || strings.EqualFold(ext, ".markdown") {
		// Already reported by the markdown link check.
		return true
	}

	target := u.Path
	if strings.HasPrefix(target, "/") {
		stripped, ok := s.StripBase(target)
		if !ok {
			return false
		}
		target = stripped
	} else {
		base, _ := url.Parse(route)
		target = base.ResolveReference(u).Path
	}

	if path.Ext(target) != "" {
		return target != pdfexport.Route || s.pdf != nil
	}
	target = normalizeRoute(target)
	if target == "/" {
		return true
	}
	_, ok := s.pages[target]
	return ok
}
