package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Broken link policies.
const (
	PolicyThrow  = "throw"
	PolicyWarn   = "warn"
	PolicyIgnore = "ignore"
)

// Site is the presentation config read from site.toml.
type Site struct {
	Title               string `toml:"title"`
	Tagline             string `toml:"tagline"`
	Description         string `toml:"description"`
	URL                 string `toml:"url"`
	BaseURL             string `toml:"base_url"`
	Favicon             string `toml:"favicon"`
	Image               string `toml:"image"`
	Logo                string `toml:"logo"`
	EditURL             string `toml:"edit_url"`
	Locale              string `toml:"locale"`
	OnBrokenLinks       string `toml:"on_broken_links"`
	OnBrokenMarkdownRef string `toml:"on_broken_markdown_links"`

	ColorMode       ColorMode       `toml:"color_mode"`
	Navbar          Navbar          `toml:"navbar"`
	Footer          Footer          `toml:"footer"`
	Prism           Prism           `toml:"prism"`
	TableOfContents TableOfContents `toml:"table_of_contents"`
	Mermaid         Mermaid         `toml:"mermaid"`
	Stylesheets     []Stylesheet    `toml:"stylesheets"`
}

type ColorMode struct {
	DefaultMode               string `toml:"default_mode"`
	DisableSwitch             bool   `toml:"disable_switch"`
	RespectPrefersColorScheme bool   `toml:"respect_prefers_color_scheme"`
}

type Navbar struct {
	Title   string       `toml:"title"`
	LogoAlt string       `toml:"logo_alt"`
	LogoSrc string       `toml:"logo_src"`
	Items   []NavbarItem `toml:"items"`
}

// NavbarItem is a navbar link. Type "docSidebar" points at the first
// document in the sidebar instead of Href.
type NavbarItem struct {
	Type     string `toml:"type"`
	Label    string `toml:"label"`
	Href     string `toml:"href"`
	Position string `toml:"position"` // "left" or "right"
}

type Footer struct {
	Style     string         `toml:"style"`
	Columns   []FooterColumn `toml:"columns"`
	Copyright string         `toml:"copyright"` // "{year}" is replaced with the current year
}

type FooterColumn struct {
	Title string       `toml:"title"`
	Items []NavbarItem `toml:"items"`
}

type Prism struct {
	Theme     string `toml:"theme"`
	DarkTheme string `toml:"dark_theme"`
}

type TableOfContents struct {
	MinHeadingLevel int `toml:"min_heading_level"`
	MaxHeadingLevel int `toml:"max_heading_level"`
}

type Mermaid struct {
	Enabled     bool `toml:"enabled"`
	MaxTextSize int  `toml:"max_text_size"`
}

type Stylesheet struct {
	Href        string `toml:"href"`
	Type        string `toml:"type"`
	Integrity   string `toml:"integrity"`
	CrossOrigin string `toml:"crossorigin"`
}

// DefaultSite returns the HOPR RFC site settings.
func DefaultSite() Site {
	return Site{
		Title:               "HOPR RFCs",
		Tagline:             "HOPR is cool, and decentralization is just the best",
		Description:         "Request for Comments (RFC) for HOPR protocol",
		URL:                 "https://rfc.hoprnet.org",
		BaseURL:             "/",
		Favicon:             "/img/hopr_icon.svg",
		Image:               "img/hopr_icon.svg",
		Logo:                "img/HOPR_logo.svg",
		EditURL:             "https://github.com/hoprnet/rfc/ui",
		Locale:              "en",
		OnBrokenLinks:       PolicyThrow,
		OnBrokenMarkdownRef: PolicyWarn,
		ColorMode: ColorMode{
			DefaultMode:   "dark",
			DisableSwitch: true,
		},
		Navbar: Navbar{
			Title:   "HOPR RFCs",
			LogoAlt: "HOPR Logo",
			LogoSrc: "img/hopr_icon.svg",
			Items: []NavbarItem{
				{Type: "docSidebar", Label: "Current Version", Position: "left"},
				{Label: "GitHub", Href: "https://github.com/hoprnet/rfc", Position: "right"},
			},
		},
		Footer: Footer{
			Style: "dark",
			Columns: []FooterColumn{
				{Title: "Docs", Items: []NavbarItem{
					{Label: "HOPR Docs", Href: "https://docs.hoprnet.org/"},
				}},
				{Title: "Community", Items: []NavbarItem{
					{Label: "Telegram", Href: "https://t.me/hoprnet"},
					{Label: "Discord", Href: "https://discord.com/invite/dEAWC4G"},
					{Label: "X", Href: "https://x.com/hoprnet"},
				}},
			},
			Copyright: "Copyright © {year} HOPR.",
		},
		Prism:           Prism{Theme: "github", DarkTheme: "dracula"},
		TableOfContents: TableOfContents{MinHeadingLevel: 2, MaxHeadingLevel: 5},
		Mermaid:         Mermaid{Enabled: true, MaxTextSize: 9999999},
		Stylesheets: []Stylesheet{{
			Href:        "https://cdn.jsdelivr.net/npm/katex@0.13.24/dist/katex.min.css",
			Type:        "text/css",
			Integrity:   "sha384-odtC+0UGzzFL/6PNoE8rX/SPcQDXBJ+uRepguP4QkPCm2LBxH3FA3y+fKSiJ+AmM",
			CrossOrigin: "anonymous",
		}},
	}
}

// LoadSite overlays the TOML file at path on DefaultSite. A missing file
// yields the defaults.
func LoadSite(path string) (Site, error) {
	site := DefaultSite()
	if path == "" {
		return site, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return site, nil
	}
	if _, err := toml.DecodeFile(path, &site); err != nil {
		return Site{}, fmt.Errorf("load site config: %w", err)
	}
	return site, nil
}

// Validate checks policies and heading levels.
func (s Site) Validate() error {
	if s.Title == "" {
		return fmt.Errorf("site title is required")
	}
	if !strings.HasPrefix(s.BaseURL, "/") || !strings.HasSuffix(s.BaseURL, "/") {
		return fmt.Errorf("base_url must start and end with '/': %q", s.BaseURL)
	}
	for name, p := range map[string]string{
		"on_broken_links":          s.OnBrokenLinks,
		"on_broken_markdown_links": s.OnBrokenMarkdownRef,
	} {
		switch p {
		case PolicyThrow, PolicyWarn, PolicyIgnore:
		default:
			return fmt.Errorf("%s: unknown policy %q", name, p)
		}
	}
	toc := s.TableOfContents
	if toc.MinHeadingLevel < 2 || toc.MaxHeadingLevel > 6 || toc.MinHeadingLevel > toc.MaxHeadingLevel {
		return fmt.Errorf("table_of_contents: invalid heading levels %d..%d", toc.MinHeadingLevel, toc.MaxHeadingLevel)
	}
	for _, it := range s.Navbar.Items {
		if it.Position != "" && it.Position != "left" && it.Position != "right" {
			return fmt.Errorf("navbar item %q: position must be left or right", it.Label)
		}
	}
	return nil
}

// CopyrightText expands "{year}" in the footer copyright.
func (s Site) CopyrightText(now time.Time) string {
	return strings.ReplaceAll(s.Footer.Copyright, "{year}", strconv.Itoa(now.Year()))
}

// NavItems returns navbar items with the given position.
func (s Site) NavItems(position string) []NavbarItem {
	var out []NavbarItem
	for _, it := range s.Navbar.Items {
		pos := it.Position
		if pos == "" {
			pos = "left"
		}
		if pos == position {
			out = append(out, it)
		}
	}
	return out
}
