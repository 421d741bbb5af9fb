package web

import (
	"bytes"
	"html/template"
)

// Button variants.
const (
	VariantPrimary  = "primary"  // blue gradient
	VariantOutlined = "outlined" // transparent with a white border
)

// DownloadPDFLabel is the fixed caption of the PDF download button.
const DownloadPDFLabel = "Download as PDF"

type buttonData struct {
	Label     string
	Href      string
	Variant   string
	ClientNav bool
	Download  bool
}

// Button renders a styled link button. Site-relative targets use client
// navigation.
func (u *UI) Button(label, href, variant string) template.HTML {
	if variant != VariantOutlined {
		variant = VariantPrimary
	}
	return u.renderButton(buttonData{
		Label:     label,
		Href:      href,
		Variant:   variant,
		ClientNav: isLocal(href),
	})
}

// DownloadPDFButton renders the outlined "Download as PDF" button.
func (u *UI) DownloadPDFButton(href string) template.HTML {
	return u.renderButton(buttonData{
		Label:    DownloadPDFLabel,
		Href:     href,
		Variant:  VariantOutlined,
		Download: true,
	})
}

func (u *UI) renderButton(d buttonData) template.HTML {
	var buf bytes.Buffer
	if err := u.tmpl.ExecuteTemplate(&buf, "button", d); err != nil {
		return ""
	}
	return template.HTML(buf.String())
}

func isLocal(href string) bool {
	return len(href) > 0 && href[0] == '/' && (len(href) == 1 || href[1] != '/')
}
