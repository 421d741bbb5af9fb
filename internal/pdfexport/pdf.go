// Package pdfexport manages the optional PDF rendition of the RFC
// collection that the site offers for download.
package pdfexport

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	pdflib "github.com/ledongthuc/pdf"
)

// ErrNotConfigured is returned when no PDF path is set.
var ErrNotConfigured = errors.New("pdf export not configured")

// Route is where the PDF is served.
const Route = "/rfcs.pdf"

// Asset describes a validated PDF file.
type Asset struct {
	Path    string
	Pages   int
	Size    int64
	ModTime time.Time
	ETag    string
	Title   string // first non-empty line of page 1, if any
}

// Open validates the PDF at path and reads its page count.
func Open(path string) (*Asset, error) {
	if path == "" {
		return nil, ErrNotConfigured
	}
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat pdf: %w", err)
	}

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("open pdf: %s has no pages", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	sum := sha256.Sum256(data)

	return &Asset{
		Path:    path,
		Pages:   numPages,
		Size:    st.Size(),
		ModTime: st.ModTime(),
		ETag:    fmt.Sprintf(`"%x"`, sum[:8]),
		Title:   firstLine(reader),
	}, nil
}

func firstLine(reader *pdflib.Reader) string {
	page := reader.Page(1)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// ServeHTTP streams the PDF as an attachment.
func (a *Asset) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f, err := os.Open(a.Path)
	if err != nil {
		http.Error(w, "pdf unavailable", http.StatusNotFound)
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="rfcs.pdf"`)
	w.Header().Set("ETag", a.ETag)
	http.ServeContent(w, r, "rfcs.pdf", a.ModTime, f)
}
