package api

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/dgallion1/rfcsite/internal/site"
	"github.com/dgallion1/rfcsite/internal/web"
	"github.com/go-chi/chi/v5"
)

// ClientNavHeader marks fetches made by the client navigation script.
// Such requests receive a JSON fragment instead of a full page.
const ClientNavHeader = "X-Client-Nav"

// handlePage serves the landing page, documents, files from the static
// directory and finally the 404 page.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	cur := s.sites.Current()
	route, ok := cur.StripBase(r.URL.Path)
	if !ok {
		s.writePage(w, r, cur, cur.NotFoundData(), http.StatusNotFound)
		return
	}

	data, found := cur.Lookup(route)
	if found {
		s.writePage(w, r, cur, data, http.StatusOK)
		return
	}
	if s.serveFile(w, r, route) {
		return
	}
	s.writePage(w, r, cur, data, http.StatusNotFound)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, cur *site.Site, data web.PageData, status int) {
	w.Header().Add("Vary", ClientNavHeader)

	if r.Header.Get(ClientNavHeader) != "" {
		frag, err := cur.RenderFragment(data)
		if err != nil {
			s.log.Error("render fragment", "path", r.URL.Path, "error", err)
			jsonError(w, "render failed", http.StatusInternalServerError)
			return
		}
		body, err := json.Marshal(frag)
		if err != nil {
			jsonError(w, "encode failed", http.StatusInternalServerError)
			return
		}
		writeCached(w, r, "application/json", body, status)
		return
	}

	var buf bytes.Buffer
	if err := cur.RenderPage(&buf, data); err != nil {
		s.log.Error("render page", "path", r.URL.Path, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	writeCached(w, r, "text/html; charset=utf-8", buf.Bytes(), status)
}

// writeCached writes body with a content ETag, answering 304 when the
// client already has it. Only 200 responses are cacheable.
func writeCached(w http.ResponseWriter, r *http.Request, contentType string, body []byte, status int) {
	w.Header().Set("Content-Type", contentType)
	if status == http.StatusOK {
		etag := `"` + site.ContentHashHex(body)[:16] + `"`
		w.Header().Set("ETag", etag)
		if etagMatches(r.Header.Get("If-None-Match"), etag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		w.Write(body)
	}
}

func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

// serveFile looks route up in the static directory and then in the
// embedded assets, so "/img/logo.svg" works without the "/assets" prefix.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, route string) bool {
	name := strings.TrimPrefix(path.Clean(route), "/")
	if name == "" || name == "." {
		return false
	}
	if s.staticDir != "" {
		if fsys := os.DirFS(s.staticDir); isFile(fsys, name) {
			http.ServeFileFS(w, r, fsys, name)
			return true
		}
	}
	if assets := web.Assets(); isFile(assets, name) {
		http.ServeFileFS(w, r, assets, name)
		return true
	}
	return false
}

func isFile(fsys fs.FS, name string) bool {
	st, err := fs.Stat(fsys, name)
	return err == nil && !st.IsDir()
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	name := path.Clean(chi.URLParam(r, "*"))
	assets := web.Assets()
	if !fs.ValidPath(name) || !isFile(assets, name) {
		cur := s.sites.Current()
		s.writePage(w, r, cur, cur.NotFoundData(), http.StatusNotFound)
		return
	}
	http.ServeFileFS(w, r, assets, name)
}

func (s *Server) handleHighlightCSS(w http.ResponseWriter, r *http.Request) {
	writeCached(w, r, "text/css; charset=utf-8", []byte(s.sites.Current().HighlightCSS()), http.StatusOK)
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	cur := s.sites.Current()
	pdf := cur.PDF()
	if pdf == nil {
		s.writePage(w, r, cur, cur.NotFoundData(), http.StatusNotFound)
		return
	}
	pdf.ServeHTTP(w, r)
}
