package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/rfcsite/internal/toc"
)

// handleSidebar returns the navigation tree as JSON.
func (s *Server) handleSidebar(w http.ResponseWriter, r *http.Request) {
	body, err := json.Marshal(s.sites.Current().Sidebar())
	if err != nil {
		jsonError(w, "failed to encode sidebar: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeCached(w, r, "application/json", body, http.StatusOK)
}

// handleTOC returns the RFC table of contents entries.
func (s *Server) handleTOC(w http.ResponseWriter, r *http.Request) {
	entries := s.sites.Current().TOC()
	if entries == nil {
		entries = []toc.Entry{}
	}
	body, err := json.Marshal(entries)
	if err != nil {
		jsonError(w, "failed to encode toc: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeCached(w, r, "application/json", body, http.StatusOK)
}
