package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jsvensson/customtheme/internal/exporter"
	"github.com/jsvensson/customtheme/internal/theme"
)

type importResponse struct {
	Imported bool `json:"imported"`
}

type themeResponse struct {
	Colors   theme.Colors   `json:"colors"`
	Metadata theme.Metadata `json:"metadata"`
}

type selectorBody struct {
	Selector theme.Selector `json:"selector"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) serveStylesheet(w http.ResponseWriter, r *http.Request) {
	css, err := s.theme.Stylesheet(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "rendering stylesheet", err)
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(css)))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(css))
}

func (s *Server) readTheme(w http.ResponseWriter, r *http.Request) {
	colors, metadata, err := s.theme.Read(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "reading theme", err)
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{Colors: colors, Metadata: metadata})
}

func (s *Server) clearTheme(w http.ResponseWriter, r *http.Request) {
	if err := s.theme.Clear(r.Context()); err != nil {
		s.fail(w, http.StatusInternalServerError, "clearing theme", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// importTheme answers 422 for any rejected document; the reason is only logged.
func (s *Server) importTheme(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.config.MaxImportBytes)
	if !s.theme.Import(r.Context(), body) {
		writeJSON(w, http.StatusUnprocessableEntity, importResponse{Imported: false})
		return
	}
	writeJSON(w, http.StatusOK, importResponse{Imported: true})
}

func (s *Server) exportTheme(w http.ResponseWriter, r *http.Request) {
	d, err := s.theme.ExportTheme(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "exporting theme", err)
		return
	}
	writeDownload(w, d)
}

func (s *Server) exportTemplate(w http.ResponseWriter, r *http.Request) {
	variant := chi.URLParam(r, "variant")
	d, err := s.theme.ExportTemplate(variant)
	if errors.Is(err, exporter.ErrUnknownVariant) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "exporting template", err)
		return
	}
	writeDownload(w, d)
}

func (s *Server) getSelector(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, selectorBody{Selector: s.theme.Selector()})
}

func (s *Server) putSelector(w http.ResponseWriter, r *http.Request) {
	var body selectorBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	sel, err := theme.ParseSelector(string(body.Selector))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.theme.SetSelector(r.Context(), sel); err != nil {
		s.fail(w, http.StatusInternalServerError, "setting selector", err)
		return
	}
	writeJSON(w, http.StatusOK, selectorBody{Selector: sel})
}

func (s *Server) fail(w http.ResponseWriter, status int, what string, err error) {
	log.Errorf("%s: %s", what, err.Error())
	writeJSON(w, status, errorResponse{Error: what + " failed"})
}

func writeDownload(w http.ResponseWriter, d exporter.Download) {
	w.Header().Set("Content-Type", d.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": d.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(d.Body)))
	w.WriteHeader(http.StatusOK)
	w.Write(d.Body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("writing response: %s", err.Error())
	}
}
