package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Manju4599/data-cleaner-app/internal/clean"
	"github.com/Manju4599/data-cleaner-app/internal/ingest"
	"github.com/Manju4599/data-cleaner-app/internal/observe"
	"github.com/Manju4599/data-cleaner-app/internal/storage"
	"github.com/Manju4599/data-cleaner-app/internal/table"
)

// previewRows bounds how many data rows a preview response carries.
const previewRows = 10

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// handleClean ingests an upload, runs the cleaning pipeline, and stores
// the cleaned file plus its report for later download.
func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	file, header, ok := s.acceptUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	stored, err := s.store.SaveUpload(header.Filename, file)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	path, err := s.store.Path(stored)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	obs := observe.NewLogObserver(s.logger)
	resolved, err := ingest.NewResolver(obs).Resolve(path)
	if err != nil {
		s.respondResolveError(w, err)
		return
	}

	cfg := s.cleanConfig(r)
	cleaned, rep := clean.NewEngine(obs).Clean(resolved, cfg)

	base := strings.TrimSuffix(stored, filepath.Ext(stored))
	cleanedName := base + "_cleaned.csv"
	format := strings.ToLower(r.FormValue("format"))
	if format == "json" {
		cleanedName = base + "_cleaned.json"
	}
	cleanedPath, err := s.store.Path(cleanedName)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if format == "json" {
		err = cleaned.WriteJSON(cleanedPath)
	} else {
		err = cleaned.WriteCSV(cleanedPath)
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	reportName := base + "_report.json"
	body, err := rep.JSON()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if _, err := s.store.SaveBytes(reportName, body); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, map[string]any{
		"source":       stored,
		"cleaned_file": cleanedName,
		"report_file":  reportName,
		"report":       rep.ToMap(),
	})
}

// handlePreview resolves an upload and returns its shape, per-column
// profile, and the first rows without cleaning anything.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	file, header, ok := s.acceptUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	stored, err := s.store.SaveUpload(header.Filename, file)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer s.store.Remove(stored)

	path, err := s.store.Path(stored)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resolved, err := ingest.NewResolver(observe.NewLogObserver(s.logger)).Resolve(path)
	if err != nil {
		s.respondResolveError(w, err)
		return
	}

	s.writeJSON(w, map[string]any{
		"columns":   resolved.Columns,
		"row_count": len(resolved.Rows),
		"profile":   clean.Profile(resolved),
		"rows":      headRows(resolved, previewRows),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !strings.HasSuffix(name, "_report.json") {
		s.writeError(w, http.StatusBadRequest, "not a report file")
		return
	}
	f, err := s.store.Open(name)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "report not found")
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", "application/json")
	io.Copy(w, f)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	f, err := s.store.Open(name)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "file not found")
		return
	}
	defer f.Close()
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Type", "application/octet-stream")
	io.Copy(w, f)
}

// acceptUpload enforces the size cap and extension allowlist, returning
// the multipart file when the upload is acceptable.
func (s *Server) acceptUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return nil, nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "no file provided")
		return nil, nil, false
	}
	if !storage.Allowed(header.Filename) {
		file.Close()
		s.writeError(w, http.StatusBadRequest, "unsupported file type")
		return nil, nil, false
	}
	return file, header, true
}

// cleanConfig merges the configured defaults with per-request form
// overrides.
func (s *Server) cleanConfig(r *http.Request) clean.Config {
	opts := map[string]any{
		"missing_threshold": s.cfg.MissingThreshold,
		"handle_missing":    s.cfg.HandleMissing,
		"handle_duplicates": s.cfg.HandleDuplicates,
		"standardize_text":  s.cfg.StandardizeText,
	}
	for _, key := range []string{"missing_threshold", "handle_missing", "handle_duplicates", "standardize_text"} {
		if v := r.FormValue(key); v != "" {
			opts[key] = v
		}
	}
	return clean.ConfigFromMap(opts)
}

func (s *Server) respondResolveError(w http.ResponseWriter, err error) {
	var unreadable *ingest.UnreadableError
	if errors.As(err, &unreadable) {
		s.writeError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("could not parse file after %d attempts", len(unreadable.Attempts)))
		return
	}
	s.writeError(w, http.StatusInternalServerError, err.Error())
}

func headRows(t *table.Table, n int) [][]string {
	if len(t.Rows) < n {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}

// writeError writes a JSON error response and logs the detail.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.logger.Warn("request failed", zap.Int("status", status), zap.String("error", message))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":%q}`, message)
}

// writeJSON encodes v as JSON and writes it to w.
func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("json encode", zap.Error(err))
	}
}
