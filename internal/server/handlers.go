package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	units "github.com/docker/go-units"
	"github.com/go-chi/chi/v5"

	"github.com/mwiater/evalview/internal/report"
	"github.com/mwiater/evalview/internal/report/htmlview"
	"github.com/mwiater/evalview/internal/results"
)

const (
	uploadPath  = "/upload"
	uploadField = "file"

	// multipartOverhead covers part headers and boundaries around the file.
	multipartOverhead = 16 << 10
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v as JSON and writes it to w.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "encoding response", http.StatusInternalServerError)
	}
}

func (s *server) writeErrorPage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := htmlview.WriteError(w, htmlview.ErrorPage{Message: message, UploadAction: uploadPath}); err != nil {
		s.log.WithError(err).Warn("Failed to render error page")
	}
}

// selectionFromQuery reads the successful/failed parameters. A missing or
// unparsable value keeps the default; repeated values resolve to the last.
func selectionFromQuery(q url.Values, def results.Selection) results.Selection {
	sel := def
	sel.IncludeSuccessful = boolParam(q, "successful", def.IncludeSuccessful)
	sel.IncludeFailed = boolParam(q, "failed", def.IncludeFailed)
	return sel
}

func boolParam(q url.Values, key string, def bool) bool {
	values := q[key]
	if len(values) == 0 {
		return def
	}
	v, err := strconv.ParseBool(values[len(values)-1])
	if err != nil {
		return def
	}
	return v
}

func (s *server) renderReport(w http.ResponseWriter, r *http.Request, doc *results.Document, name, action string) {
	rep := report.Build(doc, selectionFromQuery(r.URL.Query(), s.opts.Selection))

	opts := htmlview.Options{
		Interactive:  true,
		FilterAction: action,
		UploadAction: uploadPath,
	}
	if name != "" {
		opts.Notice = fmt.Sprintf("Loaded %s", name)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := htmlview.Write(w, rep, opts); err != nil {
		s.log.WithError(err).Error("Failed to render report")
		http.Error(w, "rendering report", http.StatusInternalServerError)
		return
	}
	s.metrics.reports.WithLabelValues("html").Inc()
}

// handleIndex shows the preloaded document, or the upload form when the
// server was started without one.
func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.opts.Document == nil {
		s.handleUploadForm(w, r)
		return
	}
	s.renderReport(w, r, s.opts.Document, s.opts.DocumentName, "/")
}

func (s *server) handleUploadForm(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := htmlview.UploadPage{
		UploadAction:  uploadPath,
		MaxUploadSize: units.HumanSize(float64(s.opts.MaxUploadBytes)),
	}
	if err := htmlview.WriteUpload(w, page); err != nil {
		s.log.WithError(err).Error("Failed to render upload form")
		http.Error(w, "rendering upload form", http.StatusInternalServerError)
	}
}

// handleUpload parses an uploaded log into a new session and redirects to it.
// The upload limit is a file size; the request body may exceed it by the
// multipart framing allowance.
func (s *server) handleUpload(w http.ResponseWriter, r *http.Request) {
	limit := s.opts.MaxUploadBytes + multipartOverhead
	if r.ContentLength > limit {
		s.rejectTooLarge(w)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.rejectTooLarge(w)
			return
		}
		s.metrics.uploads.WithLabelValues(uploadInvalid).Inc()
		s.writeErrorPage(w, http.StatusBadRequest, "No file uploaded. Please choose a JSON file.")
		return
	}
	defer file.Close()
	if header.Size > s.opts.MaxUploadBytes {
		s.rejectTooLarge(w)
		return
	}

	name := filepath.Base(header.Filename)
	log := s.log.WithField("file", name)

	doc, err := results.Decode(file)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			s.rejectTooLarge(w)
		case errors.Is(err, results.ErrInvalidJSON):
			log.WithError(err).Info("Rejected upload")
			s.metrics.uploads.WithLabelValues(uploadInvalid).Inc()
			s.writeErrorPage(w, http.StatusBadRequest, fmt.Sprintf("Error: Invalid JSON file - %v", err))
		default:
			log.WithError(err).Error("Failed to read upload")
			s.writeErrorPage(w, http.StatusInternalServerError, fmt.Sprintf("Error loading file: %v", err))
		}
		return
	}

	sess, err := s.sessions.Add(name, doc)
	if err != nil {
		log.WithError(err).Error("Failed to store session")
		s.writeErrorPage(w, http.StatusInternalServerError, fmt.Sprintf("Error loading file: %v", err))
		return
	}
	s.metrics.uploads.WithLabelValues(uploadAccepted).Inc()
	log.WithField("session", sess.ID).WithField("results", doc.Len()).Info("Upload accepted")

	http.Redirect(w, r, "/sessions/"+sess.ID, http.StatusSeeOther)
}

func (s *server) rejectTooLarge(w http.ResponseWriter) {
	s.metrics.uploads.WithLabelValues(uploadTooLarge).Inc()
	s.writeErrorPage(w, http.StatusRequestEntityTooLarge,
		fmt.Sprintf("File too large. The limit is %s.", units.HumanSize(float64(s.opts.MaxUploadBytes))))
}

func (s *server) handleSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.sessions.Get(id)
	if !ok {
		s.writeErrorPage(w, http.StatusNotFound, "Unknown or expired session. Please upload the file again.")
		return
	}
	s.renderReport(w, r, sess.Document, sess.Name, "/sessions/"+sess.ID)
}

func (s *server) handleAPIReport(w http.ResponseWriter, r *http.Request) {
	if s.opts.Document == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{"no document loaded"})
		return
	}
	s.writeReportJSON(w, r, s.opts.Document)
}

func (s *server) handleAPISessionReport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{"unknown session"})
		return
	}
	s.writeReportJSON(w, r, sess.Document)
}

func (s *server) writeReportJSON(w http.ResponseWriter, r *http.Request, doc *results.Document) {
	rep := report.Build(doc, selectionFromQuery(r.URL.Query(), s.opts.Selection))
	writeJSON(w, http.StatusOK, rep)
	s.metrics.reports.WithLabelValues("json").Inc()
}

// handleHealth returns server health status.
func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}
