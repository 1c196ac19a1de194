package server

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/coursepaper/pkg/blob"
	"github.com/matzehuels/coursepaper/pkg/buildinfo"
	"github.com/matzehuels/coursepaper/pkg/document"
	"github.com/matzehuels/coursepaper/pkg/errors"
	"github.com/matzehuels/coursepaper/pkg/export"
	"github.com/matzehuels/coursepaper/pkg/metrics"
	"github.com/matzehuels/coursepaper/pkg/render/sink"
)

// diagramURL is the pattern for figure links on the served page.
const diagramURL = "/diagrams/%s.png"

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := document.Page(r.Context(), &buf, s.paper, document.PageOptions{
		ExportURL: "/export",
		Figures:   document.LinkedFigures(diagramURL),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	dot := strings.LastIndexByte(file, '.')
	if dot <= 0 {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidFormat, "missing extension in %q", file))
		return
	}
	name := file[:dot]
	if err := errors.ValidateDiagramName(name); err != nil {
		s.fail(w, r, err)
		return
	}
	f, err := sink.ParseFormat(file[dot+1:])
	if err != nil {
		s.fail(w, r, err)
		return
	}

	opts := s.render
	if v := r.URL.Query().Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale < 1 || scale > 4 {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "scale must be between 1 and 4"))
			return
		}
		opts.Scale = scale
	}
	opts.Layout = r.URL.Query().Get("layout") == "1"

	data, err := s.figures.Render(r.Context(), name, f, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	contentType := f.ContentType()
	if f == sink.FormatDOT && opts.Layout {
		contentType = sink.FormatSVG.ContentType()
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(data)
}

// handleExportPage exports the page as the server renders it, with figures
// inlined so the document needs nothing from the server.
func (s *Server) handleExportPage(w http.ResponseWriter, r *http.Request) {
	var page bytes.Buffer
	err := document.Page(r.Context(), &page, s.paper, document.PageOptions{
		Figures: document.InlineFigures(s.figures.Render, s.render),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.export(w, r, &page)
}

func (s *Server) handleExportPosted(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, http.MaxBytesReader(w, r.Body, maxExportBody))
}

func (s *Server) export(w http.ResponseWriter, r *http.Request, page io.Reader) {
	artifact, ok, err := s.exporter.Export(page)
	if err != nil {
		s.metrics.RecordExport(metrics.ExportError)
		s.fail(w, r, err)
		return
	}
	if !ok {
		s.metrics.RecordExport(metrics.ExportNoContent)
		s.logger.Debug("Export skipped: no container", "id", s.exporter.ContainerID)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	id, err := s.blobs.Create(r.Context(), artifact)
	if err != nil {
		s.metrics.RecordExport(metrics.ExportError)
		s.fail(w, r, err)
		return
	}
	s.metrics.RecordExport(metrics.ExportOK)
	s.logger.Debug("Export ready", "blob", id, "bytes", len(artifact.Data))

	http.Redirect(w, r, blob.URL(id), http.StatusSeeOther)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	a, err := s.blobs.Take(r.Context(), chi.URLParam(r, "id"))
	s.metrics.RecordDownload(err == nil)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeArtifact(w, a)
}

func writeArtifact(w http.ResponseWriter, a export.Artifact) {
	h := w.Header()
	h.Set("Content-Type", a.ContentType)
	h.Set("Content-Disposition", a.ContentDisposition())
	h.Set("Content-Length", strconv.Itoa(len(a.Data)))
	h.Set("Cache-Control", "no-store")
	_, _ = w.Write(a.Data)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// fail logs err and answers with the status its code maps to.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("Request rejected", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	http.Error(w, errors.UserMessage(err), status)
}

func statusFor(err error) int {
	if errors.IsNotFound(err) {
		return http.StatusNotFound
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}
