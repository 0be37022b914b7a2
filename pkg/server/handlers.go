package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/matzehuels/yamlviz/pkg/buildinfo"
	"github.com/matzehuels/yamlviz/pkg/errors"
	"github.com/matzehuels/yamlviz/pkg/fix"
	"github.com/matzehuels/yamlviz/pkg/graph"
	"github.com/matzehuels/yamlviz/pkg/pipeline"
	"github.com/matzehuels/yamlviz/pkg/render"
)

// VisualizeRequest is the body of POST /api/visualize. Option fields are
// inlined and override the server defaults when set.
type VisualizeRequest struct {
	Text string `json:"yaml_text"`
	pipeline.Options
}

// VisualizeResponse is the answer to POST /api/visualize.
type VisualizeResponse struct {
	Hash          string              `json:"hash"`
	Cached        bool                `json:"cached"`
	Visualization graph.Visualization `json:"visualization"`
}

// ExportRequest is the body of POST /api/export.
type ExportRequest struct {
	Text     string `json:"yaml_text"`
	Document int    `json:"document" validate:"gte=0"`
	Format   string `json:"format" validate:"required"`
	pipeline.Options
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code      errors.Code `json:"code"`
	Error     string      `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	var req VisualizeRequest
	if !s.decode(w, r, &req) {
		return
	}
	opts := s.options(req.Options)
	if err := errors.ValidateDocumentText(req.Text, s.deps.MaxBytes); err != nil {
		s.writeError(w, r, err)
		return
	}

	v, hash, hit, err := s.deps.Runner.VisualizeWithCacheInfo(r.Context(), req.Text, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, VisualizeResponse{Hash: hash, Cached: hit, Visualization: v})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if !s.decode(w, r, &req) {
		return
	}
	format, err := render.ParseFormat(req.Format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateDocumentText(req.Text, s.deps.MaxBytes); err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := s.deps.Runner.Export(r.Context(), req.Text, req.Document, format, s.options(req.Options))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("inline; filename=%q", pipeline.ArtifactName(req.Document, format)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleFix(w http.ResponseWriter, r *http.Request) {
	var req fix.Request
	if !s.decode(w, r, &req) {
		return
	}
	if s.deps.Fixer == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeFixUnavailable, "auto-fix is not configured"))
		return
	}
	if err := errors.ValidateDocumentText(req.DocumentText, s.deps.MaxBytes); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.deps.Fixer.Fix(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// options applies the fields a client set over the server defaults.
func (s *Server) options(req pipeline.Options) pipeline.Options {
	req.Formats = nil
	req.MaxBytes = s.deps.MaxBytes
	req.Logger = s.deps.Logger
	return s.deps.Options.Merge(req)
}

// decode reads a JSON body into v and validates it. On failure it writes the
// error response and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(w, r, errors.New(errors.ErrCodeTooLarge, "request body too large (max %d bytes)", tooLarge.Limit))
		} else {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body"))
		}
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		s.writeError(w, r, errors.FromValidation(errors.ErrCodeInvalidInput, err))
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.deps.Logger.Warn("write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeErrorStatus(w, r, errors.HTTPStatus(err), err)
}

func (s *Server) writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.deps.Logger.Error("request failed", "id", RequestID(r.Context()), "path", r.URL.Path, "error", err)
	}
	s.writeJSON(w, status, ErrorResponse{Code: code, Error: errors.UserMessage(err), RequestID: RequestID(r.Context())})
}
