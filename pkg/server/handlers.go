package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/wordcloud/pkg/buildinfo"
	"github.com/matzehuels/wordcloud/pkg/cloud"
	apperrors "github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/keyword"
	"github.com/matzehuels/wordcloud/pkg/observability"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
	"github.com/matzehuels/wordcloud/pkg/render/sink"
	"github.com/matzehuels/wordcloud/pkg/source"
)

// cacheHeader reports whether the response came from cache.
const cacheHeader = "X-Cache"

// =============================================================================
// Request / Response Types
// =============================================================================

// cloudRequest is the body of the layout and render endpoints.
type cloudRequest struct {
	Keywords   []cloud.KeywordCount `json:"keywords"`
	Measurer   string               `json:"measurer,omitempty"`
	Scale      float64              `json:"scale,omitempty"`
	EmbedFont  bool                 `json:"embed_font,omitempty"`
	Background string               `json:"background,omitempty"`
	Title      string               `json:"title,omitempty"`
}

type submitRequest struct {
	Text string `json:"text"`
}

type submitResponse struct {
	BoardID    string `json:"board_id"`
	Text       string `json:"text"`
	Normalized string `json:"normalized"`
	Approved   bool   `json:"approved"`
}

type errorBody struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{Status: "ok", Info: buildinfo.Get()})
}

// handleLayout computes a layout and returns it as JSON.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCloudRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.pipelineOptions(req)
	res, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), req.Keywords, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := sink.RenderJSON(res, sink.WithJSONMeasurer(opts.Measurer))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, pipeline.FormatJSON, data, hit)
}

// handleRender computes a layout and renders it in ?format= (default svg).
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format, err := formatParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := decodeCloudRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.pipelineOptions(req)
	opts.Formats = []string{format}
	res, err := s.runner.Run(r.Context(), req.Keywords, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, format, res.Artifacts[format], res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit)
}

// handleBoardCloud renders the cloud of a board's top keywords.
func (s *Server) handleBoardCloud(w http.ResponseWriter, r *http.Request) {
	format, err := formatParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()

	limit := s.opts.Limit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}

	opts := pipeline.Options{
		BoardID:  chi.URLParam(r, "boardID"),
		Limit:    limit,
		Refresh:  q.Get("refresh") == "true",
		Measurer: s.opts.Measurer,
		Formats:  []string{format},
		Title:    q.Get("title"),
	}
	if m := q.Get("measurer"); m != "" {
		opts.Measurer = m
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, format, res.Artifacts[format], res.CacheInfo.SourceHit && res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit)
}

// handleSubmit stores a visitor submission on a board.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if s.runner.Source == nil {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidConfig, "no keyword source configured"))
		return
	}
	var req submitRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	sub := keyword.Submission{
		BoardID:  chi.URLParam(r, "boardID"),
		Text:     req.Text,
		Approved: s.opts.AutoApprove,
	}
	if err := source.Submit(r.Context(), s.runner.Source, sub); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, submitResponse{
		BoardID:    sub.BoardID,
		Text:       sub.Text,
		Normalized: keyword.Normalize(sub.Text),
		Approved:   sub.Approved,
	})
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) pipelineOptions(req cloudRequest) pipeline.Options {
	opts := pipeline.Options{
		Measurer:   req.Measurer,
		Scale:      req.Scale,
		EmbedFont:  req.EmbedFont,
		Background: req.Background,
		Title:      req.Title,
	}
	if opts.Measurer == "" {
		opts.Measurer = s.opts.Measurer
	}
	return opts
}

func decodeCloudRequest(r *http.Request) (cloudRequest, error) {
	var req cloudRequest
	if err := decodeBody(r, &req); err != nil {
		return cloudRequest{}, err
	}
	if err := keyword.Validate(req.Keywords); err != nil {
		return cloudRequest{}, err
	}
	return req, nil
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "request body exceeds %d bytes", maxBodyBytes)
		}
		return apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "invalid request body")
	}
	return nil
}

func formatParam(r *http.Request) (string, error) {
	format := r.URL.Query().Get("format")
	if format == "" {
		return pipeline.FormatSVG, nil
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return "", err
	}
	return format, nil
}

func writeArtifact(w http.ResponseWriter, format string, data []byte, cached bool) {
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	if cached {
		w.Header().Set(cacheHeader, "hit")
	} else {
		w.Header().Set(cacheHeader, "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status and JSON body. Uncoded errors are logged
// and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	body := errorBody{Code: apperrors.GetCode(err), Message: apperrors.UserMessage(err)}
	if body.Code == "" {
		body.Code = apperrors.ErrCodeInternal
		body.Message = "internal error"
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	observability.HTTP().OnError(r.Context(), r.Method, routePattern(r), err)
	writeJSON(w, status, body)
}
