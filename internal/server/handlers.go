package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/matzehuels/genelayout/pkg/buildinfo"
	"github.com/matzehuels/genelayout/pkg/errors"
	"github.com/matzehuels/genelayout/pkg/graph"
	"github.com/matzehuels/genelayout/pkg/layout"
	"github.com/matzehuels/genelayout/pkg/pipeline"
)

type layoutRequest struct {
	Graph   graph.Document   `json:"graph"`
	Options pipeline.Options `json:"options"`
}

type layoutResponse struct {
	Layout     graph.Layout      `json:"layout"`
	Artifacts  map[string][]byte `json:"artifacts,omitempty"`
	GraphHash  string            `json:"graph_hash"`
	Cached     bool              `json:"cached"`
	DurationMS int64             `json:"duration_ms"`
}

type renderRequest struct {
	Layout  graph.Layout `json:"layout"`
	Formats []string     `json:"formats"`
}

type renderResponse struct {
	Artifacts map[string][]byte `json:"artifacts"`
	Cached    bool              `json:"cached"`
}

type depthsRequest struct {
	Graph graph.Document `json:"graph"`
}

type depthsResponse struct {
	Depths   []int `json:"depths"`
	Columns  []int `json:"columns"`
	Resolved bool  `json:"resolved"`
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"date":    buildinfo.Date,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req layoutRequest
	if !s.decode(w, r, &req) {
		return
	}

	g, err := graph.FromDocument(req.Graph)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidGraph, err, "graph"))
		return
	}
	if err := pipeline.Prepare(g, pipeline.LoadOptions{}); err != nil {
		s.writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	res, err := s.runnerFor(r).Execute(ctx, g, req.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if res.Layout.Cancelled {
		s.logger.Warn("layout stopped at request deadline",
			"kind", res.Layout.Kind,
			"generations", res.Layout.Generations)
	}

	delete(res.Artifacts, pipeline.FormatJSON)
	writeJSON(w, http.StatusOK, layoutResponse{
		Layout:     res.Layout,
		Artifacts:  res.Artifacts,
		GraphHash:  res.GraphHash,
		Cached:     res.CacheInfo.LayoutHit,
		DurationMS: time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decode(w, r, &req) {
		return
	}
	if _, err := req.Layout.Graph(); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidGraph, err, "layout"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	artifacts, hit, err := s.runnerFor(r).RenderWithCacheInfo(ctx, req.Layout, pipeline.Options{Formats: req.Formats})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderResponse{Artifacts: artifacts, Cached: hit})
}

func (s *Server) handleDepths(w http.ResponseWriter, r *http.Request) {
	var req depthsRequest
	if !s.decode(w, r, &req) {
		return
	}
	g, err := graph.FromDocument(req.Graph)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidGraph, err, "graph"))
		return
	}
	if err := pipeline.Prepare(g, pipeline.LoadOptions{}); err != nil {
		s.writeError(w, err)
		return
	}

	depths, resolved := layout.CallDepths(g)
	writeJSON(w, http.StatusOK, depthsResponse{
		Depths:   depths,
		Columns:  layout.ColumnPositions(g, depths),
		Resolved: resolved,
	})
}

// decode reads a JSON body of at most MaxBodyBytes into v. It writes the
// error response itself and reports whether decoding succeeded.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Code:    errors.ErrCodeInvalidInput,
				Message: "request body too large",
			})
			return false
		}
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := errors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "error", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
