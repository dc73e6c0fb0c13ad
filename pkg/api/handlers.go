package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/pkgcycle/pkg/buildinfo"
	"github.com/matzehuels/pkgcycle/pkg/digraph"
	"github.com/matzehuels/pkgcycle/pkg/errors"
	pkgio "github.com/matzehuels/pkgcycle/pkg/io"
	"github.com/matzehuels/pkgcycle/pkg/pipeline"
	"github.com/matzehuels/pkgcycle/pkg/report"
	"github.com/matzehuels/pkgcycle/pkg/rules"
	"github.com/matzehuels/pkgcycle/pkg/store"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// CircuitsRequest is the body of POST /v1/circuits. Every successor in
// Graph must also be a key.
type CircuitsRequest struct {
	Graph          map[string][]string `json:"graph"`
	Iterative      bool                `json:"iterative,omitempty"`
	ComponentScope bool                `json:"component_scope,omitempty"`
}

// CircuitsResponse lists the elementary circuits and the strongly connected
// components that contain them. Vertices are ordered by name.
type CircuitsResponse struct {
	Circuits   [][]string `json:"circuits"`
	Components [][]string `json:"components"`
}

// AnalyzeRequest is the body of POST /v1/analyze: model facts plus
// analysis options.
type AnalyzeRequest struct {
	pkgio.Facts

	Language       string         `json:"language,omitempty"`
	Iterative      bool           `json:"iterative,omitempty"`
	ComponentScope bool           `json:"component_scope,omitempty"`
	MaxCycles      int            `json:"max_cycles,omitempty"`
	Settings       rules.Settings `json:"settings,omitempty"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type listResponse struct {
	Reports []*report.Report `json:"reports"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

// handleCircuits handles POST /v1/circuits.
func (s *Server) handleCircuits(w http.ResponseWriter, r *http.Request) {
	var req CircuitsRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}

	g, err := digraph.FromMap(req.Graph, strings.Compare)
	if err != nil {
		writeError(w, s.logger, errors.Wrap(errors.ErrCodeInvalidGraph, err, "%v", err))
		return
	}

	var opts []digraph.Option
	if req.Iterative {
		opts = append(opts, digraph.WithIterative())
	}
	if req.ComponentScope {
		opts = append(opts, digraph.WithComponentScope())
	}

	comps := digraph.NonTrivial(g, digraph.StronglyConnectedComponents(g))
	for _, c := range comps {
		slices.Sort(c)
	}
	slices.SortFunc(comps, slices.Compare)

	resp := CircuitsResponse{
		Circuits:   digraph.NewCircuitFinder(g, opts...).Circuits(),
		Components: comps,
	}
	if resp.Circuits == nil {
		resp.Circuits = [][]string{}
	}
	if resp.Components == nil {
		resp.Components = [][]string{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAnalyze handles POST /v1/analyze.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}

	m, err := req.Facts.Model()
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	rep, err := s.runner.Analyze(r.Context(), m, pipeline.Options{
		Language:       req.Language,
		Iterative:      req.Iterative,
		ComponentScope: req.ComponentScope,
		MaxCycles:      req.MaxCycles,
		Settings:       req.Settings,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	if s.store != nil {
		if err := s.store.Save(r.Context(), rep); err != nil {
			writeError(w, s.logger, errors.Wrap(errors.ErrCodeInternal, err, "save report"))
			return
		}
	}
	writeJSON(w, http.StatusOK, rep)
}

// handleGetReport handles GET /v1/reports/{id}.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, s.logger, errors.New(errors.ErrCodeUnsupported, "report storage is not configured"))
		return
	}
	id := chi.URLParam(r, "id")
	rep, err := s.store.Get(r.Context(), id)
	if stderrors.Is(err, store.ErrNotFound) {
		writeError(w, s.logger, errors.New(errors.ErrCodeReportNotFound, "report %s not found", id))
		return
	}
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// handleListReports handles GET /v1/reports?limit=n.
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, s.logger, errors.New(errors.ErrCodeUnsupported, "report storage is not configured"))
		return
	}
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, s.logger, errors.New(errors.ErrCodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = min(n, maxListLimit)
	}
	reps, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if reps == nil {
		reps = []*report.Report{}
	}
	writeJSON(w, http.StatusOK, listResponse{Reports: reps})
}

// decode reads a JSON body of at most maxBody bytes into v. Unknown fields
// are rejected.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", s.maxBody)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request: %v", err)
	}
	return nil
}
