package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/notegraph/pkg/buildinfo"
	"github.com/matzehuels/notegraph/pkg/notegraph"
	"github.com/matzehuels/notegraph/pkg/observability"
	"github.com/matzehuels/notegraph/pkg/render/nodelink"
	"github.com/matzehuels/notegraph/pkg/snapshot"
)

// Router returns the HTTP handler with all routes mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/health/live", s.live)

	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.graph)
		r.Get("/diagnostics", s.diagnostics)
		r.Get("/graph.dot", s.graphDOT)
		r.Get("/graph.svg", s.graphSVG)
	})
	return r
}

// observe sets the Server header, logs each request at debug level and
// reports it to the server hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		w.Header().Set("Server", buildinfo.Short())
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", dur,
			"request_id", middleware.GetReqID(r.Context()))
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path, status, dur)
	})
}

func (s *Server) live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ready returns the current build or answers 503.
func (s *Server) ready(w http.ResponseWriter) *build {
	b := s.current()
	if b == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("no build available yet"))
	}
	return b
}

func (s *Server) graph(w http.ResponseWriter, _ *http.Request) {
	b := s.ready(w)
	if b == nil {
		return
	}
	writeJSON(w, http.StatusOK, b.snap)
}

// diagnosticsResponse is the body of GET /api/diagnostics.
type diagnosticsResponse struct {
	ID          string                `json:"id"`
	Problems    int                   `json:"problems"`
	Counts      map[string]int        `json:"counts"`
	Diagnostics []snapshot.Diagnostic `json:"diagnostics"`
}

func (s *Server) diagnostics(w http.ResponseWriter, r *http.Request) {
	b := s.ready(w)
	if b == nil {
		return
	}
	rep := b.result.Report
	counts := make(map[string]int, len(notegraph.Kinds))
	for _, k := range notegraph.Kinds {
		counts[string(k)] = rep.Count(k)
	}

	diags := b.snap.Diagnostics
	if kind := r.URL.Query().Get("kind"); kind != "" {
		filtered := []snapshot.Diagnostic{}
		for _, d := range diags {
			if d.Kind == kind {
				filtered = append(filtered, d)
			}
		}
		diags = filtered
	}

	writeJSON(w, http.StatusOK, diagnosticsResponse{
		ID:          b.snap.ID,
		Problems:    rep.Problems(),
		Counts:      counts,
		Diagnostics: diags,
	})
}

// dotFor returns the DOT to serve, re-generated when a highlight is asked for.
func (s *Server) dotFor(b *build, r *http.Request) (string, bool) {
	hl := r.URL.Query().Get("highlight")
	if hl == "" {
		return b.dot, false
	}
	if _, ok := b.result.Graph.Lookup(hl); !ok {
		return "", false
	}
	return nodelink.ToDOT(b.result.Graph, b.engine.Positions(), nodelink.Options{
		Palette:   s.opts.Palette,
		Highlight: hl,
	}), true
}

func (s *Server) graphDOT(w http.ResponseWriter, r *http.Request) {
	b := s.ready(w)
	if b == nil {
		return
	}
	dot, _ := s.dotFor(b, r)
	if dot == "" {
		writeJSON(w, http.StatusNotFound, errorBody("unknown note "+r.URL.Query().Get("highlight")))
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(dot))
}

func (s *Server) graphSVG(w http.ResponseWriter, r *http.Request) {
	b := s.ready(w)
	if b == nil {
		return
	}
	dot, custom := s.dotFor(b, r)
	if dot == "" {
		writeJSON(w, http.StatusNotFound, errorBody("unknown note "+r.URL.Query().Get("highlight")))
		return
	}

	var (
		svg []byte
		err error
	)
	if custom {
		svg, err = nodelink.RenderSVG(r.Context(), dot)
	} else {
		svg, err = b.renderSVG(r.Context())
	}
	if err != nil {
		s.logger.Error("svg render failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("render failed"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}
