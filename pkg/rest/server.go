package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/datagate-io/datagate/pkg/apperr"
	"github.com/datagate-io/datagate/pkg/filter"
	"github.com/datagate-io/datagate/pkg/httputil"
	"github.com/datagate-io/datagate/pkg/metrics"
	"github.com/datagate-io/datagate/pkg/query"
	"github.com/datagate-io/datagate/pkg/repo"
	"github.com/datagate-io/datagate/pkg/view"
)

// Server dispatches parsed HTTP requests to the repository facade and the
// view engine. It owns no query logic of its own.
type Server struct {
	router *httputil.Router
	repo   *repo.Repository
	views  *view.Engine
	logger *zap.Logger
}

func NewServer(repository *repo.Repository, views *view.Engine, logger *zap.Logger, opts ...httputil.RouterOptions) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		router: httputil.NewRouter(opts...),
		repo:   repository,
		views:  views,
		logger: logger,
	}
	s.registerHandlers()
	return s
}

// Use adds middleware to the underlying router.
func (s *Server) Use(mw httputil.Middleware, additional ...httputil.Middleware) {
	s.router.Use(mw, additional...)
}

func (s *Server) registerHandlers() {
	s.router.Handle("GET /views/{id}", http.HandlerFunc(s.handleRunView))
	s.router.Handle("GET /{table}", http.HandlerFunc(s.handleSelect))
	s.router.Handle("POST /{table}/query", http.HandlerFunc(s.handleSelectWithFilter))
	s.router.Handle("POST /{table}", http.HandlerFunc(s.handleInsert))
	s.router.Handle("PATCH /{table}", http.HandlerFunc(s.handleUpdate))
	s.router.Handle("DELETE /{table}", http.HandlerFunc(s.handleDelete))
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("server starting", zap.String("addr", addr))
	return s.router.ListenAndServe(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.router.Shutdown(ctx)
}

// ServeHTTP lets the server be driven without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")

	opts, err := parseQueryOptions(r)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.repo.Select(r.Context(), table, parseSelectParam(r), parseEqualityFilters(r), opts)
	if err != nil {
		s.respondError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, result)
}

// filterRequest is the body of POST /{table}/query.
type filterRequest struct {
	Select  string          `json:"select"`
	Filter  json.RawMessage `json:"filter"`
	Options query.Options   `json:"options"`
}

func (s *Server) handleSelectWithFilter(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var req filterRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			s.respondError(w, apperr.Wrap(apperr.InvalidFilterJSON, "rest", err))
			return
		}
	}
	if req.Select == "" {
		req.Select = "*"
	}

	node, err := filter.ParseJSON(req.Filter)
	if err != nil {
		s.respondError(w, err)
		return
	}

	result, err := s.repo.SelectWithFilter(r.Context(), table, req.Select, node, req.Options)
	if err != nil {
		s.respondError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, result)
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")

	var data map[string]any
	if err := httputil.BindOrError(r, w, &data); err != nil {
		return
	}

	result, err := s.repo.Insert(r.Context(), table, data)
	if err != nil {
		s.respondError(w, err)
		return
	}
	httputil.JSON(w, http.StatusCreated, result)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")

	var data map[string]any
	if err := httputil.BindOrError(r, w, &data); err != nil {
		return
	}

	result, err := s.repo.Update(r.Context(), table, data, parseEqualityFilters(r))
	if err != nil {
		s.respondError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, result)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")

	result, err := s.repo.Delete(r.Context(), table, parseEqualityFilters(r))
	if err != nil {
		s.respondError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, result)
}

func (s *Server) handleRunView(w http.ResponseWriter, r *http.Request) {
	viewID := r.PathValue("id")

	opts, err := parseQueryOptions(r)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	metrics.ViewExecutions.WithLabelValues(viewID).Inc()

	result, err := s.views.Run(r.Context(), viewID, parseEqualityFilters(r), opts)
	if err != nil {
		s.respondError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, result)
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		metrics.QueryErrors.WithLabelValues(string(appErr.Kind)).Inc()
	}
	httputil.ClassifiedError(w, err)
}
