package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/plexashare/plexa-core/internal/core/domain"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"query must not be empty"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// SearchRequest is the body of a search call
// @Description Search request
type SearchRequest struct {
	Query     string   `json:"query" example:"deployment checklist"`
	Limit     int      `json:"limit,omitempty" example:"20"`
	Threshold *float64 `json:"threshold,omitempty" example:"0.35"`
	Types     []string `json:"types,omitempty" example:"article"`
}

// IndexRequest is the body of an indexing call. All fields are optional.
// @Description Indexing request
type IndexRequest struct {
	ForceReindex bool     `json:"force_reindex,omitempty"`
	Types        []string `json:"types,omitempty"`
}

// ClearIndexResponse reports how many vectors an index clear removed
// @Description Index clear response
type ClearIndexResponse struct {
	RemovedCount int `json:"removed_count" example:"420"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns 200 when the relational store is reachable. Redis is
// @Description  reported but not required; search degrades without it.
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse  "Database unreachable"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}

	status := map[string]string{"status": "ready"}
	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()); err != nil {
			status["redis"] = "unreachable"
		}
	}

	writeJSON(w, http.StatusOK, status)
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Search endpoints

// handleSearch godoc
// @Summary      Search content
// @Description  Performs a semantic search over indexed content, falling back
// @Description  to keyword search when the semantic path is unavailable. The
// @Description  response names the path that produced the results.
// @Tags         Search
// @Accept       json
// @Produce      json
// @Param        request  body      SearchRequest  true  "Search parameters"
// @Success      200      {object}  domain.SearchResponse
// @Failure      400      {object}  ErrorResponse  "Empty query or invalid body"
// @Failure      500      {object}  ErrorResponse  "Both search paths failed"
// @Router       /api/v1/search [post]
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.searchService.Search(r.Context(), req.Query, domain.SearchOptions{
		Limit:     req.Limit,
		Threshold: req.Threshold,
		Types:     req.Types,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleSearchStatus godoc
// @Summary      Search path status
// @Description  Reports which search path a query would take right now
// @Tags         Search
// @Produce      json
// @Success      200  {object}  domain.SearchStatus
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/search/status [get]
func (s *Server) handleSearchStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.searchService.Status(r.Context())
	if err != nil {
		s.logger.Error("search status failed", "error", err)
		writeError(w, http.StatusInternalServerError, "status unavailable")
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// Indexing endpoints

// handleStartIndexing godoc
// @Summary      Start an indexing run
// @Description  Resolves candidate items and starts a background indexing run.
// @Description  Returns immediately; poll the trigger endpoint for progress.
// @Tags         Indexing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      IndexRequest  false  "Indexing options"
// @Success      202      {object}  domain.IndexStartResult
// @Failure      401      {object}  ErrorResponse  "Missing or invalid admin token"
// @Failure      409      {object}  ErrorResponse  "An indexing run is already in progress"
// @Failure      500      {object}  ErrorResponse
// @Router       /api/v1/index [post]
func (s *Server) handleStartIndexing(w http.ResponseWriter, r *http.Request) {
	var req IndexRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	result, err := s.indexingService.StartIndexing(r.Context(), domain.IndexRequest{
		ForceReindex: req.ForceReindex,
		Types:        req.Types,
		InitiatedBy:  "admin",
		Kind:         domain.TriggerKindManual,
	})
	if err != nil {
		if errors.Is(err, domain.ErrIndexingInProgress) {
			writeError(w, http.StatusConflict, "an indexing run is already in progress")
			return
		}
		s.logger.Error("indexing start failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to start indexing")
		return
	}

	writeJSON(w, http.StatusAccepted, result)
}

// handleGetTrigger godoc
// @Summary      Indexing run progress
// @Description  Returns the status and per-item progress counts of a trigger
// @Tags         Indexing
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Trigger ID"
// @Success      200  {object}  domain.TriggerProgress
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse  "Unknown trigger id"
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/index/triggers/{id} [get]
func (s *Server) handleGetTrigger(w http.ResponseWriter, r *http.Request) {
	progress, err := s.indexingService.GetStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "trigger not found")
			return
		}
		s.logger.Error("trigger status failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read trigger status")
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

// handleClearIndex godoc
// @Summary      Clear the search index
// @Description  Removes every stored vector and all generation records so a
// @Description  subsequent run re-indexes everything. Irreversible.
// @Tags         Indexing
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ClearIndexResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/index [delete]
func (s *Server) handleClearIndex(w http.ResponseWriter, r *http.Request) {
	removed, err := s.indexingService.ClearIndex(r.Context())
	if err != nil {
		s.logger.Error("index clear failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear index")
		return
	}

	writeJSON(w, http.StatusOK, ClearIndexResponse{RemovedCount: removed})
}

// Settings endpoints

// handleGetSearchSettings godoc
// @Summary      Get search settings
// @Description  Returns the runtime-adjustable search settings
// @Tags         Settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.SearchSettings
// @Failure      401  {object}  ErrorResponse
// @Router       /api/v1/settings/search [get]
func (s *Server) handleGetSearchSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.services.Settings())
}

// handleUpdateSearchSettings godoc
// @Summary      Update search settings
// @Description  Replaces the runtime search settings. Takes effect for
// @Description  subsequent searches and indexing runs without a restart.
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      domain.SearchSettings  true  "New settings"
// @Success      200      {object}  domain.SearchSettings
// @Failure      400      {object}  ErrorResponse  "Invalid settings"
// @Failure      401      {object}  ErrorResponse
// @Router       /api/v1/settings/search [put]
func (s *Server) handleUpdateSearchSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.SearchSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if settings.DefaultThreshold < -1 || settings.DefaultThreshold > 1 {
		writeError(w, http.StatusBadRequest, "default_threshold must be between -1 and 1")
		return
	}
	if settings.MaxChunkSize <= 0 {
		writeError(w, http.StatusBadRequest, "max_chunk_size must be positive")
		return
	}

	s.services.UpdateSettings(settings)
	s.logger.Info("search settings updated",
		"ai_search_enabled", settings.AISearchEnabled,
		"default_threshold", settings.DefaultThreshold,
		"max_chunk_size", settings.MaxChunkSize,
	)

	writeJSON(w, http.StatusOK, settings)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
