package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/plexashare/plexa-core/internal/core/domain"
	"github.com/plexashare/plexa-core/internal/runtime"
)

// stubSearchService is a canned-response SearchService
type stubSearchService struct {
	searchResp *domain.SearchResponse
	searchErr  error
	status     *domain.SearchStatus

	lastQuery string
	lastOpts  domain.SearchOptions
}

func (s *stubSearchService) Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResponse, error) {
	s.lastQuery = query
	s.lastOpts = opts
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.searchResp, nil
}

func (s *stubSearchService) Status(ctx context.Context) (*domain.SearchStatus, error) {
	if s.status == nil {
		return nil, errors.New("status unavailable")
	}
	return s.status, nil
}

// stubIndexingService is a canned-response IndexingService
type stubIndexingService struct {
	startResult *domain.IndexStartResult
	startErr    error
	progress    *domain.TriggerProgress
	progressErr error
	removed     int
	clearErr    error

	lastRequest domain.IndexRequest
}

func (s *stubIndexingService) StartIndexing(ctx context.Context, req domain.IndexRequest) (*domain.IndexStartResult, error) {
	s.lastRequest = req
	if s.startErr != nil {
		return nil, s.startErr
	}
	return s.startResult, nil
}

func (s *stubIndexingService) GetStatus(ctx context.Context, triggerID string) (*domain.TriggerProgress, error) {
	if s.progressErr != nil {
		return nil, s.progressErr
	}
	return s.progress, nil
}

func (s *stubIndexingService) ClearIndex(ctx context.Context) (int, error) {
	return s.removed, s.clearErr
}

type serverFixture struct {
	server   *Server
	search   *stubSearchService
	indexing *stubIndexingService
	services *runtime.Services
}

func newServerFixture(adminToken string) *serverFixture {
	search := &stubSearchService{
		searchResp: &domain.SearchResponse{
			Query:   "q",
			Path:    domain.SearchPathKeyword,
			Results: []*domain.SearchResult{},
		},
		status: &domain.SearchStatus{AISearchEnabled: true},
	}
	indexing := &stubIndexingService{
		startResult: &domain.IndexStartResult{TriggerID: "trig-1", ItemCount: 3},
		progress: &domain.TriggerProgress{
			TriggerID:     "trig-1",
			Status:        domain.TriggerStatusProcessing,
			TotalExpected: 3,
			CreatedAt:     time.Now(),
		},
		removed: 7,
	}
	services := runtime.NewServices(domain.DefaultSearchSettings())

	cfg := DefaultConfig()
	cfg.AdminToken = adminToken

	return &serverFixture{
		server:   NewServer(cfg, search, indexing, services, nil, nil),
		search:   search,
		indexing: indexing,
		services: services,
	}
}

func (f *serverFixture) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealthAndVersion(t *testing.T) {
	f := newServerFixture("")

	rec := f.do("GET", "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	rec = f.do("GET", "/version", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "dev") {
		t.Errorf("expected version in body, got %s", rec.Body.String())
	}
}

func TestHandleSearch(t *testing.T) {
	f := newServerFixture("")

	threshold := 0.5
	rec := f.do("POST", "/api/v1/search", "", SearchRequest{
		Query:     "release notes",
		Limit:     5,
		Threshold: &threshold,
		Types:     []string{"article"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if f.search.lastQuery != "release notes" {
		t.Errorf("query not passed through: %q", f.search.lastQuery)
	}
	if f.search.lastOpts.Limit != 5 || f.search.lastOpts.Threshold == nil || *f.search.lastOpts.Threshold != 0.5 {
		t.Errorf("options not passed through: %+v", f.search.lastOpts)
	}

	var resp domain.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Path != domain.SearchPathKeyword {
		t.Errorf("expected keyword path, got %s", resp.Path)
	}
}

func TestHandleSearch_ValidationError(t *testing.T) {
	f := newServerFixture("")
	f.search.searchErr = domain.ErrInvalidInput

	rec := f.do("POST", "/api/v1/search", "", SearchRequest{Query: "  "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleSearch_InvalidBody(t *testing.T) {
	f := newServerFixture("")

	req := httptest.NewRequest("POST", "/api/v1/search", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleSearch_InternalError(t *testing.T) {
	f := newServerFixture("")
	f.search.searchErr = errors.New("both paths down")

	rec := f.do("POST", "/api/v1/search", "", SearchRequest{Query: "x"})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestHandleSearchStatus(t *testing.T) {
	f := newServerFixture("")

	rec := f.do("GET", "/api/v1/search/status", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var status domain.SearchStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !status.AISearchEnabled {
		t.Error("expected ai_search_enabled true")
	}
}

func TestHandleStartIndexing(t *testing.T) {
	f := newServerFixture("secret")

	rec := f.do("POST", "/api/v1/index", "secret", IndexRequest{ForceReindex: true, Types: []string{"article"}})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	if !f.indexing.lastRequest.ForceReindex {
		t.Error("force_reindex not passed through")
	}
	if f.indexing.lastRequest.Kind != domain.TriggerKindManual {
		t.Errorf("expected manual kind, got %s", f.indexing.lastRequest.Kind)
	}

	var result domain.IndexStartResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if result.TriggerID != "trig-1" || result.ItemCount != 3 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestHandleStartIndexing_EmptyBody(t *testing.T) {
	f := newServerFixture("secret")

	rec := f.do("POST", "/api/v1/index", "secret", nil)
	if rec.Code != http.StatusAccepted {
		t.Errorf("expected 202 for empty body, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleStartIndexing_Conflict(t *testing.T) {
	f := newServerFixture("secret")
	f.indexing.startErr = domain.ErrIndexingInProgress

	rec := f.do("POST", "/api/v1/index", "secret", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestHandleGetTrigger(t *testing.T) {
	f := newServerFixture("secret")

	rec := f.do("GET", "/api/v1/index/triggers/trig-1", "secret", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var progress domain.TriggerProgress
	if err := json.Unmarshal(rec.Body.Bytes(), &progress); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if progress.Status != domain.TriggerStatusProcessing {
		t.Errorf("unexpected status: %s", progress.Status)
	}
}

func TestHandleGetTrigger_NotFound(t *testing.T) {
	f := newServerFixture("secret")
	f.indexing.progressErr = domain.ErrNotFound

	rec := f.do("GET", "/api/v1/index/triggers/nope", "secret", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleClearIndex(t *testing.T) {
	f := newServerFixture("secret")

	rec := f.do("DELETE", "/api/v1/index", "secret", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp ClearIndexResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.RemovedCount != 7 {
		t.Errorf("expected removed_count 7, got %d", resp.RemovedCount)
	}
}

func TestHandleSearchSettings_RoundTrip(t *testing.T) {
	f := newServerFixture("secret")

	rec := f.do("GET", "/api/v1/settings/search", "secret", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var settings domain.SearchSettings
	if err := json.Unmarshal(rec.Body.Bytes(), &settings); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if settings.DefaultThreshold != 0.3 {
		t.Errorf("expected default threshold 0.3, got %v", settings.DefaultThreshold)
	}

	settings.AISearchEnabled = false
	settings.DefaultThreshold = 0.6
	rec = f.do("PUT", "/api/v1/settings/search", "secret", settings)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	got := f.services.Settings()
	if got.AISearchEnabled || got.DefaultThreshold != 0.6 {
		t.Errorf("settings not applied: %+v", got)
	}
}

func TestHandleUpdateSearchSettings_Validation(t *testing.T) {
	f := newServerFixture("secret")

	rec := f.do("PUT", "/api/v1/settings/search", "secret", domain.SearchSettings{
		DefaultThreshold: 2.0,
		MaxChunkSize:     1000,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for out-of-range threshold, got %d", rec.Code)
	}

	rec = f.do("PUT", "/api/v1/settings/search", "secret", domain.SearchSettings{
		DefaultThreshold: 0.3,
		MaxChunkSize:     0,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for zero chunk size, got %d", rec.Code)
	}

	if f.services.Settings().MaxChunkSize != 1000 {
		t.Error("rejected settings must not be applied")
	}
}
