package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/plexashare/plexa-core/internal/core/domain"
	"github.com/plexashare/plexa-core/internal/core/ports/driven/mocks"
	"github.com/plexashare/plexa-core/internal/runtime"
)

type indexFixture struct {
	contentStore *mocks.MockContentStore
	indexStore   *mocks.MockIndexStore
	vectorStore  *mocks.MockVectorStore
	embedder     *mocks.MockEmbeddingService
	lock         *mocks.MockDistributedLock
	orchestrator *IndexOrchestrator
}

// newIndexFixture wires an orchestrator with a synchronous runner so runs
// finish before StartIndexing returns.
func newIndexFixture(withLock bool) *indexFixture {
	f := &indexFixture{
		contentStore: mocks.NewMockContentStore(),
		indexStore:   mocks.NewMockIndexStore(),
		vectorStore:  mocks.NewMockVectorStore(),
		embedder:     mocks.NewMockEmbeddingService(),
	}

	svcs := runtime.NewServices(domain.DefaultSearchSettings())
	svcs.SetEmbeddingService(f.embedder)

	cfg := IndexOrchestratorConfig{
		ContentStore: f.contentStore,
		IndexStore:   f.indexStore,
		VectorStore:  f.vectorStore,
		Runner:       mocks.NewMockTaskRunner(),
		Services:     svcs,
	}
	if withLock {
		f.lock = mocks.NewMockDistributedLock()
		cfg.Lock = f.lock
	}

	f.orchestrator = NewIndexOrchestrator(cfg)
	return f
}

func addPosts(f *indexFixture, n int) {
	for i := 0; i < n; i++ {
		f.contentStore.AddPost(&domain.Post{
			ID:        fmt.Sprintf("post-%d", i),
			Title:     fmt.Sprintf("Title %d", i),
			Body:      fmt.Sprintf("Body of post %d.", i),
			Type:      "article",
			CreatedAt: time.Now(),
		})
	}
}

func TestIndexOrchestrator_AllItemsCompleted(t *testing.T) {
	f := newIndexFixture(false)
	addPosts(f, 3)

	result, err := f.orchestrator.StartIndexing(context.Background(), domain.IndexRequest{InitiatedBy: "admin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ItemCount != 3 {
		t.Fatalf("expected 3 items, got %d", result.ItemCount)
	}
	if result.TriggerID == "" {
		t.Fatal("expected a trigger id")
	}

	progress, err := f.orchestrator.GetStatus(context.Background(), result.TriggerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if progress.Status != domain.TriggerStatusCompleted {
		t.Errorf("expected completed, got %s", progress.Status)
	}
	if progress.TotalExpected != 3 || progress.ProcessedCompleted != 3 || progress.ProcessedFailed != 0 {
		t.Errorf("unexpected progress: %+v", progress)
	}
	if f.vectorStore.Len() == 0 {
		t.Error("expected vectors stored")
	}
}

func TestIndexOrchestrator_NoopWhenNothingToIndex(t *testing.T) {
	f := newIndexFixture(false)
	addPosts(f, 2)

	first, err := f.orchestrator.StartIndexing(context.Background(), domain.IndexRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ItemCount != 2 {
		t.Fatalf("expected 2 items on first run, got %d", first.ItemCount)
	}

	// Idempotent non-force indexing: nothing new, no trigger created.
	second, err := f.orchestrator.StartIndexing(context.Background(), domain.IndexRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.ItemCount != 0 {
		t.Errorf("expected item_count 0 on second run, got %d", second.ItemCount)
	}
	if second.TriggerID != "" {
		t.Errorf("expected no trigger for a no-op run, got %s", second.TriggerID)
	}
	if f.indexStore.TriggerCount() != 1 {
		t.Errorf("expected exactly 1 trigger, got %d", f.indexStore.TriggerCount())
	}
}

func TestIndexOrchestrator_ForceReindexesEverything(t *testing.T) {
	f := newIndexFixture(false)
	addPosts(f, 2)

	if _, err := f.orchestrator.StartIndexing(context.Background(), domain.IndexRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := f.orchestrator.StartIndexing(context.Background(), domain.IndexRequest{ForceReindex: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ItemCount != 2 {
		t.Errorf("expected force run to pick up all 2 items, got %d", result.ItemCount)
	}
}

func TestIndexOrchestrator_FailureIsolation(t *testing.T) {
	f := newIndexFixture(false)
	addPosts(f, 5)

	// Exactly two items fail to embed.
	f.embedder.FailOnTextContaining("Body of post 1.")
	f.embedder.FailOnTextContaining("Body of post 3.")

	result, err := f.orchestrator.StartIndexing(context.Background(), domain.IndexRequest{})
	if err != nil {
		t.Fatalf("a failing item must not fail the request: %v", err)
	}

	progress, err := f.orchestrator.GetStatus(context.Background(), result.TriggerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if progress.Status != domain.TriggerStatusPartialFailure {
		t.Errorf("expected partial_failure, got %s", progress.Status)
	}
	if progress.TotalExpected != 5 {
		t.Errorf("expected total 5, got %d", progress.TotalExpected)
	}
	if progress.ProcessedFailed != 2 {
		t.Errorf("expected 2 failed, got %d", progress.ProcessedFailed)
	}
	if progress.ProcessedCompleted != 3 {
		t.Errorf("expected 3 completed, got %d", progress.ProcessedCompleted)
	}

	// The record invariant: completed + failed == attempted, one per item.
	if got := len(f.indexStore.Records()); got != 5 {
		t.Errorf("expected 5 records, got %d", got)
	}
}

func TestIndexOrchestrator_AllFailuresMeansFailed(t *testing.T) {
	f := newIndexFixture(false)
	addPosts(f, 3)
	f.embedder.SetFailAlways(true)

	result, err := f.orchestrator.StartIndexing(context.Background(), domain.IndexRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	progress, _ := f.orchestrator.GetStatus(context.Background(), result.TriggerID)
	if progress.Status != domain.TriggerStatusFailed {
		t.Errorf("expected failed, got %s", progress.Status)
	}
	if progress.ProcessedFailed != 3 || progress.ProcessedCompleted != 0 {
		t.Errorf("unexpected progress: %+v", progress)
	}
}

func TestIndexOrchestrator_VectorStoreFailureFailsItem(t *testing.T) {
	f := newIndexFixture(false)
	addPosts(f, 2)
	f.vectorStore.SetUnavailable(true)

	result, err := f.orchestrator.StartIndexing(context.Background(), domain.IndexRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	progress, _ := f.orchestrator.GetStatus(context.Background(), result.TriggerID)
	if progress.Status != domain.TriggerStatusFailed {
		t.Errorf("expected failed when the vector store is down, got %s", progress.Status)
	}
}

func TestIndexOrchestrator_TypeFilter(t *testing.T) {
	f := newIndexFixture(false)
	f.contentStore.AddPost(&domain.Post{ID: "a", Title: "A", Body: "a.", Type: "article"})
	f.contentStore.AddPost(&domain.Post{ID: "s", Title: "S", Body: "s.", Type: "snippet"})

	result, err := f.orchestrator.StartIndexing(context.Background(), domain.IndexRequest{Types: []string{"snippet"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ItemCount != 1 {
		t.Errorf("expected only the snippet indexed, got %d", result.ItemCount)
	}
}

func TestIndexOrchestrator_ChunkIDsAndMetadata(t *testing.T) {
	f := newIndexFixture(false)
	f.contentStore.AddPost(&domain.Post{
		ID: "post-9", Title: "Nine", Body: "Niner body.", AuthorName: "kai",
		Type: "article", Labels: []string{"num"},
	})

	if _, err := f.orchestrator.StartIndexing(context.Background(), domain.IndexRequest{InitiatedBy: "admin"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, ok := f.vectorStore.Get("post-9-chunk-0")
	if !ok {
		t.Fatal("expected chunk post-9-chunk-0 stored")
	}
	if entry.Meta.Title != "Nine" || entry.Meta.AuthorName != "kai" || entry.Meta.Type != "article" {
		t.Errorf("metadata not denormalized: %+v", entry.Meta)
	}
}

func TestIndexOrchestrator_GetStatusUnknownTrigger(t *testing.T) {
	f := newIndexFixture(false)

	_, err := f.orchestrator.GetStatus(context.Background(), "no-such-trigger")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIndexOrchestrator_ClearIndex(t *testing.T) {
	f := newIndexFixture(false)
	addPosts(f, 2)

	if _, err := f.orchestrator.StartIndexing(context.Background(), domain.IndexRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := f.vectorStore.Len()
	if stored == 0 {
		t.Fatal("expected vectors before clearing")
	}

	removed, err := f.orchestrator.ClearIndex(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != stored {
		t.Errorf("expected %d removed, got %d", stored, removed)
	}
	if f.vectorStore.Len() != 0 {
		t.Error("expected empty vector store after clear")
	}

	// Records are gone too, so a non-force run re-indexes everything.
	result, err := f.orchestrator.StartIndexing(context.Background(), domain.IndexRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ItemCount != 2 {
		t.Errorf("expected full re-index after clear, got %d items", result.ItemCount)
	}
}

func TestIndexOrchestrator_LockRejectsConcurrentRun(t *testing.T) {
	f := newIndexFixture(true)
	addPosts(f, 1)

	// Simulate another instance holding the lock.
	held, err := f.lock.Acquire(context.Background(), "indexing", time.Minute)
	if err != nil || !held {
		t.Fatalf("failed to pre-acquire lock: held=%v err=%v", held, err)
	}

	_, err = f.orchestrator.StartIndexing(context.Background(), domain.IndexRequest{})
	if !errors.Is(err, domain.ErrIndexingInProgress) {
		t.Fatalf("expected ErrIndexingInProgress, got %v", err)
	}
}

func TestIndexOrchestrator_LockReleasedAfterRun(t *testing.T) {
	f := newIndexFixture(true)
	addPosts(f, 1)

	if _, err := f.orchestrator.StartIndexing(context.Background(), domain.IndexRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.lock.IsHeld("indexing") {
		t.Error("expected the indexing lock released after the run")
	}

	// A second run can proceed immediately.
	if _, err := f.orchestrator.StartIndexing(context.Background(), domain.IndexRequest{ForceReindex: true}); err != nil {
		t.Fatalf("unexpected error on second run: %v", err)
	}
}

func TestIndexOrchestrator_LockBackendOutageDoesNotBlockIndexing(t *testing.T) {
	f := newIndexFixture(true)
	addPosts(f, 1)
	f.lock.SetDown(true)

	result, err := f.orchestrator.StartIndexing(context.Background(), domain.IndexRequest{})
	if err != nil {
		t.Fatalf("lock outage must not block indexing: %v", err)
	}
	if result.ItemCount != 1 {
		t.Errorf("expected 1 item indexed, got %d", result.ItemCount)
	}
}

func TestIndexOrchestrator_EmbedderMissingFailsItems(t *testing.T) {
	f := newIndexFixture(false)
	addPosts(f, 2)

	// Deconfigure the embedder: items fail but the trigger still terminates.
	svcs := runtime.NewServices(domain.DefaultSearchSettings())
	cfg := IndexOrchestratorConfig{
		ContentStore: f.contentStore,
		IndexStore:   f.indexStore,
		VectorStore:  f.vectorStore,
		Runner:       mocks.NewMockTaskRunner(),
		Services:     svcs,
	}
	orchestrator := NewIndexOrchestrator(cfg)

	result, err := orchestrator.StartIndexing(context.Background(), domain.IndexRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	progress, _ := orchestrator.GetStatus(context.Background(), result.TriggerID)
	if progress.Status != domain.TriggerStatusFailed {
		t.Errorf("expected failed without an embedder, got %s", progress.Status)
	}
}
