package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/plexashare/plexa-core/internal/chunker"
	"github.com/plexashare/plexa-core/internal/core/domain"
	"github.com/plexashare/plexa-core/internal/core/ports/driven"
	"github.com/plexashare/plexa-core/internal/core/ports/driving"
	"github.com/plexashare/plexa-core/internal/runtime"
)

// indexingLockName is the fixed advisory-lock resource for indexing runs
const indexingLockName = "indexing"

// Ensure IndexOrchestrator implements IndexingService
var _ driving.IndexingService = (*IndexOrchestrator)(nil)

// IndexOrchestrator drives indexing runs: candidate selection, chunking,
// embedding, vector storage, per-item outcome records and the run-level
// trigger status. Item failures are isolated; a failed item never stops
// the rest of the run, and the caller only learns outcomes by polling.
type IndexOrchestrator struct {
	contentStore driven.ContentStore
	indexStore   driven.IndexStore
	vectorStore  driven.VectorStore
	runner       driven.TaskRunner
	lock         driven.DistributedLock
	services     *runtime.Services
	logger       *slog.Logger

	lockTTL time.Duration
}

// IndexOrchestratorConfig holds dependencies for IndexOrchestrator.
type IndexOrchestratorConfig struct {
	ContentStore driven.ContentStore
	IndexStore   driven.IndexStore
	VectorStore  driven.VectorStore
	Runner       driven.TaskRunner
	Lock         driven.DistributedLock // Optional: serializes concurrent runs
	Services     *runtime.Services
	Logger       *slog.Logger
	LockTTL      time.Duration // TTL for the indexing lock (default: 10m)
}

// NewIndexOrchestrator creates a new index orchestrator.
func NewIndexOrchestrator(cfg IndexOrchestratorConfig) *IndexOrchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	lockTTL := cfg.LockTTL
	if lockTTL == 0 {
		lockTTL = 10 * time.Minute
	}

	return &IndexOrchestrator{
		contentStore: cfg.ContentStore,
		indexStore:   cfg.IndexStore,
		vectorStore:  cfg.VectorStore,
		runner:       cfg.Runner,
		lock:         cfg.Lock,
		services:     cfg.Services,
		logger:       logger,
		lockTTL:      lockTTL,
	}
}

// StartIndexing resolves candidates, creates a trigger and hands the run to
// the background runner. The response is immediate; callers poll GetStatus.
func (o *IndexOrchestrator) StartIndexing(ctx context.Context, req domain.IndexRequest) (*domain.IndexStartResult, error) {
	if req.Kind == "" {
		req.Kind = domain.TriggerKindManual
	}

	locked, err := o.acquireLock(ctx)
	if err != nil {
		return nil, err
	}

	candidates, err := o.resolveCandidates(ctx, req)
	if err != nil {
		o.releaseLock(locked)
		return nil, fmt.Errorf("resolve candidates: %w", err)
	}

	if len(candidates) == 0 {
		o.releaseLock(locked)
		o.logger.Info("nothing to index", "force", req.ForceReindex, "types", req.Types)
		return &domain.IndexStartResult{ItemCount: 0}, nil
	}

	now := time.Now()
	trigger := &domain.IndexTrigger{
		ID:            uuid.NewString(),
		InitiatedBy:   req.InitiatedBy,
		Kind:          req.Kind,
		ExpectedItems: len(candidates),
		Status:        domain.TriggerStatusProcessing,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := o.indexStore.CreateTrigger(ctx, trigger); err != nil {
		o.releaseLock(locked)
		return nil, fmt.Errorf("create trigger: %w", err)
	}

	err = o.runner.Submit("index-"+trigger.ID, func(runCtx context.Context) {
		defer o.releaseLock(locked)
		o.processTrigger(runCtx, trigger, candidates)
	})
	if err != nil {
		// The run never started; the trigger still gets a terminal state.
		o.releaseLock(locked)
		if finishErr := o.indexStore.FinishTrigger(ctx, trigger.ID, domain.TriggerStatusFailed, time.Now()); finishErr != nil {
			o.logger.Error("failed to mark unstarted trigger failed", "trigger_id", trigger.ID, "error", finishErr)
		}
		return nil, fmt.Errorf("submit indexing run: %w", err)
	}

	o.logger.Info("indexing run started",
		"trigger_id", trigger.ID,
		"items", len(candidates),
		"force", req.ForceReindex,
	)

	return &domain.IndexStartResult{
		TriggerID: trigger.ID,
		ItemCount: len(candidates),
	}, nil
}

// resolveCandidates lists eligible posts; non-force runs skip items that
// already have a completed generation record.
func (o *IndexOrchestrator) resolveCandidates(ctx context.Context, req domain.IndexRequest) ([]*domain.Post, error) {
	posts, err := o.contentStore.ListIndexable(ctx, req.Types)
	if err != nil {
		return nil, err
	}

	if req.ForceReindex {
		return posts, nil
	}

	indexed, err := o.indexStore.ListCompletedItemIDs(ctx)
	if err != nil {
		return nil, err
	}

	candidates := posts[:0:0]
	for _, p := range posts {
		if !indexed[p.ID] {
			candidates = append(candidates, p)
		}
	}
	return candidates, nil
}

// processTrigger runs the indexing pipeline for every candidate and
// persists the terminal trigger status exactly once.
func (o *IndexOrchestrator) processTrigger(ctx context.Context, trigger *domain.IndexTrigger, items []*domain.Post) {
	startTime := time.Now()
	maxChunkSize := o.services.Settings().MaxChunkSize

	var completed, failed int
	for _, item := range items {
		if err := o.indexItem(ctx, item, maxChunkSize); err != nil {
			failed++
			o.logger.Warn("item indexing failed",
				"trigger_id", trigger.ID,
				"item_id", item.ID,
				"error", err,
			)
			o.addRecord(ctx, trigger, item.ID, domain.GenerationFailed)
			continue
		}
		completed++
		o.addRecord(ctx, trigger, item.ID, domain.GenerationCompleted)
	}

	terminal := domain.TerminalStatus(completed, failed)
	if err := o.indexStore.FinishTrigger(ctx, trigger.ID, terminal, time.Now()); err != nil {
		o.logger.Error("failed to persist trigger status",
			"trigger_id", trigger.ID,
			"status", terminal,
			"error", err,
		)
	}

	o.logger.Info("indexing run finished",
		"trigger_id", trigger.ID,
		"status", terminal,
		"completed", completed,
		"failed", failed,
		"duration_seconds", time.Since(startTime).Seconds(),
	)
}

// indexItem chunks, embeds and stores a single item. The first chunk
// failure aborts the item's remaining chunks.
func (o *IndexOrchestrator) indexItem(ctx context.Context, item *domain.Post, maxChunkSize int) error {
	embedder := o.services.EmbeddingService()
	if embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}

	chunks := chunker.Split(item.IndexableText(), maxChunkSize)
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks produced for item %s", item.ID)
	}

	vectors, err := embedder.Embed(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}

	for i, chunk := range chunks {
		meta := domain.ChunkMeta{
			ItemID:     item.ID,
			ChunkIndex: i,
			Title:      item.Title,
			Content:    chunk,
			AuthorName: item.AuthorName,
			Type:       item.Type,
			Labels:     item.Labels,
			CreatedAt:  item.CreatedAt,
		}
		if err := o.vectorStore.Put(ctx, domain.ChunkID(item.ID, i), vectors[i], meta); err != nil {
			return fmt.Errorf("store chunk %d: %w", i, err)
		}
	}

	return nil
}

// addRecord appends the per-item outcome; record write failures are logged,
// never escalated, so bookkeeping problems cannot abort a run.
func (o *IndexOrchestrator) addRecord(ctx context.Context, trigger *domain.IndexTrigger, itemID string, status domain.GenerationStatus) {
	record := &domain.IndexRecord{
		ID:        uuid.NewString(),
		TriggerID: trigger.ID,
		ItemID:    itemID,
		Status:    status,
		CreatedBy: trigger.InitiatedBy,
		CreatedAt: time.Now(),
	}
	if err := o.indexStore.AddRecord(ctx, record); err != nil {
		o.logger.Error("failed to persist index record",
			"trigger_id", trigger.ID,
			"item_id", itemID,
			"error", err,
		)
	}
}

// GetStatus returns the progress of a trigger
func (o *IndexOrchestrator) GetStatus(ctx context.Context, triggerID string) (*domain.TriggerProgress, error) {
	trigger, err := o.indexStore.GetTrigger(ctx, triggerID)
	if err != nil {
		return nil, err
	}

	completed, failed, err := o.indexStore.CountRecords(ctx, triggerID)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	return &domain.TriggerProgress{
		TriggerID:          trigger.ID,
		Status:             trigger.Status,
		TotalExpected:      trigger.ExpectedItems,
		ProcessedCompleted: completed,
		ProcessedFailed:    failed,
		CreatedAt:          trigger.CreatedAt,
		UpdatedAt:          trigger.UpdatedAt,
	}, nil
}

// ClearIndex removes every vector and all generation records
func (o *IndexOrchestrator) ClearIndex(ctx context.Context) (int, error) {
	removed, err := o.vectorStore.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear vectors: %w", err)
	}

	if err := o.indexStore.DeleteRecords(ctx); err != nil {
		return removed, fmt.Errorf("clear index records: %w", err)
	}

	o.logger.Info("index cleared", "removed", removed)
	return removed, nil
}

// acquireLock takes the advisory indexing lock when one is configured.
// A held lock rejects the request; a broken lock backend does not block
// indexing, it only loses the serialization guarantee.
func (o *IndexOrchestrator) acquireLock(ctx context.Context) (bool, error) {
	if o.lock == nil {
		return false, nil
	}

	acquired, err := o.lock.Acquire(ctx, indexingLockName, o.lockTTL)
	if err != nil {
		o.logger.Warn("indexing lock unavailable, proceeding without it", "error", err)
		return false, nil
	}
	if !acquired {
		return false, domain.ErrIndexingInProgress
	}
	return true, nil
}

// releaseLock releases the advisory lock if this run holds it
func (o *IndexOrchestrator) releaseLock(held bool) {
	if !held || o.lock == nil {
		return
	}
	if err := o.lock.Release(context.Background(), indexingLockName); err != nil {
		o.logger.Warn("failed to release indexing lock", "error", err)
	}
}
