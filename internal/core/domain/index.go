package domain

import "time"

// TriggerKind distinguishes how an indexing run was initiated
type TriggerKind string

const (
	TriggerKindManual    TriggerKind = "manual"
	TriggerKindScheduled TriggerKind = "scheduled"
)

// TriggerStatus is the aggregate status of one indexing run.
// A trigger transitions exactly once from processing to a terminal state.
type TriggerStatus string

const (
	TriggerStatusProcessing     TriggerStatus = "processing"
	TriggerStatusCompleted      TriggerStatus = "completed"
	TriggerStatusPartialFailure TriggerStatus = "partial_failure"
	TriggerStatusFailed         TriggerStatus = "failed"
)

// GenerationStatus is the per-item outcome within a run
type GenerationStatus string

const (
	GenerationCompleted GenerationStatus = "completed"
	GenerationFailed    GenerationStatus = "failed"
)

// IndexTrigger tracks one indexing run. Created at run start with status
// processing, updated once at run end with the terminal status.
type IndexTrigger struct {
	ID            string        `json:"id"`
	InitiatedBy   string        `json:"initiated_by"`
	Kind          TriggerKind   `json:"kind"`
	ExpectedItems int           `json:"expected_items"`
	Status        TriggerStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// IndexRecord is the outcome for a single attempted item within a run.
// Append-only child of IndexTrigger.
type IndexRecord struct {
	ID        string           `json:"id"`
	TriggerID string           `json:"trigger_id"`
	ItemID    string           `json:"item_id"`
	Status    GenerationStatus `json:"generation_status"`
	CreatedBy string           `json:"created_by"`
	CreatedAt time.Time        `json:"created_at"`
}

// TriggerProgress is the status read-model returned to pollers.
type TriggerProgress struct {
	TriggerID          string        `json:"trigger_id"`
	Status             TriggerStatus `json:"status"`
	TotalExpected      int           `json:"total_expected"`
	ProcessedCompleted int           `json:"processed_completed"`
	ProcessedFailed    int           `json:"processed_failed"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// TerminalStatus aggregates per-item outcomes into the run-level status:
// completed when nothing failed, failed when everything failed,
// partial_failure otherwise.
func TerminalStatus(completed, failed int) TriggerStatus {
	switch {
	case failed == 0:
		return TriggerStatusCompleted
	case completed == 0:
		return TriggerStatusFailed
	default:
		return TriggerStatusPartialFailure
	}
}

// IndexRequest is a request to start an indexing run
type IndexRequest struct {
	ForceReindex bool        `json:"force_reindex"`
	Types        []string    `json:"types,omitempty"`
	InitiatedBy  string      `json:"initiated_by,omitempty"`
	Kind         TriggerKind `json:"kind,omitempty"`
}

// IndexStartResult is the immediate response to an indexing request.
// ItemCount is 0 and TriggerID empty when nothing needed indexing.
type IndexStartResult struct {
	TriggerID string `json:"trigger_id,omitempty"`
	ItemCount int    `json:"item_count"`
}
