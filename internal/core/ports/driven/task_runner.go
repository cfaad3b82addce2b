package driven

import "context"

// TaskRunner executes named tasks detached from the submitting request.
// Submit returns immediately; the task runs on a bounded background pool
// with a context that outlives the request.
type TaskRunner interface {
	Submit(name string, task func(ctx context.Context)) error
}
