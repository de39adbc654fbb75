package engine

import (
	"context"
	"sync"

	"github.com/okian/vantage/internal/domain/model"
)

const defaultQueueCapacity = 10000

// jobQueue is a bounded in-memory queue of per-user scoring jobs. The
// bound keeps the producer from outrunning the workers on large user
// sets.
type jobQueue struct {
	jobs chan model.User

	mu     sync.RWMutex
	closed bool
}

func newJobQueue(capacity int) *jobQueue {
	if capacity < 1 {
		capacity = defaultQueueCapacity
	}
	return &jobQueue{jobs: make(chan model.User, capacity)}
}

// enqueue adds a job, blocking while the queue is full. It reports
// false when the queue is closed or the context is done.
func (q *jobQueue) enqueue(ctx context.Context, user model.User) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}

	select {
	case q.jobs <- user:
		return true
	case <-ctx.Done():
		return false
	}
}

// dequeue exposes the job channel; it is closed by close.
func (q *jobQueue) dequeue() <-chan model.User { return q.jobs }

func (q *jobQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	close(q.jobs)
	q.closed = true
}
