// Package notificationtest provides an in-memory notifier for tests.
package notificationtest

import (
	"context"
	"sync"

	"github.com/PlanifyOrg/planify/internal/notification"
)

// Recorder collects dispatched notices
type Recorder struct {
	mu      sync.Mutex
	notices []notification.Notice
}

var _ notification.Notifier = (*Recorder)(nil)

// Dispatch records notices in order
func (r *Recorder) Dispatch(_ context.Context, notices ...notification.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notices...)
}

// Notices returns a copy of every recorded notice
func (r *Recorder) Notices() []notification.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification.Notice(nil), r.notices...)
}

// Recipients returns the recipient of every recorded notice of type t
func (r *Recorder) Recipients(t notification.Type) []int64 {
	var ids []int64
	for _, n := range r.Notices() {
		if n.Type == t {
			ids = append(ids, n.RecipientID)
		}
	}
	return ids
}

// Reset drops everything recorded so far
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = nil
}
