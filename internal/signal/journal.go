// Package signal keeps a bounded in-memory journal of webhook alerts.
package signal

import (
	"sync"

	"github.com/hardikramesh/botforge/internal/core/domain"
)

// DefaultCapacity bounds the journal when no capacity is configured.
const DefaultCapacity = 256

// Journal stores the most recent signals, newest first. It is safe for
// concurrent use; the webhook handler writes while API reads may be in
// flight.
type Journal struct {
	mu   sync.Mutex
	cap  int
	sigs []domain.Signal
}

// NewJournal creates a journal retaining at most capacity signals.
// A non-positive capacity falls back to DefaultCapacity.
func NewJournal(capacity int) *Journal {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Journal{cap: capacity}
}

// Record appends a signal, evicting the oldest when full.
func (j *Journal) Record(sig domain.Signal) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.sigs = append(j.sigs, sig)
	if len(j.sigs) > j.cap {
		j.sigs = j.sigs[len(j.sigs)-j.cap:]
	}
}

// Recent returns the retained signals, newest first.
func (j *Journal) Recent() []domain.Signal {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]domain.Signal, len(j.sigs))
	for i, s := range j.sigs {
		out[len(j.sigs)-1-i] = s
	}
	return out
}

// Len reports the number of retained signals.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.sigs)
}
