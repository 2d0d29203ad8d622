package ports

import "github.com/hardikramesh/botforge/internal/core/domain"

// SignalSink receives classified webhook alerts.
type SignalSink interface {
	Record(sig domain.Signal)
	Recent() []domain.Signal
}
