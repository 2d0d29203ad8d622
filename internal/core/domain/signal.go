package domain

import (
	"strings"
	"time"
)

func normalizeAlert(alert string) string {
	return strings.ToUpper(strings.TrimSpace(alert))
}

// SignalKind classifies an incoming webhook alert.
type SignalKind string

const (
	SignalBuy     SignalKind = "BUY"
	SignalSell    SignalKind = "SELL"
	SignalUnknown SignalKind = "UNKNOWN"
)

// ClassifySignal maps the raw alert text of a webhook payload to a kind.
// Matching is case-insensitive on the trimmed value.
func ClassifySignal(alert string) SignalKind {
	switch k := SignalKind(normalizeAlert(alert)); k {
	case SignalBuy, SignalSell:
		return k
	}
	return SignalUnknown
}

// Signal is one received webhook alert.
type Signal struct {
	Kind       SignalKind `json:"kind"`
	Alert      string     `json:"alert"`
	ReceivedAt time.Time  `json:"received_at"`
	RemoteAddr string     `json:"remote_addr,omitempty"`
	// Payload keeps the decoded webhook body for inspection.
	Payload map[string]any `json:"payload,omitempty"`
}
