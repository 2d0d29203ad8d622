package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/hardikramesh/botforge/internal/core/domain"
)

// Webhook receives alert payloads from the outside (e.g. TradingView).
// The body is JSON; its "alert" field is classified into a BUY/SELL
// signal and journaled. Well-formed payloads always get a 200 with
// {"status":"ok"}, whatever the alert says, so the sender never retries
// on an unrecognized signal.
func (h *Handler) Webhook(c *fiber.Ctx) error {
	var payload map[string]any
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	alert, _ := payload["alert"].(string)
	sig := domain.Signal{
		Kind:       domain.ClassifySignal(alert),
		Alert:      alert,
		ReceivedAt: time.Now().UTC(),
		RemoteAddr: c.IP(),
		Payload:    payload,
	}
	h.signals.Record(sig)

	log := h.log.WithFields(logrus.Fields{"kind": sig.Kind, "remote": sig.RemoteAddr})
	if sig.Kind == domain.SignalUnknown {
		log.WithField("alert", alert).Warn("unknown signal received")
	} else {
		log.Info("signal received")
	}

	return c.JSON(fiber.Map{"status": "ok"})
}

// ListSignals returns the journaled signals, newest first.
func (h *Handler) ListSignals(c *fiber.Ctx) error {
	sigs := h.signals.Recent()
	if sigs == nil {
		sigs = []domain.Signal{}
	}
	return c.JSON(sigs)
}
