package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"charity-donation-backend/internal/apperr"
	"charity-donation-backend/internal/model"
	"charity-donation-backend/internal/provider"
	"charity-donation-backend/internal/service"
)

type WebhookHandler struct {
	registry   *provider.Registry
	reconciler service.Reconciler
}

func NewWebhookHandler(registry *provider.Registry, reconciler service.Reconciler) *WebhookHandler {
	return &WebhookHandler{
		registry:   registry,
		reconciler: reconciler,
	}
}

// HandleWebhook authenticates and processes one provider notification.
// Once the signature verifies we acknowledge with 2xx no matter what
// downstream processing did, otherwise the provider redelivers forever.
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	ctx := c.Request().Context()
	providerName := c.Param("provider")

	p, err := h.registry.Get(model.PaymentMethod(providerName))
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	event, err := p.ParseWebhook(ctx, c.Request().Header, body)
	if err != nil {
		// unverifiable payload is the one case that gets a 4xx
		slog.Warn("webhook rejected", "provider", providerName, "err", err)
		return c.NoContent(http.StatusBadRequest)
	}
	if event == nil {
		// authenticated but irrelevant event type
		return c.NoContent(http.StatusOK)
	}

	if err := h.reconciler.Process(ctx, event); err != nil {
		var unknown *apperr.UnknownPaymentError
		var conflict *apperr.ConflictError
		switch {
		case errors.As(err, &unknown):
			slog.Warn("webhook for unknown payment",
				"provider", providerName, "payment_id", unknown.ProviderPaymentID)
		case errors.As(err, &conflict):
			slog.Error("webhook conflicts with ledger state",
				"provider", providerName, "err", err)
		default:
			slog.Error("webhook processing failed",
				"provider", providerName, "err", err)
		}
	}

	return c.NoContent(http.StatusOK)
}
