package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"charity-donation-backend/internal/apperr"
	"charity-donation-backend/internal/config"
	"charity-donation-backend/internal/handler"
	"charity-donation-backend/internal/provider"
)

func TestNewServerRegistersRoutes(t *testing.T) {
	cfg := &config.Config{}
	srv := NewServer(cfg, nil, nil, nil, nil,
		handler.NewFeeHandler(nil, "AUD"),
		handler.NewWebhookHandler(provider.NewRegistry(), nil))

	routes := map[string]bool{}
	for _, r := range srv.echo.Routes() {
		routes[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /api/health",
		"GET /api/cases",
		"GET /api/cases/:id",
		"POST /api/fees/quote",
		"POST /api/donations",
		"POST /api/donations/:id/checkout",
		"POST /api/donations/:id/confirm",
		"POST /webhooks/:provider",
		"POST /api/admin/login",
		"POST /api/admin/cases",
		"POST /api/admin/cases/:id/recompute",
	} {
		assert.True(t, routes[want], "missing route %s", want)
	}
}

func TestHTTPErrorHandlerMapping(t *testing.T) {
	type testCase struct {
		name string
		err  error
		want int
	}

	tests := []testCase{
		{"Validation", apperr.Validation("amount", "must be positive"), http.StatusBadRequest},
		{"NotFound", apperr.NotFound("donation", "don-1"), http.StatusNotFound},
		{"Conflict", apperr.Conflict("already bound"), http.StatusConflict},
		{"UnknownPayment", apperr.UnknownPayment("stripe", "pi_1"), http.StatusNotFound},
		{"ProviderUnavailable", apperr.ProviderUnavailable("paypal", errors.New("timeout")), http.StatusBadGateway},
		{"EchoHTTPError", echo.NewHTTPError(http.StatusUnauthorized, "nope"), http.StatusUnauthorized},
		{"Unclassified", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()

			httpErrorHandler(tt.err, e.NewContext(req, rec))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
