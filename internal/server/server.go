package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"charity-donation-backend/internal/apperr"
	"charity-donation-backend/internal/config"
	"charity-donation-backend/internal/handler"
	"charity-donation-backend/internal/middleware"
	"charity-donation-backend/internal/service"
)

type Server struct {
	echo            *echo.Echo
	donationHandler *handler.DonationHandler
	caseHandler     *handler.CaseHandler
	feeHandler      *handler.FeeHandler
	webhookHandler  *handler.WebhookHandler
	authHandler     *handler.AuthHandler
	adminJWTSecret  string
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func NewServer(
	cfg *config.Config,
	ledger service.LedgerService,
	checkout service.CheckoutService,
	cases service.CaseService,
	aggregator service.Aggregator,
	feeHandler *handler.FeeHandler,
	webhookHandler *handler.WebhookHandler,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}
	e.HTTPErrorHandler = httpErrorHandler

	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			slog.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:            e,
		donationHandler: handler.NewDonationHandler(ledger, checkout),
		caseHandler:     handler.NewCaseHandler(cases, aggregator),
		feeHandler:      feeHandler,
		webhookHandler:  webhookHandler,
		authHandler:     handler.NewAuthHandler(&cfg.Admin),
		adminJWTSecret:  cfg.Admin.JWTSecret,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- public --------
	api.GET("/cases", s.caseHandler.ListActiveCases)
	api.GET("/cases/:id", s.caseHandler.GetCase)
	api.GET("/currency/detect", s.feeHandler.DetectCurrency)
	api.POST("/fees/quote", s.feeHandler.QuoteFees)

	api.POST("/donations", s.donationHandler.CreateDonation)
	api.GET("/donations/:id", s.donationHandler.GetDonation)
	api.POST("/donations/:id/checkout", s.donationHandler.Checkout)
	api.POST("/donations/:id/confirm", s.donationHandler.Confirm)

	// -------- provider webhooks --------
	s.echo.POST("/webhooks/:provider", s.webhookHandler.HandleWebhook)

	// -------- admin --------
	api.POST("/admin/login", s.authHandler.Login)

	admin := api.Group("/admin", middleware.AdminAuth(s.adminJWTSecret))
	admin.GET("/cases", s.caseHandler.ListAllCases)
	admin.POST("/cases", s.caseHandler.CreateCase)
	admin.PUT("/cases/:id", s.caseHandler.UpdateCase)
	admin.PATCH("/cases/:id/active", s.caseHandler.ToggleCaseActive)
	admin.DELETE("/cases/:id", s.caseHandler.DeleteCase)
	admin.POST("/cases/:id/recompute", s.caseHandler.RecomputeCase)
	admin.GET("/donations", s.donationHandler.ListDonations)
}

// httpErrorHandler maps the error taxonomy to HTTP statuses in one place.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal error"

	var (
		httpErr     *echo.HTTPError
		validation  *apperr.ValidationError
		notFound    *apperr.NotFoundError
		conflict    *apperr.ConflictError
		unknown     *apperr.UnknownPaymentError
		unavailable *apperr.ProviderUnavailableError
	)

	switch {
	case errors.As(err, &httpErr):
		status = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
	case errors.As(err, &validation):
		status = http.StatusBadRequest
		message = validation.Error()
	case errors.As(err, &notFound):
		status = http.StatusNotFound
		message = notFound.Error()
	case errors.As(err, &conflict):
		status = http.StatusConflict
		message = conflict.Error()
	case errors.As(err, &unknown):
		status = http.StatusNotFound
		message = unknown.Error()
	case errors.As(err, &unavailable):
		status = http.StatusBadGateway
		message = "payment provider unavailable"
	default:
		slog.Error("unhandled error", "err", err)
	}

	if err := c.JSON(status, map[string]string{"error": message}); err != nil {
		slog.Error("write error response", "err", err)
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
