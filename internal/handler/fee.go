package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"charity-donation-backend/internal/apperr"
	"charity-donation-backend/internal/currency"
	"charity-donation-backend/internal/dto"
	"charity-donation-backend/internal/fees"
	"charity-donation-backend/internal/model"
)

type FeeHandler struct {
	estimator       *fees.Estimator
	defaultCurrency string
}

func NewFeeHandler(estimator *fees.Estimator, defaultCurrency string) *FeeHandler {
	return &FeeHandler{
		estimator:       estimator,
		defaultCurrency: defaultCurrency,
	}
}

// QuoteFees returns the display-only fee preview. What actually gets charged
// is computed server-side at checkout with the same table.
func (h *FeeHandler) QuoteFees(c echo.Context) error {
	var req dto.FeeQuoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return apperr.Validation("amount", "must be a decimal number")
	}

	quote, err := h.estimator.Estimate(amount, req.Currency, model.PaymentMethod(req.PaymentMethod))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.FeeQuoteResponse{
		ProcessingFee:  quote.ProcessingFee.StringFixed(2),
		TotalWithFees:  quote.TotalWithFees.StringFixed(2),
		FeeDescription: quote.FeeDescription,
	})
}

// DetectCurrency picks a default widget currency from the CF-IPCountry /
// X-Country header set by the edge proxy.
func (h *FeeHandler) DetectCurrency(c echo.Context) error {
	country := c.Request().Header.Get("CF-IPCountry")
	if country == "" {
		country = c.Request().Header.Get("X-Country")
	}
	country = strings.ToUpper(country)

	return c.JSON(http.StatusOK, &dto.DetectCurrencyResponse{
		Currency: currency.ForCountry(country, h.defaultCurrency),
		Country:  country,
	})
}
