package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"charity-donation-backend/internal/apperr"
	"charity-donation-backend/internal/dto"
	"charity-donation-backend/internal/model"
	"charity-donation-backend/internal/service"
)

type DonationHandler struct {
	ledger   service.LedgerService
	checkout service.CheckoutService
}

func NewDonationHandler(ledger service.LedgerService, checkout service.CheckoutService) *DonationHandler {
	return &DonationHandler{
		ledger:   ledger,
		checkout: checkout,
	}
}

func donationToResponse(d *model.DonationRecord) *dto.DonationResponse {
	resp := &dto.DonationResponse{
		ID:            d.ID,
		Type:          string(d.Type),
		Amount:        d.Amount.StringFixed(2),
		Currency:      d.Currency,
		Frequency:     string(d.Frequency),
		PaymentMethod: string(d.PaymentMethod),
		Status:        string(d.Status),
		CreatedAt:     d.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if d.CaseID != nil {
		resp.CaseID = *d.CaseID
	}
	return resp
}

func (h *DonationHandler) CreateDonation(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateDonationRequest
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

	donation, err := h.ledger.Create(ctx, &service.CreateDonationInput{
		Type:          model.DonationType(req.Type),
		Amount:        amount,
		Currency:      req.Currency,
		Frequency:     model.Frequency(req.Frequency),
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		CaseID:        req.CaseID,
		DonorName:     req.DonorName,
		DonorEmail:    req.DonorEmail,
		CoverFees:     req.CoverFees,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, donationToResponse(donation))
}

func (h *DonationHandler) GetDonation(c echo.Context) error {
	ctx := c.Request().Context()

	donation, err := h.ledger.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, donationToResponse(donation))
}

func (h *DonationHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.checkout.Checkout(ctx, c.Param("id"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *DonationHandler) Confirm(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ConfirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	donation, err := h.checkout.ConfirmClient(ctx, c.Param("id"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, donationToResponse(donation))
}

func (h *DonationHandler) ListDonations(c echo.Context) error {
	ctx := c.Request().Context()

	donations, err := h.ledger.List(ctx, model.DonationStatus(c.QueryParam("status")), 100, 0)
	if err != nil {
		return err
	}

	out := make([]*dto.DonationResponse, len(donations))
	for i, d := range donations {
		out[i] = donationToResponse(d)
	}
	return c.JSON(http.StatusOK, out)
}
