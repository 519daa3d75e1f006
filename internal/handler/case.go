package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"charity-donation-backend/internal/dto"
	"charity-donation-backend/internal/model"
	"charity-donation-backend/internal/service"
)

type CaseHandler struct {
	cases      service.CaseService
	aggregator service.Aggregator
}

func NewCaseHandler(cases service.CaseService, aggregator service.Aggregator) *CaseHandler {
	return &CaseHandler{
		cases:      cases,
		aggregator: aggregator,
	}
}

func caseToResponse(c *model.Case) *dto.CaseResponse {
	return &dto.CaseResponse{
		ID:               c.ID,
		Title:            c.Title,
		Description:      c.Description,
		Currency:         c.Currency,
		AmountRequired:   c.AmountRequired,
		AmountCollected:  c.AmountCollected,
		Active:           c.Active,
		RecurringAllowed: c.RecurringAllowed,
		CreatedAt:        c.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func (h *CaseHandler) ListActiveCases(c echo.Context) error {
	ctx := c.Request().Context()

	cases, err := h.cases.ListActive(ctx)
	if err != nil {
		return err
	}

	out := make([]*dto.CaseResponse, len(cases))
	for i, item := range cases {
		out[i] = caseToResponse(item)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CaseHandler) GetCase(c echo.Context) error {
	ctx := c.Request().Context()

	item, err := h.cases.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, caseToResponse(item))
}

// -------- admin --------

func (h *CaseHandler) ListAllCases(c echo.Context) error {
	ctx := c.Request().Context()

	cases, err := h.cases.List(ctx)
	if err != nil {
		return err
	}

	out := make([]*dto.CaseResponse, len(cases))
	for i, item := range cases {
		out[i] = caseToResponse(item)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CaseHandler) CreateCase(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.cases.Create(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, caseToResponse(item))
}

func (h *CaseHandler) UpdateCase(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.cases.Update(ctx, c.Param("id"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, caseToResponse(item))
}

func (h *CaseHandler) ToggleCaseActive(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Active bool `json:"active"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.cases.SetActive(ctx, c.Param("id"), req.Active); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"active": req.Active})
}

func (h *CaseHandler) DeleteCase(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.cases.Delete(ctx, c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// RecomputeCase lets an administrator force a collected-total recompute.
func (h *CaseHandler) RecomputeCase(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.aggregator.RecomputeCollected(ctx, c.Param("id")); err != nil {
		return err
	}

	item, err := h.cases.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, caseToResponse(item))
}
