package handler

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"charity-donation-backend/internal/config"
	"charity-donation-backend/internal/dto"
	"charity-donation-backend/internal/middleware"
)

type AuthHandler struct {
	cfg *config.Admin
}

func NewAuthHandler(cfg *config.Admin) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(h.cfg.Email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.Password)) == 1
	if !emailOK || !passOK {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, err := middleware.IssueAdminToken(h.cfg.JWTSecret, 12*time.Hour)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.LoginResponse{Token: token})
}
