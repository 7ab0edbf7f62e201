package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	authorizer *Authorizer
}

func NewHandler(a *Authorizer) *Handler {
	return &Handler{authorizer: a}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/pin", h.Exchange)
}

type pinRequest struct {
	PIN string `json:"pin"`
}

type pinResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Exchange trades a PIN for a short-lived bearer token.
func (h *Handler) Exchange(c echo.Context) error {
	var req pinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	token, role, err := h.authorizer.Exchange(req.PIN)
	if errors.Is(err, ErrInvalidPIN) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid PIN")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pinResponse{Token: token, Role: role})
}
