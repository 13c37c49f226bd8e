package inventory

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/clinicore/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "radiographer", "receptionist"))
	readGroup.GET("/inventory/film", h.Status)

	writeGroup := api.Group("", auth.RequireRole("admin", "radiographer"))
	writeGroup.POST("/inventory/film/restock", h.Restock)
}

func (h *Handler) Status(c echo.Context) error {
	status, err := h.svc.Status(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, status)
}

type restockRequest struct {
	Amount int `json:"amount"`
}

func (h *Handler) Restock(c echo.Context) error {
	var req restockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	count, err := h.svc.Restock(c.Request().Context(), req.Amount)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"count": count})
}
