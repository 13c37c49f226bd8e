package radiology

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
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
	readGroup.GET("/patients/:id/xray-order", h.Get)

	writeGroup := api.Group("", auth.RequireRole("admin", "physician", "radiographer"))
	writeGroup.PATCH("/patients/:id/xray-order", h.Update)
	writeGroup.POST("/patients/:id/xray-order/capture", h.Capture)
	writeGroup.POST("/patients/:id/xray-order/report", h.Report)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	o, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return orderError(err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var upd OrderUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	o, err := h.svc.Update(c.Request().Context(), id, upd)
	if err != nil {
		return orderError(err)
	}
	return c.JSON(http.StatusOK, o)
}

type captureRequest struct {
	ImageReference string `json:"image_reference"`
}

func (h *Handler) Capture(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req captureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	o, err := h.svc.Capture(c.Request().Context(), id, req.ImageReference)
	if err != nil {
		return orderError(err)
	}
	return c.JSON(http.StatusOK, o)
}

type reportRequest struct {
	ReportText string `json:"report_text"`
}

func (h *Handler) Report(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req reportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	o, err := h.svc.Report(c.Request().Context(), id, req.ReportText)
	if err != nil {
		return orderError(err)
	}
	return c.JSON(http.StatusOK, o)
}

func orderError(err error) error {
	switch {
	case errors.Is(err, ErrNoOrder):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInsufficientStock):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrOrderFrozen), errors.Is(err, ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
