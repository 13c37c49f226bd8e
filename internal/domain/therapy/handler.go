package therapy

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicore/clinicore/internal/domain/patient"
	"github.com/clinicore/clinicore/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "therapist", "receptionist"))
	readGroup.GET("/patients/:id/calendar", h.Calendar)
	readGroup.GET("/patients/:id/plans", h.ListPlans)
	readGroup.GET("/patients/:id/plans/:date", h.GetPlan)
	readGroup.GET("/patients/:id/progress", h.Progress)

	writeGroup := api.Group("", auth.RequireRole("admin", "physician", "therapist"))
	writeGroup.POST("/patients/:id/plans/:date/sessions", h.UpsertSessions)
	writeGroup.PUT("/patients/:id/plans/:date/sessions", h.ReplaceSessions)
	writeGroup.PATCH("/patients/:id/plans/:date/sessions/:sessionId", h.UpdateSession)
	writeGroup.DELETE("/patients/:id/plans/:date/sessions/:sessionId", h.DeleteSession)
	writeGroup.POST("/patients/:id/plans/:date/sessions/:sessionId/toggle-completed", h.ToggleCompleted)
	writeGroup.POST("/patients/:id/plans/:date/sessions/:sessionId/toggle-missed", h.ToggleMissed)
	writeGroup.POST("/patients/:id/plans/:date/copy-previous", h.CopyPreviousDay)
	writeGroup.POST("/patients/:id/suggestions/apply", h.ApplySuggestions)
}

func (h *Handler) Calendar(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	days, err := h.svc.Calendar(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"days": days})
}

func (h *Handler) ListPlans(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	plans, err := h.svc.ListPlans(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, plans)
}

func (h *Handler) GetPlan(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	plan, err := h.svc.FindPlan(c.Request().Context(), id, c.Param("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if plan == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no plan for date")
	}
	return c.JSON(http.StatusOK, plan)
}

type sessionsRequest struct {
	Sessions []SessionInput `json:"sessions"`
}

func (h *Handler) UpsertSessions(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req sessionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	plan, err := h.svc.UpsertSessions(c.Request().Context(), id, c.Param("date"), req.Sessions)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, plan)
}

func (h *Handler) ReplaceSessions(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req sessionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	plan, err := h.svc.ReplaceSessions(c.Request().Context(), id, c.Param("date"), req.Sessions)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, plan)
}

func (h *Handler) UpdateSession(c echo.Context) error {
	id, sessionID, err := parseIDs(c)
	if err != nil {
		return err
	}
	var upd SessionUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	plan, err := h.svc.UpdateSession(c.Request().Context(), id, c.Param("date"), sessionID, upd)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if plan == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, plan)
}

func (h *Handler) DeleteSession(c echo.Context) error {
	id, sessionID, err := parseIDs(c)
	if err != nil {
		return err
	}
	if _, err := h.svc.DeleteSession(c.Request().Context(), id, c.Param("date"), sessionID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ToggleCompleted(c echo.Context) error {
	return h.runToggle(c, h.svc.ToggleCompleted)
}

func (h *Handler) ToggleMissed(c echo.Context) error {
	return h.runToggle(c, h.svc.ToggleMissed)
}

type toggleFunc func(ctx context.Context, patientID uuid.UUID, date string, sessionID uuid.UUID) (*patient.TherapySession, error)

func (h *Handler) runToggle(c echo.Context, toggle toggleFunc) error {
	id, sessionID, err := parseIDs(c)
	if err != nil {
		return err
	}
	session, err := toggle(c.Request().Context(), id, c.Param("date"), sessionID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if session == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, session)
}

func (h *Handler) CopyPreviousDay(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	plan, err := h.svc.CopyPreviousDay(c.Request().Context(), id, c.Param("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if plan == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, plan)
}

type applySuggestionsRequest struct {
	Weeks int `json:"weeks"`
}

func (h *Handler) ApplySuggestions(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req applySuggestionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	added, err := h.svc.ApplySuggestions(c.Request().Context(), id, req.Weeks)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"sessions_added": added})
}

func (h *Handler) Progress(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	progress, err := h.svc.Progress(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, map[string]int{"progress": progress})
}

func parseIDs(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	sessionID, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}
	return id, sessionID, nil
}
