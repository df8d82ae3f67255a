package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hrygo/scambait/plugin/ai/engine"
	"github.com/hrygo/scambait/plugin/ai/session"
	"github.com/hrygo/scambait/store"
)

func (s *Server) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": s.Profile.Version,
	})
}

// handleMessage processes one scammer turn. The engine never surfaces a
// provider failure as an error, so the handler only maps envelopes.
func (s *Server) handleMessage(c echo.Context) error {
	req := &engine.TurnRequest{}
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, engine.MalformedResponse())
	}
	resp := s.engine.HandleTurn(c.Request().Context(), req)
	return c.JSON(http.StatusOK, resp)
}

type endSessionRequest struct {
	Reason string `json:"reason"`
}

// handleEndSession is the explicit external override: it finalizes a
// session immediately and returns its report.
func (s *Server) handleEndSession(c echo.Context) error {
	id := c.Param("id")

	req := endSessionRequest{}
	// Body is optional; a bare POST ends the session with a default reason.
	_ = c.Bind(&req)

	rpt, err := s.engine.EndSession(c.Request().Context(), id, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		case errors.Is(err, session.ErrComplete):
			return echo.NewHTTPError(http.StatusConflict, "session already ended")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to end session")
		}
	}
	return c.JSON(http.StatusOK, rpt)
}

func (s *Server) handleListReports(c echo.Context) error {
	id := c.Param("id")
	reports, err := s.Store.ListReports(c.Request().Context(), &store.FindReport{SessionID: &id})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list reports")
	}
	return c.JSON(http.StatusOK, reports)
}
