package http

import (
	"context"
	"net/http"

	"agromarket/internal/jobs"

	"github.com/labstack/echo/v4"
)

func (s *Server) GetPolling(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.polling.Status())
}

// PausePolling handles POST /api/v1/polling/:service/pause.
func (s *Server) PausePolling(ctx echo.Context) error {
	return s.controlPolling(ctx, (*jobs.PollingController).Pause)
}

// ResumePolling handles POST /api/v1/polling/:service/resume. The service refreshes before
// the response is written; a failed refresh is reported but the controller stays running.
func (s *Server) ResumePolling(ctx echo.Context) error {
	return s.controlPolling(ctx, (*jobs.PollingController).Resume)
}

func (s *Server) controlPolling(
	ctx echo.Context,
	action func(*jobs.PollingController, context.Context) error,
) error {
	controller, err := s.polling.Controller(ctx.Param("service"))
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = action(controller, ctx.Request().Context()); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, jobs.ControllerStatus{
		Service:  controller.Name(),
		State:    controller.State(),
		Interval: controller.Interval(),
		Every:    controller.Interval().String(),
	})
}
