package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type SidebarPreference struct {
	Collapsed bool `json:"collapsed"`
}

func (s *Server) GetSidebar(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, SidebarPreference{Collapsed: s.sidebar.Collapsed()})
}

func (s *Server) SetSidebar(ctx echo.Context) error {
	var body SidebarPreference
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := s.sidebar.SetCollapsed(ctx.Request().Context(), body.Collapsed); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, SidebarPreference{Collapsed: s.sidebar.Collapsed()})
}

func (s *Server) ToggleSidebar(ctx echo.Context) error {
	collapsed, err := s.sidebar.Toggle(ctx.Request().Context())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, SidebarPreference{Collapsed: collapsed})
}
