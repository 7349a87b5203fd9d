package routes

import (
	"github.com/Baafi-Marcus/ASASHS-sub001/api/handler"
	"github.com/Baafi-Marcus/ASASHS-sub001/api/middleware"
	"github.com/Baafi-Marcus/ASASHS-sub001/internal/entity"

	"github.com/labstack/echo/v4"
)

type Router struct {
	Echo      *echo.Echo
	Admin     *handler.PortalHandler
	Teacher   *handler.PortalHandler
	Student   *handler.PortalHandler
	Provision *handler.AdminHandler
}

func NewRouter(e *echo.Echo, admin, teacher, student *handler.PortalHandler, provision *handler.AdminHandler) *Router {
	return &Router{
		Echo:      e,
		Admin:     admin,
		Teacher:   teacher,
		Student:   student,
		Provision: provision,
	}
}

func (r *Router) RegisterRoutes() {
	registerPortal(r.Echo.Group("/admin"), r.Admin)
	registerPortal(r.Echo.Group("/teacher"), r.Teacher)
	registerPortal(r.Echo.Group("/student"), r.Student)

	// Provisioning rides on the admin portal's own session.
	guard := r.Echo.Group("/admin",
		middleware.RequireSession(r.Admin.Manager),
		middleware.RequireRole(entity.RoleAdmin),
	)
	guard.POST("/principals", r.Provision.IssuePrincipal)
	guard.POST("/principals/:externalId/active", r.Provision.SetActive)
}

func registerPortal(g *echo.Group, h *handler.PortalHandler) {
	g.GET("/session", h.Session)
	g.POST("/login", h.Login)
	g.POST("/rotate", h.Rotate)
	g.POST("/signout", h.SignOut)
}
