package console

import "github.com/gin-gonic/gin"

// RegisterRoutes регистрирует маршруты консоли под /console
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	con := router.Group("/console")
	con.POST("/login", h.login)

	authed := con.Group("")
	authed.Use(h.requireSession())
	{
		authed.POST("/logout", h.logout)
		authed.GET("/me", h.me)

		authed.GET("/incidents", h.listIncidents)
		authed.POST("/incidents", h.createIncident)
		authed.DELETE("/incidents/:id", h.deleteIncident)
		authed.POST("/incidents/:id/select", h.selectIncident)

		authed.GET("/selection", h.getSelection)
		authed.DELETE("/selection", h.clearSelection)
		authed.PUT("/selection/draft", h.setDraft)
		authed.POST("/selection/notes", h.addNote)
		authed.PUT("/selection/status", h.updateStatus)
		authed.POST("/selection/dispatch", h.dispatch)
		authed.POST("/selection/suggest", h.suggest)
		authed.GET("/selection/share", h.share)

		authed.GET("/map.svg", h.mapSVG)
		authed.POST("/map/click", h.mapClick)

		authed.GET("/vehicles", h.vehicles)
		authed.GET("/vehicles/:id", h.vehicle)
		authed.GET("/personnel", h.personnel)
		authed.GET("/stats", h.stats)
		authed.GET("/sitrep", h.sitrep)
		authed.GET("/notifications", h.notifications)
		authed.GET("/events", h.events)
	}
}
