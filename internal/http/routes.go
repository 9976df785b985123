package http

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the REST API on r
func RegisterRoutes(r gin.IRouter, h *Handlers) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/menu", h.Menu)
	r.GET("/metrics/summary", h.MetricsSummary)

	r.GET("/workspaces", h.ListWorkspaces)
	ws := r.Group("/workspaces/:ws")
	{
		ws.GET("", h.GetWorkspace)
		ws.DELETE("", h.DeleteWorkspace)

		ws.POST("/tabs", h.AddTab)
		ws.DELETE("/tabs", h.ResetTabs)
		ws.POST("/tabs/open", h.OpenTab)
		ws.PATCH("/tabs/:id", h.UpdateTab)
		ws.DELETE("/tabs/:id", h.CloseTab)
		ws.POST("/tabs/:id/activate", h.ActivateTab)
		ws.POST("/tabs/:id/close-others", h.CloseOtherTabs)

		ws.POST("/navigate", h.Navigate)
		ws.GET("/navigation", h.GetNavigation)
		ws.POST("/navigation/groups/:key/toggle", h.ToggleGroup)
	}
}
