package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/greeting", h.greetingImage)
		api.POST("/greeting", h.createGreeting)
		api.GET("/share", h.share)
		api.GET("/qr", h.qr)
	}
}
