package v1

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the contact API and the probe endpoints on r.
func RegisterRoutes(r gin.IRouter, contacts *ContactHandler, health *HealthHandler) {
	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)

	api := r.Group("/api/contact")
	{
		api.GET("/search", contacts.SearchContacts)
		api.POST("", contacts.CreateContact)
		api.PUT("", contacts.UpdateContact)
		api.DELETE("/:id", contacts.DeleteContact)
	}
}
