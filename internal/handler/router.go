package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler mounted on the router.
type Handlers struct {
	Auth          *AuthHandler
	Students      *StudentHandler
	AccessCodes   *AccessCodeHandler
	Admins        *AdminHandler
	Content       *ContentHandler
	Subscriptions *SubscriptionHandler
	Notifications *NotificationHandler
	Overview      *OverviewHandler
	Metrics       *MetricsHandler
}

// RegisterRoutes mounts the API surface under the given prefix. Admin routes
// sit behind the requireAdmin session middleware.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, requireAdmin gin.HandlerFunc) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)

	auth := api.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/session", h.Auth.CreateSession)
	auth.POST("/logout", h.Auth.Logout)

	api.GET("/me", h.Auth.Me)

	admin := api.Group("/admin", requireAdmin)
	admin.GET("/students", h.Students.List)
	admin.POST("/approveUser", h.Students.Approve)
	admin.POST("/resetDevice", h.Students.ResetDevice)

	admin.GET("/accessCodes", h.AccessCodes.List)
	admin.POST("/accessCodes", h.AccessCodes.Generate)
	admin.GET("/exportAccessCodes", h.AccessCodes.Export)

	admin.GET("/admins", h.Admins.List)
	admin.POST("/admins", h.Admins.Add)
	admin.POST("/admins/remove", h.Admins.Remove)

	admin.GET("/content", h.Content.List)
	admin.POST("/content", h.Content.Create)
	admin.POST("/deleteContent", h.Content.Delete)

	admin.POST("/extendSubscription", h.Subscriptions.Extend)
	admin.POST("/expireSubscription", h.Subscriptions.Expire)

	admin.GET("/notifications", h.Notifications.List)
	admin.POST("/notifications", h.Notifications.Create)
	admin.PATCH("/notifications", h.Notifications.SetRead)
	admin.POST("/notifications/mark-all-read", h.Notifications.MarkAllRead)

	admin.GET("/overview", h.Overview.Stats)
}
