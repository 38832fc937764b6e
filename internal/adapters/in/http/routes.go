package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RouteOptions configures the parts of the router that live outside /api/v1.
type RouteOptions struct {
	// Validator is applied to /api/v1 when set.
	Validator echo.MiddlewareFunc
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

// RegisterRoutes mounts the REST API on e.
func RegisterRoutes(e *echo.Echo, s *Server, opts RouteOptions) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if opts.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(opts.Metrics))
	}

	api := e.Group("/api/v1")
	if opts.Validator != nil {
		api.Use(opts.Validator)
	}

	api.POST("/orders", s.PlaceOrder)
	api.GET("/orders/:orderId", s.GetOrder)
	api.POST("/orders/:orderId/assign", s.AssignPartner)

	api.GET("/items/:itemId", s.GetItemStatus)
	api.POST("/items/:itemId/confirm", s.ConfirmItem)
	api.POST("/items/:itemId/reject", s.RejectItem)
	api.POST("/items/:itemId/cancel", s.CancelItem)
	api.POST("/items/:itemId/accept", s.AcceptAssignment)
	api.POST("/items/:itemId/pickup", s.MarkPickedUp)
	api.POST("/items/:itemId/out-for-delivery", s.MarkOutForDelivery)
	api.POST("/items/:itemId/deliver", s.MarkDelivered)

	api.GET("/vendors/:vendorId/queue", s.GetVendorQueue)
	api.PUT("/vendors/:vendorId/policy", s.UpdateVendorPolicy)

	api.POST("/partners", s.RegisterPartner)
	api.PUT("/partners/:partnerId/availability", s.SetPartnerAvailability)
}
