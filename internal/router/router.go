package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/lensly/booking-marketplace/internal/handler"
	"github.com/lensly/booking-marketplace/internal/middleware"
	"github.com/lensly/booking-marketplace/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints and the /v1/me
// self-service routes. Unauthenticated operations live under /v1/auth,
// protected ones under /v1 behind the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.UserTypeClient, model.UserTypeCameraman, model.UserTypeEditor))
	auth.GET("/me", a.Me)
	auth.PATCH("/me", a.UpdateMe)
}

// RegisterPublic registers unauthenticated browse endpoints: provider
// discovery and a provider's review history. These apply no JWT or role
// middleware so clients can browse before registering.
func RegisterPublic(e *echo.Echo, p *handler.ProfileHandler, r *handler.ReviewHandler) {
	e.GET("/v1/providers/:type", p.ListProviders)
	e.GET("/v1/providers/:id/reviews", r.ListByProvider)
}

// RegisterBookings registers the booking, payment, review and profile
// endpoints under /v1 behind JWT authentication. Role middleware narrows
// the routes that only make sense for one side of the marketplace:
// clients open bookings, pay and review; providers maintain their
// profile.
func RegisterBookings(e *echo.Echo, jwtSecret string, b *handler.BookingHandler, pay *handler.PaymentHandler, rev *handler.ReviewHandler, prof *handler.ProfileHandler) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))

	// Booking CRUD is shared: clients create and cancel, providers
	// accept, start and complete. Ownership checks live in the handler.
	auth.POST("/bookings/:variant", b.Create, middleware.RequireRole(model.UserTypeClient))
	auth.GET("/bookings/:variant", b.List)
	auth.GET("/bookings/:variant/:id", b.Get)
	auth.PATCH("/bookings/:variant/:id", b.Update)

	auth.GET("/bookings/:variant/:id/payments", pay.ListByBooking)
	auth.POST("/payments", pay.Record, middleware.RequireRole(model.UserTypeClient))
	auth.GET("/payments", pay.ListMine, middleware.RequireRole(model.UserTypeClient))

	auth.POST("/reviews", rev.Create, middleware.RequireRole(model.UserTypeClient))

	providerOnly := middleware.RequireRole(model.UserTypeCameraman, model.UserTypeEditor)
	auth.GET("/profiles/me", prof.MyProfile, providerOnly)
	auth.PATCH("/profiles/me", prof.UpdateMyProfile, providerOnly)
}
