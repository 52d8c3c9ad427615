package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticketing/internal/handler"
	"github.com/iliyamo/cinema-ticketing/internal/middleware"
	"github.com/iliyamo/cinema-ticketing/internal/model"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently that is only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication routes.  Unauthenticated
// operations live under /v1/auth; the protected /v1/me endpoint
// requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout takes a refresh token in the body, so it does not need
	// the JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterCatalog registers the film and hall endpoints.  Browsing
// is public; mutations require the ADMIN role.
func RegisterCatalog(e *echo.Echo, f *handler.FilmHandler, h *handler.HallHandler, jwtSecret string) {
	e.GET("/v1/films", f.ListFilms)
	e.GET("/v1/films/:id", f.GetFilm)
	e.GET("/v1/halls", h.ListHalls)
	e.GET("/v1/halls/:id", h.GetHall)

	admin := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	admin.POST("/films", f.CreateFilm)
	admin.PUT("/films/:id", f.UpdateFilm)
	admin.DELETE("/films/:id", f.DeleteFilm)
	admin.POST("/halls", h.CreateHall)
	admin.PUT("/halls/:id", h.UpdateHall)
	admin.DELETE("/halls/:id", h.DeleteHall)
}

// RegisterBooking registers the showtime browse and purchase
// endpoints.  Browsing is public so guests can inspect seat
// availability before registering.  Buying tickets requires the
// CUSTOMER role and, when a rate limiter is provided, passes through
// it first.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	e.GET("/v1/showtimes", b.ListShowtimes)
	e.GET("/v1/showtimes/:id/seats", b.GetShowtimeSeats)

	mws := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer),
	}
	if limiter != nil {
		mws = append(mws, limiter)
	}
	g := e.Group("/v1", mws...)
	g.POST("/showtimes/:id/tickets", b.BuyTickets)
}

// RegisterReservations registers the reservation read endpoints.
func RegisterReservations(e *echo.Echo, r *handler.ReservationHandler, jwtSecret string) {
	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	customer := auth.Group("", middleware.RequireRole(model.RoleCustomer, model.RoleAdmin))
	customer.GET("/me/reservations", r.ListMine)
	customer.GET("/reservations/:id", r.GetReservation)

	admin := auth.Group("", middleware.RequireRole(model.RoleAdmin))
	admin.GET("/reservations", r.ListAll)
}
