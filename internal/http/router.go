package api

import (
	"log"
	stdhttp "net/http"

	intconfig "busline/internal/config"
	h "busline/internal/http/handlers"
	"busline/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	h.SetJWTSecret(env.JWTSecret)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		protected := api.Group("")
		protected.Use(middleware.CompanyAuth(env.JWTSecret))

		routes := protected.Group("/routes")
		routes.GET("/availability", h.GetRoutesWithAvailability)
		routes.GET("/:id/availability", h.GetRouteAvailability)

		trips := protected.Group("/trips")
		trips.POST("", h.CreateTrip)
		trips.POST("/find-or-create", h.FindOrCreateTrip)
		trips.GET("/:id", h.GetTrip)
		trips.GET("/:id/tickets", h.ListTripTickets)
		trips.PUT("/:id/start", h.StartTrip)
		trips.PUT("/:id/complete", h.CompleteTrip)
		trips.PUT("/:id/cancel", h.CancelTrip)
		trips.PUT("/:id/recompute-seats", h.RecomputeTripSeats)

		tickets := protected.Group("/tickets")
		tickets.POST("/by-route", h.CreateBooking)
		tickets.GET("/:id", h.GetTicket)
		tickets.PUT("/:id/confirm", h.ConfirmTicket)
		tickets.PUT("/:id/cancel", h.CancelTicket)
		tickets.PUT("/:id/complete", h.CompleteTicket)
		tickets.GET("/:id/e-ticket", h.GetTicketETicketPDF)
	}

	return r
}
