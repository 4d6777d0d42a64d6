package handlers

import (
	"net/http"

	intconfig "busline/internal/config"
	"busline/internal/http/middleware"
	"busline/internal/repositories"
	"busline/internal/services"

	"github.com/gin-gonic/gin"
)

func tripService(c *gin.Context) services.TripService {
	return services.TripService{
		Routes:    repositories.RouteRepository{DB: intconfig.DB},
		Trips:     repositories.TripRepository{DB: intconfig.DB},
		RequestID: middleware.GetRequestID(c),
	}
}

func seatService(c *gin.Context) services.SeatService {
	return services.SeatService{
		Trips:     repositories.TripRepository{DB: intconfig.DB},
		Tickets:   repositories.TicketRepository{DB: intconfig.DB},
		RequestID: middleware.GetRequestID(c),
	}
}

type findOrCreateTripRequest struct {
	RouteID       int64  `json:"routeId" binding:"required"`
	TravelDate    string `json:"travelDate" binding:"required"`
	DepartureTime string `json:"departureTime"`
}

// POST /api/trips/find-or-create
func FindOrCreateTrip(c *gin.Context) {
	var req findOrCreateTripRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	trip, err := tripService(c).FindOrCreateTrip(req.RouteID, req.TravelDate, req.DepartureTime, middleware.GetCompanyID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// POST /api/trips
func CreateTrip(c *gin.Context) {
	var req services.CreateTripInput
	if !BindJSONOrError(c, &req) {
		return
	}

	trip, err := tripService(c).CreateTrip(req, middleware.GetCompanyID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"trip": trip})
}

// GET /api/trips/:id
func GetTrip(c *gin.Context) {
	tripID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	trip, err := tripService(c).GetTrip(tripID, middleware.GetCompanyID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// PUT /api/trips/:id/start
func StartTrip(c *gin.Context) {
	tripID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	trip, err := tripService(c).StartTrip(tripID, middleware.GetCompanyID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// PUT /api/trips/:id/complete
func CompleteTrip(c *gin.Context) {
	tripID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	trip, err := tripService(c).CompleteTrip(tripID, middleware.GetCompanyID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// PUT /api/trips/:id/cancel
func CancelTrip(c *gin.Context) {
	tripID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	trip, err := tripService(c).CancelTrip(tripID, middleware.GetCompanyID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// PUT /api/trips/:id/recompute-seats
func RecomputeTripSeats(c *gin.Context) {
	tripID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// Ownership check before touching counters.
	if _, err := tripService(c).GetTrip(tripID, middleware.GetCompanyID(c)); err != nil {
		RespondDomainError(c, err)
		return
	}

	total, available, err := seatService(c).Recompute(tripID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tripId": tripID, "totalSeats": total, "availableSeats": available})
}
