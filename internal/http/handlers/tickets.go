package handlers

import (
	"net/http"

	intconfig "busline/internal/config"
	"busline/internal/domain/models"
	"busline/internal/http/middleware"
	"busline/internal/repositories"
	"busline/internal/services"

	"github.com/gin-gonic/gin"
)

func bookingService(c *gin.Context) services.BookingService {
	return services.BookingService{
		Routes:    repositories.RouteRepository{DB: intconfig.DB},
		Tickets:   repositories.TicketRepository{DB: intconfig.DB},
		Trips:     tripService(c),
		Seats:     seatService(c),
		RequestID: middleware.GetRequestID(c),
	}
}

func ticketService(c *gin.Context) services.TicketService {
	return services.TicketService{
		Tickets:   repositories.TicketRepository{DB: intconfig.DB},
		Seats:     seatService(c),
		RequestID: middleware.GetRequestID(c),
	}
}

// POST /api/tickets/by-route books a seat by route and travel date,
// materializing the trip when needed.
func CreateBooking(c *gin.Context) {
	var req services.BookingInput
	if !BindJSONOrError(c, &req) {
		return
	}

	result, err := bookingService(c).ScheduleTripBooking(req, middleware.GetCompanyID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GET /api/tickets/:id
func GetTicket(c *gin.Context) {
	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ticket, err := ticketService(c).GetTicket(ticketID, middleware.GetCompanyID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

// GET /api/trips/:id/tickets
func ListTripTickets(c *gin.Context) {
	tripID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	tickets, err := ticketService(c).ListTripTickets(tripID, middleware.GetCompanyID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets, "count": len(tickets)})
}

// PUT /api/tickets/:id/confirm
func ConfirmTicket(c *gin.Context) {
	ticketTransition(c, services.TicketService.ConfirmTicket)
}

// PUT /api/tickets/:id/cancel
func CancelTicket(c *gin.Context) {
	ticketTransition(c, services.TicketService.CancelTicket)
}

// PUT /api/tickets/:id/complete
func CompleteTicket(c *gin.Context) {
	ticketTransition(c, services.TicketService.CompleteTicket)
}

func ticketTransition(c *gin.Context, op func(services.TicketService, int64, int64) (models.Ticket, error)) {
	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ticket, err := op(ticketService(c), ticketID, middleware.GetCompanyID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

// GET /api/tickets/:id/e-ticket streams the PDF inline.
func GetTicketETicketPDF(c *gin.Context) {
	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.DocsService{
		Tickets:   repositories.TicketRepository{DB: intconfig.DB},
		Trips:     repositories.TripRepository{DB: intconfig.DB},
		Routes:    repositories.RouteRepository{DB: intconfig.DB},
		RequestID: middleware.GetRequestID(c),
	}
	pdfBytes, filename, err := svc.GenerateETicket(ticketID, middleware.GetCompanyID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
