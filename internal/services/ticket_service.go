package services

import (
	"database/sql"
	"errors"
	"fmt"

	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/repositories"
	"busline/internal/utils"
)

// TicketService handles ticket lifecycle transitions. Cancelled and completed
// tickets leave the active set, so those transitions trigger a seat
// recompute; a recompute failure is logged, the transition stands.
type TicketService struct {
	Tickets repositories.TicketRepository
	Seats   SeatService

	RequestID string
}

// GetTicket returns one ticket scoped to the company.
func (s TicketService) GetTicket(ticketID, companyID int64) (models.Ticket, error) {
	t, err := s.Tickets.GetByID(ticketID, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Ticket{}, domain.NotFoundError{Resource: "ticket", Err: err}
		}
		return models.Ticket{}, domain.InternalError{Msg: "ticket lookup failed", Err: err}
	}
	return t, nil
}

// ListTripTickets returns a trip's tickets scoped to the company.
func (s TicketService) ListTripTickets(tripID, companyID int64) ([]models.Ticket, error) {
	out, err := s.Tickets.ListByTrip(tripID, companyID)
	if err != nil {
		return nil, domain.InternalError{Msg: "ticket list failed", Err: err}
	}
	return out, nil
}

// ConfirmTicket moves a reservation to confirmed. The active count does not
// change, but counters are refreshed anyway for drift repair.
func (s TicketService) ConfirmTicket(ticketID, companyID int64) (models.Ticket, error) {
	return s.transition(ticketID, companyID, models.TicketConfirmed)
}

// CancelTicket releases the seat immediately: the next recompute no longer
// counts it.
func (s TicketService) CancelTicket(ticketID, companyID int64) (models.Ticket, error) {
	return s.transition(ticketID, companyID, models.TicketCancelled)
}

// CompleteTicket marks the journey done; the ticket leaves the active set.
func (s TicketService) CompleteTicket(ticketID, companyID int64) (models.Ticket, error) {
	return s.transition(ticketID, companyID, models.TicketCompleted)
}

func (s TicketService) transition(ticketID, companyID int64, status models.TicketStatus) (models.Ticket, error) {
	if err := s.Tickets.UpdateStatus(ticketID, companyID, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Ticket{}, domain.NotFoundError{Resource: "ticket", Err: err}
		}
		return models.Ticket{}, domain.InternalError{Msg: "ticket status update failed", Err: err}
	}

	ticket, err := s.Tickets.GetByID(ticketID, companyID)
	if err != nil {
		return models.Ticket{}, domain.InternalError{Msg: "ticket reload failed", Err: err}
	}

	if _, _, err := s.Seats.Recompute(ticket.TripID); err != nil {
		utils.LogEvent(s.RequestID, "ticket", "seat_recompute_warning", err.Error())
	}

	utils.LogEvent(s.RequestID, "ticket", "status_"+string(status), fmt.Sprintf("ticket_id=%d trip_id=%d", ticketID, ticket.TripID))
	return ticket, nil
}
