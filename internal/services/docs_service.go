package services

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/repositories"
	"busline/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the passenger e-ticket PDF.
type DocsService struct {
	Tickets repositories.TicketRepository
	Trips   repositories.TripRepository
	Routes  repositories.RouteRepository

	RequestID string
	Loader    func(ticketID, companyID int64) (ticketDocData, error)
}

type ticketDocData struct {
	TicketID       int64
	TripID         int64
	PassengerName  string
	PassengerPhone string
	SeatNumber     string
	RouteName      string
	TripDate       string
	TripTime       string
	Boarding       string
	Landing        string
	Status         string
	Price          int64
}

// GenerateETicket renders the ticket as a PDF and returns the bytes plus a
// download filename.
func (s DocsService) GenerateETicket(ticketID, companyID int64) ([]byte, string, error) {
	data, err := s.loadTicketDocData(ticketID, companyID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", fmt.Sprintf("ticket_id=%d", ticketID))
	return buildETicketPDF(data)
}

func (s DocsService) loadTicketDocData(ticketID, companyID int64) (ticketDocData, error) {
	if s.Loader != nil {
		return s.Loader(ticketID, companyID)
	}

	var out ticketDocData
	ticket, err := s.Tickets.GetByID(ticketID, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return out, domain.NotFoundError{Resource: "ticket", Err: err}
		}
		return out, domain.InternalError{Msg: "ticket lookup failed", Err: err}
	}
	out.TicketID = ticket.ID
	out.TripID = ticket.TripID
	out.PassengerName = ticket.PassengerName
	out.PassengerPhone = ticket.PassengerPhone
	out.SeatNumber = ticket.SeatNumber
	out.Status = string(ticket.Status)
	out.Price = ticket.Price
	out.Boarding = s.pointLabel(ticket.Boarding)
	out.Landing = s.pointLabel(ticket.Landing)

	if trip, err := s.Trips.GetByID(ticket.TripID, companyID); err == nil {
		out.TripDate = utils.FormatDate(trip.DepartureTime)
		out.TripTime = utils.FormatClock(trip.DepartureTime)
		if route, err := s.Routes.GetByID(trip.RouteID, companyID); err == nil {
			out.RouteName = route.Name
		}
	}
	return out, nil
}

// pointLabel renders a boarding/landing point for print: the registered stop
// name when it resolves, else the free-form description.
func (s DocsService) pointLabel(p models.TicketPoint) string {
	if p.Type == models.PointOfficialStop && p.StopID != nil {
		if stop, err := s.Routes.GetStop(*p.StopID); err == nil {
			return stop.Name
		}
		return fmt.Sprintf("Parada #%d", *p.StopID)
	}
	return p.LocationDescription
}

func buildETicketPDF(d ticketDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passageiro   : %s", safe(d.PassengerName, "-")),
		fmt.Sprintf("Telefone     : %s", safe(d.PassengerPhone, "-")),
		fmt.Sprintf("Assento      : %s", safe(d.SeatNumber, "-")),
		fmt.Sprintf("Rota         : %s", safe(d.RouteName, "-")),
		fmt.Sprintf("Data/Hora    : %s %s", safe(d.TripDate, "-"), safe(d.TripTime, "-")),
		fmt.Sprintf("Embarque     : %s", safe(d.Boarding, "-")),
		fmt.Sprintf("Desembarque  : %s", safe(d.Landing, "-")),
		fmt.Sprintf("Valor        : %s", utils.FormatPrice(d.Price)),
		fmt.Sprintf("Status       : %s", safe(d.Status, "-")),
		fmt.Sprintf("Codigo       : TCK-%d-%d", d.TripID, d.TicketID),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Este e-ticket vale para 1 passageiro (1 assento). Apresente no embarque.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "pdf output failed", Err: err}
	}

	filename := fmt.Sprintf("ETICKET_%d_%s.pdf", d.TicketID, safeFilenamePart(d.PassengerName))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
