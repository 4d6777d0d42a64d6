package services

import (
	"errors"
	"strings"
	"testing"

	"busline/internal/domain"
	"busline/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestDocsServiceGenerateETicket(t *testing.T) {
	loader := func(ticketID, companyID int64) (ticketDocData, error) {
		return ticketDocData{
			TicketID:       ticketID,
			TripID:         7,
			PassengerName:  "Maria Silva",
			PassengerPhone: "11999990000",
			SeatNumber:     "A12",
			RouteName:      "Linha Norte",
			TripDate:       "2025-01-15",
			TripTime:       "08:00",
			Boarding:       "Terminal Central",
			Landing:        "Av. Central, 100",
			Status:         "confirmed",
			Price:          4500,
		}, nil
	}

	svc := DocsService{Loader: loader}

	pdf, filename, err := svc.GenerateETicket(11, 1)
	if err != nil {
		t.Fatalf("GenerateETicket returned error: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatalf("GenerateETicket returned empty data")
	}
	if !strings.HasPrefix(filename, "ETICKET_11_") || !strings.HasSuffix(filename, ".pdf") {
		t.Fatalf("unexpected filename %q", filename)
	}
	if strings.ContainsAny(filename, " /\\") {
		t.Fatalf("filename not sanitized: %q", filename)
	}
}

func TestGenerateETicketMapsTicketErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	svc := DocsService{Tickets: repositories.TicketRepository{DB: db}}

	mock.ExpectQuery("FROM tickets").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	if _, _, err := svc.GenerateETicket(404, 1); !domain.IsNotFound(err) {
		t.Fatalf("expected not found for missing ticket, got %v", err)
	}

	mock.ExpectQuery("FROM tickets").
		WillReturnError(errors.New("connection refused"))
	if _, _, err := svc.GenerateETicket(11, 1); !domain.IsInternal(err) {
		t.Fatalf("expected internal error for db failure, got %v", err)
	}
}

func TestSafeFilenamePart(t *testing.T) {
	if got := safeFilenamePart("Maria Silva / A12"); strings.ContainsAny(got, " /") {
		t.Fatalf("expected sanitized value, got %q", got)
	}
	if got := safeFilenamePart("  "); got != "NA" {
		t.Fatalf("expected NA for blank input, got %q", got)
	}
}
