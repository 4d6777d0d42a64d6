package repositories

import (
	"database/sql"
	"errors"

	"busline/internal/domain/models"
)

// ErrNoSeatAvailable signals the in-transaction capacity re-check found the
// trip full; no ticket row was written.
var ErrNoSeatAvailable = errors.New("no seat available for trip")

// TicketRepository wraps DB access for tickets.
type TicketRepository struct {
	DB *sql.DB
}

const ticketColumns = `
	id, trip_id, company_id,
	passenger_name, COALESCE(passenger_document,''), passenger_phone, COALESCE(passenger_email,''),
	COALESCE(seat_number,''), price, status,
	boarding_point_type, boarding_stop_id, COALESCE(boarding_location_description,''), boarding_latitude, boarding_longitude,
	landing_point_type, landing_stop_id, COALESCE(landing_location_description,''), landing_latitude, landing_longitude,
	COALESCE(observations,''), created_at, updated_at`

func scanTicket(scan func(dest ...any) error) (models.Ticket, error) {
	var t models.Ticket
	var bStop, lStop sql.NullInt64
	var bLat, bLng, lLat, lLng sql.NullFloat64
	err := scan(
		&t.ID, &t.TripID, &t.CompanyID,
		&t.PassengerName, &t.PassengerDocument, &t.PassengerPhone, &t.PassengerEmail,
		&t.SeatNumber, &t.Price, &t.Status,
		&t.Boarding.Type, &bStop, &t.Boarding.LocationDescription, &bLat, &bLng,
		&t.Landing.Type, &lStop, &t.Landing.LocationDescription, &lLat, &lLng,
		&t.Observations, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return models.Ticket{}, err
	}
	if bStop.Valid {
		t.Boarding.StopID = &bStop.Int64
	}
	if lStop.Valid {
		t.Landing.StopID = &lStop.Int64
	}
	if bLat.Valid {
		t.Boarding.Latitude = &bLat.Float64
	}
	if bLng.Valid {
		t.Boarding.Longitude = &bLng.Float64
	}
	if lLat.Valid {
		t.Landing.Latitude = &lLat.Float64
	}
	if lLng.Valid {
		t.Landing.Longitude = &lLng.Float64
	}
	return t, nil
}

// Insert persists a ticket tied to its trip and company.
func (r TicketRepository) Insert(t models.Ticket) (models.Ticket, error) {
	res, err := r.DB.Exec(`
		INSERT INTO tickets
			(trip_id, company_id,
			 passenger_name, passenger_document, passenger_phone, passenger_email,
			 seat_number, price, status,
			 boarding_point_type, boarding_stop_id, boarding_location_description, boarding_latitude, boarding_longitude,
			 landing_point_type, landing_stop_id, landing_location_description, landing_latitude, landing_longitude,
			 observations)
		VALUES (?,?,?,NULLIF(?,''),?,NULLIF(?,''),NULLIF(?,''),?,?,?,?,NULLIF(?,''),?,?,?,?,NULLIF(?,''),?,?,NULLIF(?,''))
	`, t.TripID, t.CompanyID,
		t.PassengerName, t.PassengerDocument, t.PassengerPhone, t.PassengerEmail,
		t.SeatNumber, t.Price, t.Status,
		t.Boarding.Type, t.Boarding.StopID, t.Boarding.LocationDescription, t.Boarding.Latitude, t.Boarding.Longitude,
		t.Landing.Type, t.Landing.StopID, t.Landing.LocationDescription, t.Landing.Latitude, t.Landing.Longitude,
		t.Observations)
	if err != nil {
		return models.Ticket{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Ticket{}, err
	}
	t.ID = id
	return t, nil
}

// InsertReserving inserts the ticket inside one transaction, counting the
// trip's active tickets under lock first so two last-seat bookings cannot
// both pass. totalSeats <= 0 disables the check (no vehicles assigned yet).
// The returned count is what the transaction observed before inserting.
func (r TicketRepository) InsertReserving(t models.Ticket, totalSeats int) (models.Ticket, int, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return models.Ticket{}, 0, err
	}
	defer tx.Rollback()

	var active int
	if err := tx.QueryRow(`
		SELECT COUNT(*)
		FROM tickets
		WHERE trip_id=? AND status IN ('reserved','confirmed')
		FOR UPDATE
	`, t.TripID).Scan(&active); err != nil {
		return models.Ticket{}, 0, err
	}
	if totalSeats > 0 && active >= totalSeats {
		return models.Ticket{}, active, ErrNoSeatAvailable
	}

	res, err := tx.Exec(`
		INSERT INTO tickets
			(trip_id, company_id,
			 passenger_name, passenger_document, passenger_phone, passenger_email,
			 seat_number, price, status,
			 boarding_point_type, boarding_stop_id, boarding_location_description, boarding_latitude, boarding_longitude,
			 landing_point_type, landing_stop_id, landing_location_description, landing_latitude, landing_longitude,
			 observations)
		VALUES (?,?,?,NULLIF(?,''),?,NULLIF(?,''),NULLIF(?,''),?,?,?,?,NULLIF(?,''),?,?,?,?,NULLIF(?,''),?,?,NULLIF(?,''))
	`, t.TripID, t.CompanyID,
		t.PassengerName, t.PassengerDocument, t.PassengerPhone, t.PassengerEmail,
		t.SeatNumber, t.Price, t.Status,
		t.Boarding.Type, t.Boarding.StopID, t.Boarding.LocationDescription, t.Boarding.Latitude, t.Boarding.Longitude,
		t.Landing.Type, t.Landing.StopID, t.Landing.LocationDescription, t.Landing.Latitude, t.Landing.Longitude,
		t.Observations)
	if err != nil {
		return models.Ticket{}, active, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Ticket{}, active, err
	}
	if err := tx.Commit(); err != nil {
		return models.Ticket{}, active, err
	}
	t.ID = id
	return t, active, nil
}

// GetByID returns a ticket only when it belongs to the company.
func (r TicketRepository) GetByID(ticketID, companyID int64) (models.Ticket, error) {
	row := r.DB.QueryRow(`
		SELECT `+ticketColumns+`
		FROM tickets
		WHERE id=? AND company_id=?
		LIMIT 1
	`, ticketID, companyID)
	return scanTicket(row.Scan)
}

// ListByTrip returns a trip's tickets, newest first.
func (r TicketRepository) ListByTrip(tripID, companyID int64) ([]models.Ticket, error) {
	rows, err := r.DB.Query(`
		SELECT `+ticketColumns+`
		FROM tickets
		WHERE trip_id=? AND company_id=?
		ORDER BY created_at DESC, id DESC
	`, tripID, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CountActiveByTrip counts reserved + confirmed tickets; the seat inventory
// subtracts this from total capacity.
func (r TicketRepository) CountActiveByTrip(tripID int64) (int, error) {
	var count int
	err := r.DB.QueryRow(`
		SELECT COUNT(*)
		FROM tickets
		WHERE trip_id=? AND status IN ('reserved','confirmed')
	`, tripID).Scan(&count)
	return count, err
}

// UpdateStatus transitions a ticket. sql.ErrNoRows when missing or owned by
// another company.
func (r TicketRepository) UpdateStatus(ticketID, companyID int64, status models.TicketStatus) error {
	res, err := r.DB.Exec(`
		UPDATE tickets SET status=? WHERE id=? AND company_id=?
	`, status, ticketID, companyID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
