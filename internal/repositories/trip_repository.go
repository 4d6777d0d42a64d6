package repositories

import (
	"database/sql"
	"errors"
	"time"

	"busline/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

// ErrDuplicateTrip signals the uniq_route_departure key rejected an insert:
// another caller already materialized a trip for the same (route, departure).
var ErrDuplicateTrip = errors.New("trip already exists for route and departure time")

const mysqlDuplicateEntry = 1062

// TripRepository wraps DB access for trips and their assigned vehicles.
type TripRepository struct {
	DB *sql.DB
}

const tripColumns = `
	id, route_id, company_id, departure_time, estimated_arrival_time,
	actual_departure_time, actual_arrival_time, status,
	total_seats, available_seats, base_price, is_auto_generated,
	COALESCE(observations,''), created_at, updated_at`

func scanTrip(row *sql.Row) (models.Trip, error) {
	var t models.Trip
	var actualDep, actualArr sql.NullTime
	err := row.Scan(
		&t.ID, &t.RouteID, &t.CompanyID, &t.DepartureTime, &t.EstimatedArrivalTime,
		&actualDep, &actualArr, &t.Status,
		&t.TotalSeats, &t.AvailableSeats, &t.BasePrice, &t.IsAutoGenerated,
		&t.Observations, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return models.Trip{}, err
	}
	if actualDep.Valid {
		t.ActualDepartureTime = &actualDep.Time
	}
	if actualArr.Valid {
		t.ActualArrivalTime = &actualArr.Time
	}
	return t, nil
}

// FindByRouteAndDeparture looks up the trip keyed by the exact departure
// timestamp. sql.ErrNoRows when absent.
func (r TripRepository) FindByRouteAndDeparture(routeID int64, departure time.Time) (models.Trip, error) {
	row := r.DB.QueryRow(`
		SELECT `+tripColumns+`
		FROM trips
		WHERE route_id=? AND departure_time=?
		LIMIT 1
	`, routeID, departure)
	return scanTrip(row)
}

// GetByID returns a trip only when it belongs to the company.
func (r TripRepository) GetByID(tripID, companyID int64) (models.Trip, error) {
	row := r.DB.QueryRow(`
		SELECT `+tripColumns+`
		FROM trips
		WHERE id=? AND company_id=?
		LIMIT 1
	`, tripID, companyID)
	return scanTrip(row)
}

// Insert persists a trip. A duplicate (route_id, departure_time) surfaces as
// ErrDuplicateTrip so callers can re-fetch the winner instead of failing.
func (r TripRepository) Insert(t models.Trip) (models.Trip, error) {
	res, err := r.DB.Exec(`
		INSERT INTO trips
			(route_id, company_id, departure_time, estimated_arrival_time,
			 status, total_seats, available_seats, base_price, is_auto_generated, observations)
		VALUES (?,?,?,?,?,?,?,?,?,NULLIF(?,''))
	`, t.RouteID, t.CompanyID, t.DepartureTime, t.EstimatedArrivalTime,
		t.Status, t.TotalSeats, t.AvailableSeats, t.BasePrice, t.IsAutoGenerated, t.Observations)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return models.Trip{}, ErrDuplicateTrip
		}
		return models.Trip{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Trip{}, err
	}
	t.ID = id
	return t, nil
}

// InsertVehicle attaches a vehicle to a trip.
func (r TripRepository) InsertVehicle(v models.TripVehicle) (models.TripVehicle, error) {
	res, err := r.DB.Exec(`
		INSERT INTO trip_vehicles
			(trip_id, vehicle_id, capacity, primary_driver_id, secondary_driver_id, is_active)
		VALUES (?,?,?,?,?,?)
	`, v.TripID, v.VehicleID, v.Capacity, v.PrimaryDriverID, v.SecondaryDriverID, v.IsActive)
	if err != nil {
		return models.TripVehicle{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.TripVehicle{}, err
	}
	v.ID = id
	return v, nil
}

// ListVehicles returns every vehicle row attached to a trip.
func (r TripRepository) ListVehicles(tripID int64) ([]models.TripVehicle, error) {
	rows, err := r.DB.Query(`
		SELECT id, trip_id, vehicle_id, capacity, primary_driver_id, secondary_driver_id, is_active
		FROM trip_vehicles
		WHERE trip_id=?
		ORDER BY id
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.TripVehicle{}
	for rows.Next() {
		var v models.TripVehicle
		var secondary sql.NullInt64
		if err := rows.Scan(&v.ID, &v.TripID, &v.VehicleID, &v.Capacity, &v.PrimaryDriverID, &secondary, &v.IsActive); err != nil {
			return nil, err
		}
		if secondary.Valid {
			v.SecondaryDriverID = &secondary.Int64
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// SumActiveVehicleCapacity is the trip's total seat count source of truth.
func (r TripRepository) SumActiveVehicleCapacity(tripID int64) (int, error) {
	var total int
	err := r.DB.QueryRow(`
		SELECT COALESCE(SUM(capacity),0)
		FROM trip_vehicles
		WHERE trip_id=? AND is_active=1
	`, tripID).Scan(&total)
	return total, err
}

// UpdateSeats stores the recomputed counters.
func (r TripRepository) UpdateSeats(tripID int64, totalSeats, availableSeats int) error {
	_, err := r.DB.Exec(`
		UPDATE trips SET total_seats=?, available_seats=? WHERE id=?
	`, totalSeats, availableSeats, tripID)
	return err
}

// UpdateStatus transitions a trip, recording actual times when provided.
// sql.ErrNoRows when the trip is missing or owned by another company.
func (r TripRepository) UpdateStatus(tripID, companyID int64, status models.TripStatus, actualDeparture, actualArrival *time.Time) error {
	query := `UPDATE trips SET status=?`
	args := []any{status}
	if actualDeparture != nil {
		query += `, actual_departure_time=?`
		args = append(args, *actualDeparture)
	}
	if actualArrival != nil {
		query += `, actual_arrival_time=?`
		args = append(args, *actualArrival)
	}
	query += ` WHERE id=? AND company_id=?`
	args = append(args, tripID, companyID)

	res, err := r.DB.Exec(query, args...)
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
