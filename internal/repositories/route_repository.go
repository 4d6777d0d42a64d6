package repositories

import (
	"database/sql"

	"busline/internal/domain/models"
)

// RouteRepository wraps tenant-scoped reads over routes, schedules and stops.
// Every query carries company_id where the table has one; cross-tenant reads
// are not possible through this type.
type RouteRepository struct {
	DB *sql.DB
}

// GetByID returns a route only when it belongs to the company.
func (r RouteRepository) GetByID(routeID, companyID int64) (models.Route, error) {
	var rt models.Route
	var desc sql.NullString
	err := r.DB.QueryRow(`
		SELECT id, company_id, name, COALESCE(description,''), is_active
		FROM routes
		WHERE id=? AND company_id=?
		LIMIT 1
	`, routeID, companyID).Scan(&rt.ID, &rt.CompanyID, &rt.Name, &desc, &rt.IsActive)
	if err != nil {
		return models.Route{}, err
	}
	rt.Description = desc.String
	return rt, nil
}

// ListActiveByCompany returns the company's active routes.
func (r RouteRepository) ListActiveByCompany(companyID int64) ([]models.Route, error) {
	rows, err := r.DB.Query(`
		SELECT id, company_id, name, COALESCE(description,''), is_active
		FROM routes
		WHERE company_id=? AND is_active=1
		ORDER BY name
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Route{}
	for rows.Next() {
		var rt models.Route
		if err := rows.Scan(&rt.ID, &rt.CompanyID, &rt.Name, &rt.Description, &rt.IsActive); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// ListSchedules returns every schedule row for a route, active or not.
func (r RouteRepository) ListSchedules(routeID int64) ([]models.RouteSchedule, error) {
	rows, err := r.DB.Query(`
		SELECT id, route_id, day_of_week, is_active
		FROM route_schedules
		WHERE route_id=?
		ORDER BY day_of_week
	`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.RouteSchedule{}
	for rows.Next() {
		var s models.RouteSchedule
		if err := rows.Scan(&s.ID, &s.RouteID, &s.DayOfWeek, &s.IsActive); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// FindActiveSchedule returns the active schedule covering a weekday, or
// sql.ErrNoRows when the route does not run that day.
func (r RouteRepository) FindActiveSchedule(routeID int64, dayOfWeek int) (models.RouteSchedule, error) {
	var s models.RouteSchedule
	err := r.DB.QueryRow(`
		SELECT id, route_id, day_of_week, is_active
		FROM route_schedules
		WHERE route_id=? AND day_of_week=? AND is_active=1
		LIMIT 1
	`, routeID, dayOfWeek).Scan(&s.ID, &s.RouteID, &s.DayOfWeek, &s.IsActive)
	if err != nil {
		return models.RouteSchedule{}, err
	}
	return s, nil
}

// ListStops returns the route's stops ordered by sequence.
func (r RouteRepository) ListStops(routeID int64) ([]models.RouteStop, error) {
	rows, err := r.DB.Query(`
		SELECT id, route_id, stop_id, seq, COALESCE(departure_time,'')
		FROM route_stops
		WHERE route_id=?
		ORDER BY seq
	`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.RouteStop{}
	for rows.Next() {
		var s models.RouteStop
		if err := rows.Scan(&s.ID, &s.RouteID, &s.StopID, &s.Seq, &s.DepartureTime); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetStop returns a registered stop by id.
func (r RouteRepository) GetStop(stopID int64) (models.Stop, error) {
	var s models.Stop
	err := r.DB.QueryRow(`
		SELECT id, company_id, name
		FROM stops
		WHERE id=?
		LIMIT 1
	`, stopID).Scan(&s.ID, &s.CompanyID, &s.Name)
	if err != nil {
		return models.Stop{}, err
	}
	return s, nil
}

// FirstStop returns the stop with seq=1, or sql.ErrNoRows.
func (r RouteRepository) FirstStop(routeID int64) (models.RouteStop, error) {
	var s models.RouteStop
	err := r.DB.QueryRow(`
		SELECT id, route_id, stop_id, seq, COALESCE(departure_time,'')
		FROM route_stops
		WHERE route_id=? AND seq=1
		LIMIT 1
	`, routeID).Scan(&s.ID, &s.RouteID, &s.StopID, &s.Seq, &s.DepartureTime)
	if err != nil {
		return models.RouteStop{}, err
	}
	return s, nil
}
