package services

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/repositories"
	"busline/internal/utils"
)

// ScheduleSummary is the per-weekday line inside an availability response.
type ScheduleSummary struct {
	ID        int64  `json:"id"`
	DayOfWeek int    `json:"dayOfWeek"`
	DayName   string `json:"dayName"`
	IsActive  bool   `json:"isActive"`
}

// RouteAvailability bundles one route with its computed booking availability.
type RouteAvailability struct {
	Route        models.Route            `json:"route"`
	Availability models.AvailabilityInfo `json:"availability"`
	RouteStops   []models.RouteStop      `json:"routeStops"`
	Schedules    []ScheduleSummary       `json:"schedules"`
}

// AvailabilityService aggregates route schedules and stop times into the
// booking-availability view.
type AvailabilityService struct {
	Routes   repositories.RouteRepository
	Schedule ScheduleService

	RequestID string
}

// GetRoutesWithAvailability lists the company's active routes with their
// bookable dates inside the horizon. A route whose details fail to load is
// reported unavailable rather than failing the whole listing.
func (s AvailabilityService) GetRoutesWithAvailability(companyID int64, startDate, endDate *time.Time) ([]RouteAvailability, error) {
	routes, err := s.Routes.ListActiveByCompany(companyID)
	if err != nil {
		return nil, domain.InternalError{Msg: "route list failed", Err: err}
	}

	out := make([]RouteAvailability, 0, len(routes))
	for _, route := range routes {
		entry, err := s.buildRouteAvailability(route, startDate, endDate)
		if err != nil {
			utils.LogEvent(s.RequestID, "availability", "route_skipped", err.Error())
			entry = RouteAvailability{
				Route:        route,
				Availability: models.AvailabilityInfo{AvailableDates: []models.AvailableDate{}, ActiveDaysOfWeek: []int{}, AvailableTimes: []string{}},
				RouteStops:   []models.RouteStop{},
				Schedules:    []ScheduleSummary{},
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

// GetRouteAvailability returns the detailed availability for one route.
func (s AvailabilityService) GetRouteAvailability(routeID, companyID int64, startDate, endDate *time.Time) (RouteAvailability, error) {
	route, err := s.Routes.GetByID(routeID, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RouteAvailability{}, domain.NotFoundError{Resource: "route", Err: err}
		}
		return RouteAvailability{}, domain.InternalError{Msg: "route lookup failed", Err: err}
	}
	return s.buildRouteAvailability(route, startDate, endDate)
}

func (s AvailabilityService) buildRouteAvailability(route models.Route, startDate, endDate *time.Time) (RouteAvailability, error) {
	schedules, err := s.Routes.ListSchedules(route.ID)
	if err != nil {
		return RouteAvailability{}, domain.InternalError{Msg: "schedule list failed", Err: err}
	}
	stops, err := s.Routes.ListStops(route.ID)
	if err != nil {
		return RouteAvailability{}, domain.InternalError{Msg: "stop list failed", Err: err}
	}

	times := routeTimes(stops)
	info := s.Schedule.AvailabilityInfo(schedules, times, startDate, endDate)

	summaries := make([]ScheduleSummary, 0, len(schedules))
	for _, sc := range schedules {
		if !sc.IsActive {
			continue
		}
		summaries = append(summaries, ScheduleSummary{
			ID:        sc.ID,
			DayOfWeek: sc.DayOfWeek,
			DayName:   utils.DayName(sc.DayOfWeek),
			IsActive:  sc.IsActive,
		})
	}

	return RouteAvailability{
		Route:        route,
		Availability: info,
		RouteStops:   stops,
		Schedules:    summaries,
	}, nil
}

// routeTimes exposes the candidate departure times for a route: the first
// stop's time, or the default clock when none is configured.
func routeTimes(stops []models.RouteStop) []string {
	for _, stop := range stops {
		if stop.Seq == 1 && strings.TrimSpace(stop.DepartureTime) != "" {
			return []string{strings.TrimSpace(stop.DepartureTime)}
		}
	}
	return []string{DefaultDepartureClock}
}
