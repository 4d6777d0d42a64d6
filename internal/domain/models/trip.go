package models

import "time"

type TripStatus string

const (
	TripScheduled  TripStatus = "scheduled"
	TripInProgress TripStatus = "in_progress"
	TripCompleted  TripStatus = "completed"
	TripCancelled  TripStatus = "cancelled"
	TripDelayed    TripStatus = "delayed"
)

// Trip is a dated, timed materialization of a route. At most one trip may
// exist per (routeId, departureTime); the trips table enforces this with a
// unique key.
type Trip struct {
	ID                   int64      `json:"id"`
	RouteID              int64      `json:"routeId"`
	CompanyID            int64      `json:"companyId"`
	DepartureTime        time.Time  `json:"departureTime"`
	EstimatedArrivalTime time.Time  `json:"estimatedArrivalTime"`
	ActualDepartureTime  *time.Time `json:"actualDepartureTime,omitempty"`
	ActualArrivalTime    *time.Time `json:"actualArrivalTime,omitempty"`
	Status               TripStatus `json:"status"`
	TotalSeats           int        `json:"totalSeats"`
	AvailableSeats       int        `json:"availableSeats"`
	BasePrice            int64      `json:"basePrice"`
	IsAutoGenerated      bool       `json:"isAutoGenerated"`
	Observations         string     `json:"observations,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// TripVehicle assigns one vehicle (and crew) to a trip. The sum of active
// capacities defines the trip's total seats.
type TripVehicle struct {
	ID                int64  `json:"id"`
	TripID            int64  `json:"tripId"`
	VehicleID         int64  `json:"vehicleId"`
	Capacity          int    `json:"capacity"`
	PrimaryDriverID   int64  `json:"primaryDriverId"`
	SecondaryDriverID *int64 `json:"secondaryDriverId,omitempty"`
	IsActive          bool   `json:"isActive"`
}
