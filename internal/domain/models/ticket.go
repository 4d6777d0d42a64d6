package models

import "time"

type TicketStatus string

const (
	TicketReserved  TicketStatus = "reserved"
	TicketConfirmed TicketStatus = "confirmed"
	TicketCancelled TicketStatus = "cancelled"
	TicketCompleted TicketStatus = "completed"
)

type PointType string

const (
	PointOfficialStop     PointType = "official_stop"
	PointSpecificLocation PointType = "specific_location"
)

// TicketPoint is the uniform boarding/landing location shape: either a
// registered stop reference or a free-form description with optional
// coordinates.
type TicketPoint struct {
	Type                PointType `json:"type"`
	StopID              *int64    `json:"stopId,omitempty"`
	LocationDescription string    `json:"locationDescription,omitempty"`
	Latitude            *float64  `json:"latitude,omitempty"`
	Longitude           *float64  `json:"longitude,omitempty"`
}

// Ticket is a passenger reservation against a trip. Prices are integer cents.
type Ticket struct {
	ID                int64        `json:"id"`
	TripID            int64        `json:"tripId"`
	CompanyID         int64        `json:"companyId"`
	PassengerName     string       `json:"passengerName"`
	PassengerDocument string       `json:"passengerDocument,omitempty"`
	PassengerPhone    string       `json:"passengerPhone"`
	PassengerEmail    string       `json:"passengerEmail,omitempty"`
	SeatNumber        string       `json:"seatNumber,omitempty"`
	Price             int64        `json:"price"`
	Status            TicketStatus `json:"status"`
	Boarding          TicketPoint  `json:"boardingPoint"`
	Landing           TicketPoint  `json:"landingPoint"`
	Observations      string       `json:"observations,omitempty"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}
