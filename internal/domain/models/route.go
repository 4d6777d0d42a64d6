package models

// Route is a recurring line operated by one company.
type Route struct {
	ID          int64  `json:"id"`
	CompanyID   int64  `json:"companyId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive"`
}

// RouteSchedule declares a route runs on a given weekday (0=Sunday..6=Saturday).
type RouteSchedule struct {
	ID        int64 `json:"id"`
	RouteID   int64 `json:"routeId"`
	DayOfWeek int   `json:"dayOfWeek"`
	IsActive  bool  `json:"isActive"`
}

// RouteStop orders a stop inside a route. DepartureTime is "HH:MM" or empty.
type RouteStop struct {
	ID            int64  `json:"id"`
	RouteID       int64  `json:"routeId"`
	StopID        int64  `json:"stopId"`
	Seq           int    `json:"order"`
	DepartureTime string `json:"departureTime,omitempty"`
}

// Stop is a registered boarding/landing point.
type Stop struct {
	ID        int64  `json:"id"`
	CompanyID int64  `json:"companyId"`
	Name      string `json:"name"`
}
