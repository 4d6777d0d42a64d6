package models

// AvailableDate is a derived bookable calendar date; never persisted.
type AvailableDate struct {
	Date      string   `json:"date"`
	Times     []string `json:"times"`
	DayOfWeek int      `json:"dayOfWeek"`
	DayName   string   `json:"dayName"`
}

// AvailabilityInfo summarizes what a route's schedules allow inside the
// booking horizon.
type AvailabilityInfo struct {
	HasActiveSchedules   bool            `json:"hasActiveSchedules"`
	ActiveSchedulesCount int             `json:"activeSchedulesCount"`
	ActiveDaysOfWeek     []int           `json:"activeDaysOfWeek"`
	AvailableDatesCount  int             `json:"availableDatesCount"`
	AvailableDates       []AvailableDate `json:"availableDates"`
	AvailableTimes       []string        `json:"availableTimes"`
	NextAvailableDate    *string         `json:"nextAvailableDate"`
	IsAvailable          bool            `json:"isAvailable"`
}
