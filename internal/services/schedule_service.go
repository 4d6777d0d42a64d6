package services

import (
	"time"

	"busline/internal/domain/models"
	"busline/internal/utils"
)

// BookingHorizonDays bounds how far ahead a trip can be booked.
const BookingHorizonDays = 30

// ScheduleService turns a route's weekly schedules into concrete bookable
// dates. Pure given its inputs and Now; Now is injectable for tests.
type ScheduleService struct {
	Now func() time.Time
}

func (s ScheduleService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CalculateAvailableDates walks each calendar day of the effective window and
// emits one AvailableDate per day whose weekday has an active schedule. The
// window is clipped to [today, today+30d]; a wider request is never an error.
func (s ScheduleService) CalculateAvailableDates(schedules []models.RouteSchedule, availableTimes []string, startDate, endDate *time.Time) []models.AvailableDate {
	activeDays := activeDaySet(schedules)
	if len(activeDays) == 0 {
		return []models.AvailableDate{}
	}

	today := utils.DateOnly(s.now())
	start := today
	if startDate != nil {
		if d := utils.DateOnly(*startDate); d.After(start) {
			start = d
		}
	}
	end := today.AddDate(0, 0, BookingHorizonDays)
	if endDate != nil {
		if d := utils.DateOnly(*endDate); d.Before(end) {
			end = d
		}
	}

	out := []models.AvailableDate{}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		dow := int(day.Weekday())
		if !activeDays[dow] {
			continue
		}
		times := make([]string, len(availableTimes))
		copy(times, availableTimes)
		out = append(out, models.AvailableDate{
			Date:      utils.FormatDate(day),
			Times:     times,
			DayOfWeek: dow,
			DayName:   utils.DayName(dow),
		})
	}
	return out
}

// NextAvailableDate returns the earliest bookable date, or false when the
// route has no active schedule inside the horizon.
func (s ScheduleService) NextAvailableDate(schedules []models.RouteSchedule) (time.Time, bool) {
	dates := s.CalculateAvailableDates(schedules, nil, nil, nil)
	if len(dates) == 0 {
		return time.Time{}, false
	}
	d, err := utils.ParseDate(dates[0].Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// IsDateAvailable reports whether a date falls inside the booking horizon on
// a weekday with an active schedule. Comparison is by calendar day, not
// timestamp.
func (s ScheduleService) IsDateAvailable(schedules []models.RouteSchedule, target time.Time) bool {
	activeDays := activeDaySet(schedules)
	if len(activeDays) == 0 {
		return false
	}

	day := utils.DateOnly(target)
	today := utils.DateOnly(s.now())
	limit := today.AddDate(0, 0, BookingHorizonDays)
	if day.Before(today) || day.After(limit) {
		return false
	}
	return activeDays[int(day.Weekday())]
}

// AvailabilityInfo aggregates the full availability summary for one route.
func (s ScheduleService) AvailabilityInfo(schedules []models.RouteSchedule, availableTimes []string, startDate, endDate *time.Time) models.AvailabilityInfo {
	active := []models.RouteSchedule{}
	activeDays := []int{}
	for _, sc := range schedules {
		if sc.IsActive {
			active = append(active, sc)
			activeDays = append(activeDays, sc.DayOfWeek)
		}
	}

	dates := s.CalculateAvailableDates(schedules, availableTimes, startDate, endDate)

	var next *string
	if d, ok := s.NextAvailableDate(schedules); ok {
		formatted := utils.FormatDate(d)
		next = &formatted
	}

	return models.AvailabilityInfo{
		HasActiveSchedules:   len(active) > 0,
		ActiveSchedulesCount: len(active),
		ActiveDaysOfWeek:     activeDays,
		AvailableDatesCount:  len(dates),
		AvailableDates:       dates,
		AvailableTimes:       availableTimes,
		NextAvailableDate:    next,
		IsAvailable:          len(dates) > 0,
	}
}

func activeDaySet(schedules []models.RouteSchedule) map[int]bool {
	set := map[int]bool{}
	for _, sc := range schedules {
		if sc.IsActive {
			set[sc.DayOfWeek] = true
		}
	}
	return set
}
