package services

import (
	"testing"
	"time"

	"busline/internal/domain/models"
)

// fixedNow pins the clock to Monday 2025-01-13.
func fixedNow() time.Time {
	return time.Date(2025, 1, 13, 10, 30, 0, 0, time.Local)
}

func mondayWednesdaySchedules() []models.RouteSchedule {
	return []models.RouteSchedule{
		{ID: 1, RouteID: 5, DayOfWeek: 1, IsActive: true},
		{ID: 2, RouteID: 5, DayOfWeek: 3, IsActive: true},
		{ID: 3, RouteID: 5, DayOfWeek: 5, IsActive: false},
	}
}

func TestCalculateAvailableDatesCountsActiveWeekdays(t *testing.T) {
	svc := ScheduleService{Now: fixedNow}

	dates := svc.CalculateAvailableDates(mondayWednesdaySchedules(), []string{"08:00"}, nil, nil)

	// Monday 2025-01-13 through 2025-02-12: 5 Mondays + 5 Wednesdays.
	if len(dates) != 10 {
		t.Fatalf("expected 10 dates, got %d", len(dates))
	}
	if dates[0].Date != "2025-01-13" {
		t.Fatalf("expected first date 2025-01-13, got %s", dates[0].Date)
	}
	if dates[0].DayOfWeek != 1 || dates[0].DayName != "Segunda" {
		t.Fatalf("unexpected first day: %+v", dates[0])
	}
	if len(dates[0].Times) != 1 || dates[0].Times[0] != "08:00" {
		t.Fatalf("unexpected times: %v", dates[0].Times)
	}
	for _, d := range dates {
		if d.DayOfWeek != 1 && d.DayOfWeek != 3 {
			t.Fatalf("date %s fell on inactive weekday %d", d.Date, d.DayOfWeek)
		}
	}
}

func TestCalculateAvailableDatesEmptyWithoutActiveSchedules(t *testing.T) {
	svc := ScheduleService{Now: fixedNow}

	dates := svc.CalculateAvailableDates([]models.RouteSchedule{
		{ID: 1, RouteID: 5, DayOfWeek: 1, IsActive: false},
	}, []string{"08:00"}, nil, nil)

	if len(dates) != 0 {
		t.Fatalf("expected no dates, got %d", len(dates))
	}
}

func TestCalculateAvailableDatesClampsToRequestedWindow(t *testing.T) {
	svc := ScheduleService{Now: fixedNow}

	start := time.Date(2025, 1, 20, 0, 0, 0, 0, time.Local)
	end := time.Date(2025, 1, 26, 0, 0, 0, 0, time.Local)
	dates := svc.CalculateAvailableDates(mondayWednesdaySchedules(), nil, &start, &end)

	if len(dates) != 2 {
		t.Fatalf("expected 2 dates in window, got %d", len(dates))
	}
	if dates[0].Date != "2025-01-20" || dates[1].Date != "2025-01-22" {
		t.Fatalf("unexpected window dates: %s, %s", dates[0].Date, dates[1].Date)
	}
}

func TestCalculateAvailableDatesNeverLeavesHorizon(t *testing.T) {
	svc := ScheduleService{Now: fixedNow}

	end := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	dates := svc.CalculateAvailableDates(mondayWednesdaySchedules(), nil, nil, &end)

	limit := "2025-02-12"
	for _, d := range dates {
		if d.Date > limit {
			t.Fatalf("date %s beyond the booking horizon", d.Date)
		}
	}
}

func TestIsDateAvailable(t *testing.T) {
	svc := ScheduleService{Now: fixedNow}
	schedules := mondayWednesdaySchedules()

	cases := []struct {
		name string
		date time.Time
		want bool
	}{
		{"active weekday inside horizon", time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local), true},
		{"today", time.Date(2025, 1, 13, 23, 59, 0, 0, time.Local), true},
		{"inactive weekday", time.Date(2025, 1, 14, 0, 0, 0, 0, time.Local), false},
		{"past date", time.Date(2025, 1, 6, 0, 0, 0, 0, time.Local), false},
		{"beyond horizon", time.Date(2025, 2, 17, 0, 0, 0, 0, time.Local), false},
	}
	for _, tc := range cases {
		if got := svc.IsDateAvailable(schedules, tc.date); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestAvailabilityInfoSummary(t *testing.T) {
	svc := ScheduleService{Now: fixedNow}

	info := svc.AvailabilityInfo(mondayWednesdaySchedules(), []string{"08:00"}, nil, nil)

	if !info.HasActiveSchedules || info.ActiveSchedulesCount != 2 {
		t.Fatalf("unexpected active schedule summary: %+v", info)
	}
	if !info.IsAvailable || info.AvailableDatesCount != 10 {
		t.Fatalf("unexpected availability: %+v", info)
	}
	if info.NextAvailableDate == nil || *info.NextAvailableDate != "2025-01-13" {
		t.Fatalf("unexpected next available date: %v", info.NextAvailableDate)
	}
}

func TestAvailabilityInfoNoSchedules(t *testing.T) {
	svc := ScheduleService{Now: fixedNow}

	info := svc.AvailabilityInfo(nil, nil, nil, nil)

	if info.HasActiveSchedules || info.IsAvailable {
		t.Fatalf("expected unavailable route, got %+v", info)
	}
	if info.NextAvailableDate != nil {
		t.Fatalf("expected no next date, got %s", *info.NextAvailableDate)
	}
}
