package model

import (
	"testing"
	"time"
)

func TestShiftType_IsWorking(t *testing.T) {
	tests := []struct {
		shift    ShiftType
		expected bool
	}{
		{Morning, true},
		{Evening, true},
		{Night, true},
		{Workday, true},
		{DayOff, false},
		{Vacation, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.shift), func(t *testing.T) {
			if result := tt.shift.IsWorking(); result != tt.expected {
				t.Errorf("IsWorking() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestShiftTimeRange(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	start, end, ok := ShiftTimeRange(Morning, day)
	if !ok {
		t.Fatal("expected MORNING to have a defined time range")
	}
	if start.Hour() != 8 || end.Hour() != 17 {
		t.Errorf("MORNING span = %v-%v, expected 08:00-17:00", start, end)
	}

	_, end, ok = ShiftTimeRange(Evening, day)
	if !ok {
		t.Fatal("expected EVENING to have a defined time range")
	}
	if !end.After(day.Add(23 * time.Hour)) {
		t.Errorf("EVENING should end at midnight the next day, got %v", end)
	}

	if _, _, ok := ShiftTimeRange(DayOff, day); ok {
		t.Error("DAY_OFF should have no defined time range")
	}
}
