package model

import (
	"testing"
	"time"
)

func intPtr(n int) *int { return &n }

func TestEmployee_Validate(t *testing.T) {
	tests := []struct {
		name    string
		e       Employee
		wantErr bool
	}{
		{"普通MOSCOW员工", Employee{Name: "Ivanov", City: Moscow, OnDuty: true}, false},
		{"morning与evening互斥", Employee{Name: "Kozlov", City: Moscow, MorningOnly: true, EveningOnly: true}, true},
		{"always_on_duty要求MOSCOW", Employee{Name: "Popov", City: Khabarovsk, AlwaysOnDuty: true}, true},
		{"morning_only的duty员工合法", Employee{Name: "Nikto", City: Moscow, OnDuty: true, MorningOnly: true, EveningOnly: false, AlwaysOnDuty: false}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.e.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEmployee_IsOnVacation(t *testing.T) {
	e := Employee{
		Name: "Ivanov",
		Vacations: []DateRange{
			{Start: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), End: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		},
	}

	tests := []struct {
		day      time.Time
		expected bool
	}{
		{time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.day.Format("2006-01-02"), func(t *testing.T) {
			if result := e.IsOnVacation(tt.day); result != tt.expected {
				t.Errorf("IsOnVacation(%v) = %v, expected %v", tt.day, result, tt.expected)
			}
		})
	}
}

func TestEmployee_CanWorkShifts(t *testing.T) {
	morningOnly := Employee{Name: "Sidorov", City: Moscow, MorningOnly: true}
	if !morningOnly.CanWorkMorning() {
		t.Error("morning_only员工应能值早班")
	}
	if morningOnly.CanWorkEvening() {
		t.Error("morning_only员工不应能值晚班")
	}
	if morningOnly.CanWorkNight() {
		t.Error("MOSCOW员工不应能值夜班")
	}

	khabarovsk := Employee{Name: "Smirnov", City: Khabarovsk}
	if !khabarovsk.CanWorkNight() {
		t.Error("KHABAROVSK员工应能值夜班")
	}
	if khabarovsk.CanWorkMorning() || khabarovsk.CanWorkEvening() {
		t.Error("KHABAROVSK员工不应能值MOSCOW班次")
	}
}

func TestEmployee_DutyOnly(t *testing.T) {
	tests := []struct {
		name     string
		e        Employee
		expected bool
	}{
		{"普通duty员工", Employee{OnDuty: true}, false},
		{"morning_only duty员工", Employee{OnDuty: true, MorningOnly: true}, true},
		{"always_on_duty员工", Employee{OnDuty: true, AlwaysOnDuty: true}, true},
		{"非duty员工", Employee{OnDuty: false, MorningOnly: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.e.DutyOnly(); result != tt.expected {
				t.Errorf("DutyOnly() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestEmployee_MaxConsecutiveWorking(t *testing.T) {
	plain := Employee{ScheduleType: Flexible, OnDuty: true}
	if got := plain.MaxConsecutiveWorkingGreedy(); got != 5 {
		t.Errorf("贪心阶段上限 = %d, expected 5", got)
	}
	if got := plain.MaxConsecutiveWorkingPostprocess(); got != 6 {
		t.Errorf("FLEXIBLE on_duty 非duty_only 后处理上限 = %d, expected 6", got)
	}

	override := Employee{ScheduleType: Flexible, OnDuty: true, MaxConsecutiveWorking: intPtr(3)}
	if got := override.MaxConsecutiveWorkingGreedy(); got != 3 {
		t.Errorf("个人覆盖后贪心阶段上限 = %d, expected 3", got)
	}

	dutyOnly := Employee{ScheduleType: Flexible, OnDuty: true, AlwaysOnDuty: true, City: Moscow}
	if got := dutyOnly.MaxConsecutiveWorkingPostprocess(); got != 5 {
		t.Errorf("duty_only 后处理上限 = %d, expected 5", got)
	}
}

func TestEmployee_ShiftCap(t *testing.T) {
	e := Employee{MaxMorningShifts: intPtr(10), MaxNightShifts: nil}
	if cap := e.ShiftCap(Morning); cap == nil || *cap != 10 {
		t.Errorf("ShiftCap(Morning) = %v, expected 10", cap)
	}
	if cap := e.ShiftCap(Night); cap != nil {
		t.Errorf("ShiftCap(Night) = %v, expected nil", cap)
	}
	if cap := e.ShiftCap(Workday); cap != nil {
		t.Errorf("ShiftCap(Workday) = %v, expected nil", cap)
	}
}
