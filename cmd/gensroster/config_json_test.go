package main

import (
	"testing"
	"time"

	"github.com/dutyroster/scheduler/pkg/model"
)

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{"合法区间", "2026-03-10:2026-03-15", false},
		{"缺少冒号", "2026-03-10", true},
		{"非法起始日期", "bad:2026-03-15", true},
		{"非法结束日期", "2026-03-10:bad", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseDateRange(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseDateRange(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
		})
	}
}

func TestParseDateRange_Values(t *testing.T) {
	r, err := parseDateRange("2026-03-10:2026-03-15")
	if err != nil {
		t.Fatalf("parseDateRange 失败: %v", err)
	}
	want := model.DateRange{
		Start: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}
	if !r.Start.Equal(want.Start) || !r.End.Equal(want.End) {
		t.Errorf("parseDateRange() = %+v, want %+v", r, want)
	}
}

func TestEmployeeJSON_ToModel(t *testing.T) {
	maxMorning := 5
	ej := employeeJSON{
		Name:             "Ivanov",
		City:             "moscow",
		ScheduleType:     "flexible",
		OnDuty:           true,
		WorkloadPct:      100,
		MaxMorningShifts: &maxMorning,
		Vacations:        []string{"2026-03-10:2026-03-12"},
		UnavailableDates: []string{"2026-03-20"},
		DaysOffWeekly:    []string{"saturday", "sunday"},
	}
	e, err := ej.toModel()
	if err != nil {
		t.Fatalf("toModel 失败: %v", err)
	}
	if e.Name != "Ivanov" || e.City != model.Moscow {
		t.Errorf("基础字段转换不正确: %+v", e)
	}
	if len(e.Vacations) != 1 {
		t.Errorf("休假区间应被解析, got %d", len(e.Vacations))
	}
	if !e.UnavailableDates[time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)] {
		t.Error("不可用日期应被正确解析")
	}
	if !e.DaysOffWeekly[time.Saturday] || !e.DaysOffWeekly[time.Sunday] {
		t.Error("固定休息日应包含周六周日")
	}
	if e.MaxMorningShifts == nil || *e.MaxMorningShifts != 5 {
		t.Error("早班上限应被正确转换")
	}
}

func TestEmployeeJSON_ToModel_UnknownWeekday(t *testing.T) {
	ej := employeeJSON{Name: "Ivanov", City: "moscow", DaysOffWeekly: []string{"someday"}}
	if _, err := ej.toModel(); err == nil {
		t.Error("未知星期名应报错")
	}
}

func TestMonthConfigJSON_ToModelConfig(t *testing.T) {
	raw := monthConfigJSON{
		Year:  2026,
		Month: 3,
		Seed:  7,
		Employees: []employeeJSON{
			{Name: "Ivanov", City: "moscow", ScheduleType: "flexible", OnDuty: true, WorkloadPct: 100},
			{Name: "Petrov", City: "khabarovsk", ScheduleType: "flexible", OnDuty: true, WorkloadPct: 100},
		},
		Pins: []pinJSON{
			{Date: "2026-03-05", Employee: "Ivanov", Shift: "morning"},
		},
		CarryOver: []carryOverJSON{
			{Employee: "Ivanov", ConsecutiveWorking: 2, LastShift: "workday"},
		},
	}
	cfg, err := raw.toModelConfig()
	if err != nil {
		t.Fatalf("toModelConfig 失败: %v", err)
	}
	if cfg.Year != 2026 || cfg.Month != time.March || cfg.Seed != 7 {
		t.Errorf("基础字段转换不正确: %+v", cfg)
	}
	if len(cfg.Employees) != 2 {
		t.Errorf("员工数量 = %d, want 2", len(cfg.Employees))
	}
	if len(cfg.Pins) != 1 || cfg.Pins[0].Shift != model.Morning {
		t.Errorf("pin 转换不正确: %+v", cfg.Pins)
	}
	if len(cfg.CarryOver) != 1 || cfg.CarryOver[0].ConsecutiveWorking != 2 {
		t.Errorf("延续状态转换不正确: %+v", cfg.CarryOver)
	}
}

func TestMonthConfigJSON_ToModelConfig_InvalidEmployee(t *testing.T) {
	raw := monthConfigJSON{
		Year:  2026,
		Month: 3,
		Employees: []employeeJSON{
			{Name: "Bad", City: "moscow", MorningOnly: true, EveningOnly: true},
		},
	}
	if _, err := raw.toModelConfig(); err == nil {
		t.Error("违反 Employee.Validate 不变式的员工应导致转换失败")
	}
}

func TestMonthConfigJSON_ToModelConfig_BadPinDate(t *testing.T) {
	raw := monthConfigJSON{
		Year:  2026,
		Month: 3,
		Pins:  []pinJSON{{Date: "not-a-date", Employee: "Ivanov", Shift: "morning"}},
	}
	if _, err := raw.toModelConfig(); err == nil {
		t.Error("非法 pin 日期应导致转换失败")
	}
}
