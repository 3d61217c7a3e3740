package main

import (
	"fmt"
	"time"

	"github.com/dutyroster/scheduler/pkg/model"
)

// monthConfigJSON 是月度配置文件的 JSON 线上格式，转换为 model.Config 供生成器使用。
// model.Employee/Config 内部用 time.Time/map[time.Weekday]bool 等类型表达约束，
// 不直接面向 JSON，因此由这层 DTO 负责翻译。
type monthConfigJSON struct {
	Year      int               `json:"year"`
	Month     int               `json:"month"`
	Seed      int64             `json:"seed"`
	Timezone  string            `json:"timezone"`
	Employees []employeeJSON    `json:"employees"`
	Pins      []pinJSON         `json:"pins"`
	CarryOver []carryOverJSON   `json:"carry_over"`
}

type employeeJSON struct {
	Name                  string   `json:"name"`
	City                  string   `json:"city"`
	ScheduleType          string   `json:"schedule_type"`
	OnDuty                bool     `json:"on_duty"`
	AlwaysOnDuty          bool     `json:"always_on_duty"`
	MorningOnly           bool     `json:"morning_only"`
	EveningOnly           bool     `json:"evening_only"`
	Vacations             []string `json:"vacations"` // "YYYY-MM-DD:YYYY-MM-DD"
	UnavailableDates      []string `json:"unavailable_dates"`
	MaxMorningShifts      *int     `json:"max_morning_shifts"`
	MaxEveningShifts      *int     `json:"max_evening_shifts"`
	MaxNightShifts        *int     `json:"max_night_shifts"`
	PreferredShift        string   `json:"preferred_shift"`
	WorkloadPct           int      `json:"workload_pct"`
	DaysOffWeekly         []string `json:"days_off_weekly"` // 英文星期名，如 "saturday"
	MaxConsecutiveWorking *int     `json:"max_consecutive_working"`
	Group                 string   `json:"group"`
}

type pinJSON struct {
	Date     string `json:"date"`
	Employee string `json:"employee"`
	Shift    string `json:"shift"`
}

type carryOverJSON struct {
	Employee           string `json:"employee"`
	ConsecutiveWorking int    `json:"consecutive_working"`
	ConsecutiveOff     int    `json:"consecutive_off"`
	LastShift          string `json:"last_shift"`
}

var weekdayByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func (raw *monthConfigJSON) toModelConfig() (*model.Config, error) {
	cfg := &model.Config{
		Year:     raw.Year,
		Month:    time.Month(raw.Month),
		Seed:     raw.Seed,
		Timezone: raw.Timezone,
	}

	for _, ej := range raw.Employees {
		e, err := ej.toModel()
		if err != nil {
			return nil, fmt.Errorf("员工 %q: %w", ej.Name, err)
		}
		if err := e.Validate(); err != nil {
			return nil, err
		}
		cfg.Employees = append(cfg.Employees, e)
	}

	for _, pj := range raw.Pins {
		d, err := time.Parse("2006-01-02", pj.Date)
		if err != nil {
			return nil, fmt.Errorf("pin 日期格式错误: %w", err)
		}
		cfg.Pins = append(cfg.Pins, model.Pin{Date: d, Employee: pj.Employee, Shift: model.ShiftType(pj.Shift)})
	}

	for _, cj := range raw.CarryOver {
		cfg.CarryOver = append(cfg.CarryOver, model.CarryOverEntry{
			Employee:           cj.Employee,
			ConsecutiveWorking: cj.ConsecutiveWorking,
			ConsecutiveOff:     cj.ConsecutiveOff,
			LastShift:          model.ShiftType(cj.LastShift),
		})
	}

	return cfg, nil
}

func (ej *employeeJSON) toModel() (*model.Employee, error) {
	e := &model.Employee{
		Name:                  ej.Name,
		City:                  model.City(ej.City),
		ScheduleType:          model.ScheduleType(ej.ScheduleType),
		OnDuty:                ej.OnDuty,
		AlwaysOnDuty:          ej.AlwaysOnDuty,
		MorningOnly:           ej.MorningOnly,
		EveningOnly:           ej.EveningOnly,
		MaxMorningShifts:      ej.MaxMorningShifts,
		MaxEveningShifts:      ej.MaxEveningShifts,
		MaxNightShifts:        ej.MaxNightShifts,
		PreferredShift:        model.ShiftType(ej.PreferredShift),
		WorkloadPct:           ej.WorkloadPct,
		MaxConsecutiveWorking: ej.MaxConsecutiveWorking,
		Group:                 ej.Group,
	}

	for _, v := range ej.Vacations {
		r, err := parseDateRange(v)
		if err != nil {
			return nil, err
		}
		e.Vacations = append(e.Vacations, r)
	}

	if len(ej.UnavailableDates) > 0 {
		e.UnavailableDates = make(map[time.Time]bool, len(ej.UnavailableDates))
		for _, d := range ej.UnavailableDates {
			t, err := time.Parse("2006-01-02", d)
			if err != nil {
				return nil, fmt.Errorf("不可用日期格式错误: %w", err)
			}
			e.UnavailableDates[t] = true
		}
	}

	if len(ej.DaysOffWeekly) > 0 {
		e.DaysOffWeekly = make(map[time.Weekday]bool, len(ej.DaysOffWeekly))
		for _, name := range ej.DaysOffWeekly {
			w, ok := weekdayByName[name]
			if !ok {
				return nil, fmt.Errorf("未知星期名: %q", name)
			}
			e.DaysOffWeekly[w] = true
		}
	}

	return e, nil
}

func parseDateRange(spec string) (model.DateRange, error) {
	var startStr, endStr string
	for i := 0; i < len(spec); i++ {
		if spec[i] == ':' {
			startStr, endStr = spec[:i], spec[i+1:]
			break
		}
	}
	if startStr == "" || endStr == "" {
		return model.DateRange{}, fmt.Errorf("休假区间格式错误: %q，期望 YYYY-MM-DD:YYYY-MM-DD", spec)
	}
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return model.DateRange{}, fmt.Errorf("休假起始日期格式错误: %w", err)
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return model.DateRange{}, fmt.Errorf("休假结束日期格式错误: %w", err)
	}
	return model.DateRange{Start: start, End: end}, nil
}
