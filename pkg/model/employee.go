// Package model 定义排班引擎的核心数据模型
package model

import (
	"fmt"
	"time"
)

// DateRange 一段连续的日期区间（含端点），用于休假
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains 判断某天是否落在区间内（含端点）
func (r DateRange) Contains(day time.Time) bool {
	d := truncateDay(day)
	s := truncateDay(r.Start)
	e := truncateDay(r.End)
	return !d.Before(s) && !d.After(e)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Employee 员工（构造后不可变）
type Employee struct {
	Name         string
	City         City
	ScheduleType ScheduleType

	OnDuty       bool // 参与强制班次轮换
	AlwaysOnDuty bool // 除休假/不可用外从不休息（仅 MOSCOW）
	MorningOnly  bool
	EveningOnly  bool

	Vacations        []DateRange
	UnavailableDates map[time.Time]bool

	MaxMorningShifts *int
	MaxEveningShifts *int
	MaxNightShifts   *int

	PreferredShift ShiftType // 软偏好，用于平票

	WorkloadPct int // [1,100]

	DaysOffWeekly map[time.Weekday]bool

	MaxConsecutiveWorking *int // 个人覆盖（默认 5）

	Group string // 同组员工不能同日同班次
}

// Validate 校验员工构造后的不变式
func (e *Employee) Validate() error {
	if e.MorningOnly && e.EveningOnly {
		return fmt.Errorf("员工 %q: morning_only 和 evening_only 不能同时为真", e.Name)
	}
	if e.AlwaysOnDuty && e.City != Moscow {
		return fmt.Errorf("员工 %q: always_on_duty 仅适用于 MOSCOW", e.Name)
	}
	if e.OnDuty {
		canMorning := e.City == Moscow && !e.EveningOnly
		canEvening := e.City == Moscow && !e.MorningOnly
		canNight := e.City == Khabarovsk
		if !canMorning && !canEvening && !canNight {
			return fmt.Errorf("员工 %q: 值班员工必须至少兼容一种强制班次", e.Name)
		}
	}
	return nil
}

// IsOnVacation 某天是否处于任一休假区间
func (e *Employee) IsOnVacation(day time.Time) bool {
	for _, v := range e.Vacations {
		if v.Contains(day) {
			return true
		}
	}
	return false
}

// IsUnavailable 某天是否被手动拉黑
func (e *Employee) IsUnavailable(day time.Time) bool {
	if e.UnavailableDates == nil {
		return false
	}
	return e.UnavailableDates[truncateDay(day)]
}

// IsBlocked 不可用：休假中或被手动拉黑
func (e *Employee) IsBlocked(day time.Time) bool {
	return e.IsOnVacation(day) || e.IsUnavailable(day)
}

// CanWorkMorning 是否可以值早班
func (e *Employee) CanWorkMorning() bool {
	return e.City == Moscow && !e.EveningOnly
}

// CanWorkEvening 是否可以值晚班
func (e *Employee) CanWorkEvening() bool {
	return e.City == Moscow && !e.MorningOnly
}

// CanWorkNight 是否可以值夜班
func (e *Employee) CanWorkNight() bool {
	return e.City == Khabarovsk
}

// DutyOnly 值班且从不承担 WORKDAY（morning_only/evening_only/always_on_duty 任一成立）
func (e *Employee) DutyOnly() bool {
	return e.OnDuty && (e.MorningOnly || e.EveningOnly || e.AlwaysOnDuty)
}

// MaxConsecutiveWorkingGreedy 贪心阶段的连续工作上限
func (e *Employee) MaxConsecutiveWorkingGreedy() int {
	max := DefaultMaxConsecutiveWorking
	if e.MaxConsecutiveWorking != nil && *e.MaxConsecutiveWorking < max {
		max = *e.MaxConsecutiveWorking
	}
	return max
}

// MaxConsecutiveWorkingPostprocess 后处理阶段的连续工作上限
// FLEXIBLE 值班非 duty-only 员工为 6，其余为 5
func (e *Employee) MaxConsecutiveWorkingPostprocess() int {
	if e.ScheduleType == Flexible && e.OnDuty && !e.DutyOnly() {
		return MaxConsecutiveWorkingPostHi
	}
	return DefaultMaxConsecutiveWorking
}

// MaxConsecutiveOffAllowed 最大连续休息天数（所有员工统一为 3）
func (e *Employee) MaxConsecutiveOffAllowed() int {
	return MaxConsecutiveOff
}

// WeekdayOff 某个星期几是否在员工的固定休息日中
func (e *Employee) WeekdayOff(w time.Weekday) bool {
	if e.DaysOffWeekly == nil {
		return false
	}
	return e.DaysOffWeekly[w]
}

// ShiftCap 返回指定班次类型的月度上限（未设置则为 nil）
func (e *Employee) ShiftCap(shift ShiftType) *int {
	switch shift {
	case Morning:
		return e.MaxMorningShifts
	case Evening:
		return e.MaxEveningShifts
	case Night:
		return e.MaxNightShifts
	default:
		return nil
	}
}
