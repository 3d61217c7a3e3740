// Package model 定义排班引擎的核心数据模型：员工、班次分类、配置与排班结果
package model

import "time"

// ShiftType 班次类型（封闭变体）
type ShiftType string

const (
	Morning  ShiftType = "morning"
	Evening  ShiftType = "evening"
	Night    ShiftType = "night"
	Workday  ShiftType = "workday"
	DayOff   ShiftType = "day_off"
	Vacation ShiftType = "vacation"
)

// IsWorking 是否计入连续工作天数与月度工作量
func (s ShiftType) IsWorking() bool {
	switch s {
	case Morning, Evening, Night, Workday:
		return true
	default:
		return false
	}
}

// shiftSpan 班次在一天之内的起止偏移
type shiftSpan struct {
	start time.Duration
	end   time.Duration // 可超过24h，表示次日结束
}

var shiftSpans = map[ShiftType]shiftSpan{
	Morning: {start: 8 * time.Hour, end: 17 * time.Hour},
	Evening: {start: 15 * time.Hour, end: 24 * time.Hour},
	Night:   {start: 0, end: 8 * time.Hour},
	Workday: {start: 9 * time.Hour, end: 18 * time.Hour},
}

// ShiftTimeRange 返回班次在给定日期上的起止时刻（导出器的权威来源）
// 仅 MORNING/EVENING/NIGHT/WORKDAY 有定义的时段
func ShiftTimeRange(shift ShiftType, day time.Time) (start, end time.Time, ok bool) {
	span, found := shiftSpans[shift]
	if !found {
		return time.Time{}, time.Time{}, false
	}
	base := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return base.Add(span.start), base.Add(span.end), true
}

// City 驻地城市
type City string

const (
	Moscow     City = "moscow"
	Khabarovsk City = "khabarovsk"
)

// ScheduleType 排班类型：FLEXIBLE 任意工作日；FIVE_TWO 仅生产日历工作日
type ScheduleType string

const (
	Flexible ScheduleType = "flexible"
	FiveTwo  ScheduleType = "5/2"
)

// 公平性与休息相关常量
const (
	DefaultMaxConsecutiveWorking = 5
	MaxConsecutiveWorkingPostHi  = 6 // FLEXIBLE 值班非 duty-only 员工，后处理修复孤立休息日时的上限
	MaxConsecutiveOff            = 3
	MinWorkBetweenOffs           = 3
	MaxBacktrackDays             = 3
	MaxBacktrackAttempts         = 10
)
