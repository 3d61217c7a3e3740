// Package model 定义排班引擎的核心数据模型
package model

import "time"

// Pin 强制分配：调用方断言其合法性，构建阶段不再校验约束
type Pin struct {
	Date     time.Time
	Employee string
	Shift    ShiftType
}

// CarryOverEntry 上月末尾的连续计数状态，用于跨月延续约束
type CarryOverEntry struct {
	Employee           string
	ConsecutiveWorking int
	ConsecutiveOff     int
	LastShift          ShiftType
}

// Config 单次 GenerateSchedule 调用的完整输入
type Config struct {
	Year      int
	Month     time.Month
	Seed      int64
	Employees []*Employee
	Pins      []Pin
	CarryOver []CarryOverEntry
	Timezone  string // 仅作信息记录，不影响计算
}

// DaysInMonth 本月天数
func (c Config) DaysInMonth() int {
	return time.Date(c.Year, c.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstDay 本月第一天（UTC 午夜）
func (c Config) FirstDay() time.Time {
	return time.Date(c.Year, c.Month, 1, 0, 0, 0, 0, time.UTC)
}

// DaySchedule 某一天的完整分配结果
type DaySchedule struct {
	Date      time.Time
	IsHoliday bool

	Morning  []string
	Evening  []string
	Night    []string
	Workday  []string
	DayOff   []string
	Vacation []string
}

// IsCovered 校验当日三个强制班次各恰好一人
func (d *DaySchedule) IsCovered() bool {
	return len(d.Morning) == 1 && len(d.Evening) == 1 && len(d.Night) == 1
}

// ShiftOf 返回某员工在当天被分配的班次；若未出现返回 ("", false)
func (d *DaySchedule) ShiftOf(name string) (ShiftType, bool) {
	lists := []struct {
		shift ShiftType
		names []string
	}{
		{Morning, d.Morning},
		{Evening, d.Evening},
		{Night, d.Night},
		{Workday, d.Workday},
		{DayOff, d.DayOff},
		{Vacation, d.Vacation},
	}
	for _, l := range lists {
		for _, n := range l.names {
			if n == name {
				return l.shift, true
			}
		}
	}
	return "", false
}

// Assign 将员工放入对应班次名单的末尾
func (d *DaySchedule) Assign(name string, shift ShiftType) {
	switch shift {
	case Morning:
		d.Morning = append(d.Morning, name)
	case Evening:
		d.Evening = append(d.Evening, name)
	case Night:
		d.Night = append(d.Night, name)
	case Workday:
		d.Workday = append(d.Workday, name)
	case DayOff:
		d.DayOff = append(d.DayOff, name)
	case Vacation:
		d.Vacation = append(d.Vacation, name)
	}
}

// Reassign 将员工从其当前班次名单移除并放入新班次（用于后处理阶段的互换）
func (d *DaySchedule) Reassign(name string, shift ShiftType) {
	d.remove(name)
	d.Assign(name, shift)
}

func (d *DaySchedule) remove(name string) {
	remove := func(list []string) []string {
		out := list[:0]
		for _, n := range list {
			if n != name {
				out = append(out, n)
			}
		}
		return out
	}
	d.Morning = remove(d.Morning)
	d.Evening = remove(d.Evening)
	d.Night = remove(d.Night)
	d.Workday = remove(d.Workday)
	d.DayOff = remove(d.DayOff)
	d.Vacation = remove(d.Vacation)
}

// Schedule 生成的完整月度排班结果
type Schedule struct {
	Config    Config
	Holidays  map[time.Time]bool
	Days      []DaySchedule
}

// DayByDate 按日期查找已构建的 DaySchedule（nil 表示尚未构建）
func (s *Schedule) DayByDate(day time.Time) *DaySchedule {
	key := truncateDay(day)
	for i := range s.Days {
		if truncateDay(s.Days[i].Date).Equal(key) {
			return &s.Days[i]
		}
	}
	return nil
}
