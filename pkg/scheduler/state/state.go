// Package state 持有单次生成过程中每位员工的可变运行状态
package state

import (
	"time"

	"github.com/dutyroster/scheduler/pkg/model"
)

// EmployeeState 某员工在一次 GenerateSchedule 调用期间的运行状态
type EmployeeState struct {
	ConsecutiveWorking int
	ConsecutiveOff     int
	LastShift          model.ShiftType

	TotalWorking      int
	TargetWorkingDays int
	VacationDays      int

	NightCount   int
	MorningCount int
	EveningCount int
	WorkdayCount int
}

// New 创建一个新的 EmployeeState
func New(targetWorkingDays, vacationDays int) *EmployeeState {
	return &EmployeeState{
		TargetWorkingDays: targetWorkingDays,
		VacationDays:      vacationDays,
	}
}

// FromCarryOver 用上月末尾的延续状态初始化
func FromCarryOver(targetWorkingDays, vacationDays int, c model.CarryOverEntry) *EmployeeState {
	s := New(targetWorkingDays, vacationDays)
	s.ConsecutiveWorking = c.ConsecutiveWorking
	s.ConsecutiveOff = c.ConsecutiveOff
	s.LastShift = c.LastShift
	return s
}

// ShiftCount 返回给定班次类型目前的累计次数
func (s *EmployeeState) ShiftCount(shift model.ShiftType) int {
	switch shift {
	case model.Night:
		return s.NightCount
	case model.Morning:
		return s.MorningCount
	case model.Evening:
		return s.EveningCount
	case model.Workday:
		return s.WorkdayCount
	default:
		return 0
	}
}

// Record 提交一次当日分配，更新计数并重置相应的连续计数
func (s *EmployeeState) Record(shift model.ShiftType) {
	if shift.IsWorking() {
		s.ConsecutiveWorking++
		s.ConsecutiveOff = 0
		s.TotalWorking++
	} else {
		s.ConsecutiveOff++
		s.ConsecutiveWorking = 0
	}
	s.LastShift = shift

	switch shift {
	case model.Morning:
		s.MorningCount++
	case model.Evening:
		s.EveningCount++
	case model.Night:
		s.NightCount++
	case model.Workday:
		s.WorkdayCount++
	}
}

// Clone 返回该状态的一份独立副本
func (s *EmployeeState) Clone() *EmployeeState {
	clone := *s
	return &clone
}

// EffectiveTarget 扣除休假天数后的目标工作天数（不为负）
func (s *EmployeeState) EffectiveTarget() int {
	t := s.TargetWorkingDays - s.VacationDays
	if t < 0 {
		return 0
	}
	return t
}

// NeedsMoreWork 给定剩余天数，该员工是否仍欠缺工作量
func (s *EmployeeState) NeedsMoreWork(remainingDays int) bool {
	if remainingDays <= 0 {
		return false
	}
	return s.EffectiveTarget()-s.TotalWorking > 0
}

// Snapshot 保存全体员工状态的快照，用于回溯时整体恢复
type Snapshot map[string]EmployeeState

// Snap 对当前状态表做一次深拷贝快照
func Snap(states map[string]*EmployeeState) Snapshot {
	snap := make(Snapshot, len(states))
	for name, s := range states {
		snap[name] = *s
	}
	return snap
}

// Restore 将状态表整体恢复为快照内容
func Restore(states map[string]*EmployeeState, snap Snapshot) {
	for name, s := range snap {
		val := s
		states[name] = &val
	}
}

// BuildInitial 依据配置计算每位员工的目标工作天数与休假天数，构造初始状态表
// （目标工作天数 = 生产日历日数 * workload_pct / 100，四舍五入；生产日历日 = 本月工作日中非节假日的天数）
// builder 与 postprocess 都以此为起点，保证两者对"谁还欠多少工作量"的理解完全一致
func BuildInitial(cfg model.Config, holidays map[time.Time]bool) map[string]*EmployeeState {
	productionDays := countProductionDays(cfg, holidays)
	carry := map[string]model.CarryOverEntry{}
	for _, c := range cfg.CarryOver {
		carry[c.Employee] = c
	}

	states := make(map[string]*EmployeeState, len(cfg.Employees))
	for _, e := range cfg.Employees {
		vacationDays := countVacationWeekdays(e, cfg)
		target := int(float64(productionDays)*float64(e.WorkloadPct)/100.0 + 0.5)
		if c, ok := carry[e.Name]; ok {
			states[e.Name] = FromCarryOver(target, vacationDays, c)
		} else {
			states[e.Name] = New(target, vacationDays)
		}
	}
	return states
}

func countProductionDays(cfg model.Config, holidays map[time.Time]bool) int {
	count := 0
	days := cfg.DaysInMonth()
	for i := 0; i < days; i++ {
		d := cfg.FirstDay().AddDate(0, 0, i)
		w := d.Weekday()
		if w == time.Saturday || w == time.Sunday {
			continue
		}
		if holidays != nil && holidays[d] {
			continue
		}
		count++
	}
	return count
}

func countVacationWeekdays(e *model.Employee, cfg model.Config) int {
	count := 0
	days := cfg.DaysInMonth()
	for i := 0; i < days; i++ {
		d := cfg.FirstDay().AddDate(0, 0, i)
		w := d.Weekday()
		if w == time.Saturday || w == time.Sunday {
			continue
		}
		if e.IsOnVacation(d) {
			count++
		}
	}
	return count
}

// ReplayDay 按照某日的最终分配结果更新状态表，用于后处理阶段在调整分配后重建运行状态
func ReplayDay(states map[string]*EmployeeState, day model.DaySchedule) {
	lists := []struct {
		shift model.ShiftType
		names []string
	}{
		{model.Morning, day.Morning},
		{model.Evening, day.Evening},
		{model.Night, day.Night},
		{model.Workday, day.Workday},
		{model.DayOff, day.DayOff},
		{model.Vacation, day.Vacation},
	}
	for _, l := range lists {
		for _, name := range l.names {
			if s, ok := states[name]; ok {
				s.Record(l.shift)
			}
		}
	}
}
