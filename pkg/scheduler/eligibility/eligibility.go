// Package eligibility 提供贪心构建与后处理阶段共用的纯布尔资格判定
//
// 不同于加权评分式的 Constraint 接口，这里只回答"能不能"，
// 不参与任何打分或排序，排序职责属于 selection 包。
package eligibility

import (
	"time"

	"github.com/dutyroster/scheduler/pkg/model"
	"github.com/dutyroster/scheduler/pkg/scheduler/state"
)

// RestingAfterNight 前一天值夜班的人次日必须休息
func RestingAfterNight(st *state.EmployeeState) bool {
	return st.LastShift == model.Night
}

// RestingAfterEveningForMorning 前一晚值晚班的人不得紧接着值早班
func RestingAfterEveningForMorning(st *state.EmployeeState) bool {
	return st.LastShift == model.Evening
}

// CanWork 贪心构建阶段的基础资格：未被拉黑、未超连续工作上限、且 FIVE_TWO 员工在假日/周末不可用
func CanWork(e *model.Employee, st *state.EmployeeState, day time.Time, isHoliday bool) bool {
	if e.IsBlocked(day) {
		return false
	}
	if st.ConsecutiveWorking >= e.MaxConsecutiveWorkingGreedy() {
		return false
	}
	if e.ScheduleType == model.FiveTwo && isWeekendOrHoliday(day, isHoliday) {
		return false
	}
	return true
}

// CanWorkMorning 在 CanWork 之上叠加早班资格：城市/角色兼容且非晚班后次日
func CanWorkMorning(e *model.Employee, st *state.EmployeeState, day time.Time, isHoliday bool) bool {
	return CanWork(e, st, day, isHoliday) && e.CanWorkMorning() && !RestingAfterEveningForMorning(st)
}

// CanWorkEvening 在 CanWork 之上叠加晚班资格
func CanWorkEvening(e *model.Employee, st *state.EmployeeState, day time.Time, isHoliday bool) bool {
	return CanWork(e, st, day, isHoliday) && e.CanWorkEvening()
}

// CanWorkNight 在 CanWork 之上叠加夜班资格：城市兼容且非夜班后次日（同一夜班不能背靠背）
func CanWorkNight(e *model.Employee, st *state.EmployeeState, day time.Time, isHoliday bool) bool {
	return CanWork(e, st, day, isHoliday) && e.CanWorkNight() && !RestingAfterNight(st)
}

// UnderShiftCap 该员工本月此班次次数是否仍低于其个人上限（未设置上限视为通过）
func UnderShiftCap(e *model.Employee, st *state.EmployeeState, shift model.ShiftType) bool {
	limit := e.ShiftCap(shift)
	if limit == nil {
		return true
	}
	return st.ShiftCount(shift) < *limit
}

func isWeekendOrHoliday(day time.Time, isHoliday bool) bool {
	if isHoliday {
		return true
	}
	w := day.Weekday()
	return w == time.Saturday || w == time.Sunday
}

// IsolatedOff 判断某日是否是一个"孤立休息日"：前后两天均在工作，且本身是 DAY_OFF/VACATION 夹在工作日之间
// 供后处理阶段的 minimize_isolated_off / equalize_isolated_off 使用
func IsolatedOff(prevWorking, isOff, nextWorking bool) bool {
	return prevWorking && isOff && nextWorking
}
