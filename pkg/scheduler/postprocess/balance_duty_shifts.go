package postprocess

import (
	"math/rand"

	"github.com/dutyroster/scheduler/pkg/model"
	"github.com/dutyroster/scheduler/pkg/scheduler/eligibility"
	"github.com/dutyroster/scheduler/pkg/scheduler/state"
)

// balanceDutyShifts 在值班员工之间均衡夜班/早班/晚班的月度次数：对每种强制班次，
// 找出当前次数最多与最少的一对值班员工，若存在某天"多次数者"值该班次而"少次数者"
// 恰好在休息且仍具资格，则互换两人当天的班次名字——互换不改变该日的覆盖结构，恒安全。
func balanceDutyShifts(schedule *model.Schedule, states map[string]*state.EmployeeState, rng *rand.Rand) {
	for _, shift := range []model.ShiftType{model.Night, model.Morning, model.Evening} {
		rebalanceShift(schedule, states, shift)
	}
}

func rebalanceShift(schedule *model.Schedule, states map[string]*state.EmployeeState, shift model.ShiftType) {
	for iter := 0; iter < 3; iter++ {
		most, least := extremesForShift(schedule, states, shift)
		if most == "" || least == "" || most == least {
			return
		}
		if !trySwapShift(schedule, states, shift, most, least) {
			return
		}
		recompute(schedule, states)
	}
}

func extremesForShift(schedule *model.Schedule, states map[string]*state.EmployeeState, shift model.ShiftType) (most, least string) {
	var maxCount, minCount = -1, int(^uint(0)>>1)
	for _, e := range schedule.Config.Employees {
		if !e.OnDuty {
			continue
		}
		if !shiftCompatible(e, shift) {
			continue
		}
		s := states[e.Name]
		c := s.ShiftCount(shift)
		if c > maxCount {
			maxCount = c
			most = e.Name
		}
		if c < minCount {
			minCount = c
			least = e.Name
		}
	}
	return
}

func shiftCompatible(e *model.Employee, shift model.ShiftType) bool {
	switch shift {
	case model.Morning:
		return e.CanWorkMorning()
	case model.Evening:
		return e.CanWorkEvening()
	case model.Night:
		return e.CanWorkNight()
	default:
		return false
	}
}

// trySwapShift 寻找一天：most 在值 shift，least 恰好休息且符合当日资格，互换两人当天的班次
func trySwapShift(schedule *model.Schedule, states map[string]*state.EmployeeState, shift model.ShiftType, most, least string) bool {
	mostEmp := employeeByName(schedule, most)
	leastEmp := employeeByName(schedule, least)
	if mostEmp == nil || leastEmp == nil {
		return false
	}
	for i := range schedule.Days {
		day := &schedule.Days[i]
		if !containsName(shiftList(day, shift), most) {
			continue
		}
		leastShift, ok := day.ShiftOf(least)
		if !ok || leastShift.IsWorking() {
			continue
		}
		if leastEmp.IsBlocked(day.Date) {
			continue
		}
		if !eligibility.CanWork(leastEmp, states[least], day.Date, day.IsHoliday) {
			continue
		}
		day.Reassign(most, leastShift)
		day.Reassign(least, shift)
		return true
	}
	return false
}

func shiftList(day *model.DaySchedule, shift model.ShiftType) []string {
	switch shift {
	case model.Morning:
		return day.Morning
	case model.Evening:
		return day.Evening
	case model.Night:
		return day.Night
	case model.Workday:
		return day.Workday
	case model.DayOff:
		return day.DayOff
	case model.Vacation:
		return day.Vacation
	default:
		return nil
	}
}

func containsName(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}
