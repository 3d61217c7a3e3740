package postprocess

import (
	"math/rand"

	"github.com/dutyroster/scheduler/pkg/model"
	"github.com/dutyroster/scheduler/pkg/scheduler/eligibility"
	"github.com/dutyroster/scheduler/pkg/scheduler/state"
)

// breakEveningIsolatedPattern 修复前序互换可能引入的"晚班后紧接早班"违规：
// 若某员工昨天值晚班、今天被排了早班，找一名今天休息且具早班资格的人与其互换，
// 让原晚班员工改为休息，保证晚班后至少有一天不值早班。
func breakEveningIsolatedPattern(schedule *model.Schedule, states map[string]*state.EmployeeState, rng *rand.Rand) {
	for i := 1; i < len(schedule.Days); i++ {
		prev := &schedule.Days[i-1]
		cur := &schedule.Days[i]
		for _, name := range append([]string(nil), cur.Morning...) {
			prevShift, ok := prev.ShiftOf(name)
			if !ok || prevShift != model.Evening {
				continue
			}
			if swapMorningForRestingPartner(schedule, states, cur, name) {
				continue
			}
		}
	}
	recompute(schedule, states)
}

func swapMorningForRestingPartner(schedule *model.Schedule, states map[string]*state.EmployeeState, day *model.DaySchedule, violator string) bool {
	for _, name := range append([]string(nil), day.DayOff...) {
		e := employeeByName(schedule, name)
		if e == nil || !e.CanWorkMorning() {
			continue
		}
		if e.IsBlocked(day.Date) {
			continue
		}
		if !eligibility.CanWork(e, states[name], day.Date, day.IsHoliday) {
			continue
		}
		day.Reassign(violator, model.DayOff)
		day.Reassign(name, model.Morning)
		return true
	}
	return false
}
