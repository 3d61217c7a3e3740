package postprocess

import (
	"math/rand"

	"github.com/dutyroster/scheduler/pkg/model"
	"github.com/dutyroster/scheduler/pkg/scheduler/eligibility"
	"github.com/dutyroster/scheduler/pkg/scheduler/state"
)

// minimizeIsolatedOff 消除"工作-休息一天-工作"的孤立休息日：当前后都在工作、
// 中间恰好一天休息，该员工当天资格允许工作且仍欠工作量时，把孤立的休息日改判为 workday
// （每次改判后重放状态，工作量达标后不再改判）。duty_only 员工不处理。
// 该 pass 在流水线中的三个固定位置各运行一次。
func minimizeIsolatedOff(schedule *model.Schedule, states map[string]*state.EmployeeState, rng *rand.Rand) {
	for _, e := range schedule.Config.Employees {
		if e.DutyOnly() {
			continue
		}
		for i := 1; i < len(schedule.Days)-1; i++ {
			prev := &schedule.Days[i-1]
			cur := &schedule.Days[i]
			next := &schedule.Days[i+1]

			prevShift, _ := prev.ShiftOf(e.Name)
			curShift, ok := cur.ShiftOf(e.Name)
			nextShift, _ := next.ShiftOf(e.Name)
			if !ok || curShift != model.DayOff {
				continue
			}
			if !eligibility.IsolatedOff(prevShift.IsWorking(), true, nextShift.IsWorking()) {
				continue
			}
			if !eligibility.CanWork(e, states[e.Name], cur.Date, cur.IsHoliday) {
				continue
			}
			if !states[e.Name].NeedsMoreWork(1) {
				continue
			}
			cur.Reassign(e.Name, model.Workday)
			recompute(schedule, states)
		}
	}
	recompute(schedule, states)
}
