package postprocess

import (
	"math/rand"

	"github.com/dutyroster/scheduler/pkg/model"
	"github.com/dutyroster/scheduler/pkg/scheduler/eligibility"
	"github.com/dutyroster/scheduler/pkg/scheduler/state"
)

// trimLongOffBlocks 扫描每位员工的排班序列，若连续休息（day_off/vacation 中的 day_off 部分）
// 超过其允许上限（统一为 3 天），把超出的那一天改判为 workday，
// 前提是该员工当天资格允许且并非 duty-only（值班的强制班次序列不受此修剪）。
func trimLongOffBlocks(schedule *model.Schedule, states map[string]*state.EmployeeState, rng *rand.Rand) {
	for _, e := range schedule.Config.Employees {
		if e.DutyOnly() {
			continue
		}
		limit := e.MaxConsecutiveOffAllowed()
		run := 0
		for i := range schedule.Days {
			day := &schedule.Days[i]
			shift, ok := day.ShiftOf(e.Name)
			if !ok || shift != model.DayOff {
				run = 0
				continue
			}
			run++
			if run <= limit {
				continue
			}
			if !eligibility.CanWork(e, states[e.Name], day.Date, day.IsHoliday) {
				continue
			}
			day.Reassign(e.Name, model.Workday)
			run = 0
		}
	}
	recompute(schedule, states)
}
