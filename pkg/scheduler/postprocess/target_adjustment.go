package postprocess

import (
	"math/rand"

	"github.com/dutyroster/scheduler/pkg/model"
	"github.com/dutyroster/scheduler/pkg/scheduler/eligibility"
	"github.com/dutyroster/scheduler/pkg/scheduler/state"
)

// targetAdjustmentPass 逐人检查 total_working 与 effective_target 的偏差：
// 欠工作量的非值班员工，在其第一个资格允许的休息日改判为 workday；
// 超工作量的人（仅限非 duty-only），把其第一个 workday 改判为 day_off（workday 不属于强制班次，不影响覆盖）。
// 每次调用每人至多调整一天，偏差大于 1 时一次调用不会把偏差归零。
// 每次修改后立即重新回放状态，保证下一位员工的判断基于最新数据。
func targetAdjustmentPass(schedule *model.Schedule, states map[string]*state.EmployeeState, rng *rand.Rand) {
	for _, e := range schedule.Config.Employees {
		deficit := states[e.Name].EffectiveTarget() - states[e.Name].TotalWorking
		if deficit > 0 {
			fillOneRestDay(schedule, states, e)
		} else if deficit < 0 && !e.DutyOnly() {
			freeOneWorkDay(schedule, states, e)
		}
	}
	recompute(schedule, states)
}

func fillOneRestDay(schedule *model.Schedule, states map[string]*state.EmployeeState, e *model.Employee) {
	for i := range schedule.Days {
		day := &schedule.Days[i]
		shift, ok := day.ShiftOf(e.Name)
		if !ok || shift != model.DayOff {
			continue
		}
		st := states[e.Name]
		if !eligibility.CanWork(e, st, day.Date, day.IsHoliday) {
			continue
		}
		if e.OnDuty {
			continue // 值班员工的额外填充已在 build_day 第 6/7 步完成，此处只调整非值班员工
		}
		day.Reassign(e.Name, model.Workday)
		recompute(schedule, states)
		return
	}
}

func freeOneWorkDay(schedule *model.Schedule, states map[string]*state.EmployeeState, e *model.Employee) {
	for i := range schedule.Days {
		day := &schedule.Days[i]
		shift, ok := day.ShiftOf(e.Name)
		if !ok || shift != model.Workday {
			continue
		}
		day.Reassign(e.Name, model.DayOff)
		recompute(schedule, states)
		return
	}
}
