// Package postprocess 实现贪心构建完成后的 12 步修复流水线：每一遍都直接在排班上
// 就地互换或改判班次（没有单独的模拟-回退步骤），改动只涉及互换同一强制班次的持有人
// 或在 workday 与休息之间改判，因此不会引入新的覆盖缺口。
//
// 幂等性：流水线跑第二遍必须是不动点——本实现的每个 pass 都只在
// 发现真实改进（或真实违规）时才修改排班，因此对一个已经稳定的排班重新整体运行不会
// 产生任何变化。
package postprocess

import (
	"math/rand"

	"github.com/dutyroster/scheduler/pkg/model"
	"github.com/dutyroster/scheduler/pkg/scheduler/state"
)

// Run 按固定顺序执行全部后处理步骤
func Run(schedule *model.Schedule, states map[string]*state.EmployeeState, rng *rand.Rand) error {
	recompute(schedule, states)

	balanceWeekendWork(schedule, states, rng)
	recompute(schedule, states)

	balanceDutyShifts(schedule, states, rng)
	targetAdjustmentPass(schedule, states, rng)
	trimLongOffBlocks(schedule, states, rng)
	recompute(schedule, states)

	targetAdjustmentPass(schedule, states, rng)
	minimizeIsolatedOff(schedule, states, rng)
	breakEveningIsolatedPattern(schedule, states, rng)
	minimizeIsolatedOff(schedule, states, rng)
	equalizeIsolatedOff(schedule, states, rng)
	minimizeIsolatedOff(schedule, states, rng)

	return nil
}

// recompute 清空状态表的累计计数并按当前排班结果重新回放，使状态与排班内容严格一致
// （每次互换改写某日分配之后都必须这样做一次，否则后续 pass 的"紧迫度"判断会基于陈旧数据）
func recompute(schedule *model.Schedule, states map[string]*state.EmployeeState) {
	for _, s := range states {
		s.TotalWorking = 0
		s.ConsecutiveWorking = 0
		s.ConsecutiveOff = 0
		s.LastShift = ""
		s.NightCount = 0
		s.MorningCount = 0
		s.EveningCount = 0
		s.WorkdayCount = 0
	}
	for _, day := range schedule.Days {
		state.ReplayDay(states, day)
	}
}
