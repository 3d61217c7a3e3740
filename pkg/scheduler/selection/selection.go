// Package selection 实现候选人排序与抽取策略：按班次计数升序取前 N 名的公平轮换挑选，
// 按工作缺口紧迫度降序排序的额外填充挑选，以及强制班次挑选（先切分欠工作量子集，
// 并叠加早/晚班的偏好顺序）。所有随机决策都经由调用方传入的 *rand.Rand，从不触碰
// 全局随机源，以保证同一 seed 下的可复现性。
package selection

import (
	"math/rand"
	"sort"

	"github.com/dutyroster/scheduler/pkg/model"
	"github.com/dutyroster/scheduler/pkg/scheduler/eligibility"
	"github.com/dutyroster/scheduler/pkg/scheduler/state"
)

// Candidate 一个候选人及其当前运行状态
type Candidate struct {
	Employee *model.Employee
	State    *state.EmployeeState
}

// Fair 按"该班次已值次数"升序、平票时按随机数排序，取前 count 名
// 用于强制班次（早/晚/夜）的公平轮换挑选
func Fair(candidates []Candidate, shift model.ShiftType, count int, rng *rand.Rand) []Candidate {
	tagged := make([]struct {
		c   Candidate
		key float64
		tie float64
	}, len(candidates))
	for i, c := range candidates {
		tagged[i].c = c
		tagged[i].key = float64(c.State.ShiftCount(shift))
		tagged[i].tie = rng.Float64()
	}
	sort.SliceStable(tagged, func(i, j int) bool {
		if tagged[i].key != tagged[j].key {
			return tagged[i].key < tagged[j].key
		}
		return tagged[i].tie < tagged[j].tie
	})
	if count > len(tagged) {
		count = len(tagged)
	}
	out := make([]Candidate, count)
	for i := 0; i < count; i++ {
		out[i] = tagged[i].c
	}
	return out
}

// ByUrgency 按"缺口/剩余天数"的紧迫度降序排序；无缺口者紧迫度为负，排到末尾
// 用于 Moscow 值班员工的额外 workday 填充（build_day 第 6 步）
func ByUrgency(candidates []Candidate, remainingDays int, rng *rand.Rand) []Candidate {
	denom := remainingDays
	if denom < 1 {
		denom = 1
	}
	tagged := make([]struct {
		c   Candidate
		key float64
	}, len(candidates))
	for i, c := range candidates {
		deficit := c.State.EffectiveTarget() - c.State.TotalWorking
		var urgency float64
		if deficit > 0 {
			urgency = float64(deficit)/float64(denom) + rng.Float64()*0.001
		} else {
			urgency = -rng.Float64()
		}
		tagged[i].c = c
		tagged[i].key = urgency
	}
	sort.SliceStable(tagged, func(i, j int) bool {
		return tagged[i].key > tagged[j].key
	})
	out := make([]Candidate, len(tagged))
	for i, t := range tagged {
		out[i] = t.c
	}
	return out
}

// SelectForMandatory 先把候选池切分为"仍欠工作量"与其余两部分，欠量子集人数达到 count
// 时只在该子集内做 Fair 挑选，否则退回全体候选池；用于夜/早/晚三个强制班次的挑选
func SelectForMandatory(candidates []Candidate, shift model.ShiftType, remainingDays, count int, rng *rand.Rand) []Candidate {
	var needy []Candidate
	for _, c := range candidates {
		if c.State.NeedsMoreWork(remainingDays) {
			needy = append(needy, c)
		}
	}
	if len(needy) >= count {
		return Fair(needy, shift, count, rng)
	}
	return Fair(candidates, shift, count, rng)
}

// SelectForMorning 早班挑选：若候选池中存在 morning_only 员工，且池外仍留有可值晚班的
// 员工（意味着优先满足 morning_only 者不会掏空晚班候选池），则只在 morning_only 子集
// 中挑选；否则退回 SelectForMandatory
func SelectForMorning(pool []Candidate, eveningCapableOutsidePool bool, shift model.ShiftType, remainingDays int, rng *rand.Rand) []Candidate {
	if eveningCapableOutsidePool {
		var morningOnly []Candidate
		for _, c := range pool {
			if c.Employee.MorningOnly {
				morningOnly = append(morningOnly, c)
			}
		}
		if len(morningOnly) > 0 {
			return SelectForMandatory(morningOnly, shift, remainingDays, 1, rng)
		}
	}
	return SelectForMandatory(pool, shift, remainingDays, 1, rng)
}

// SelectForEvening 晚班挑选，按偏好顺序：先是正在延续晚班休整（resting_after_evening）的
// 员工——让他们继续值晚班而不是被迫改班；否则是 FLEXIBLE 且 consecutive_working ≥ 2 的
// 员工——避免晚班开启一个必然产生孤立工作日的新工作块；都没有则退回 SelectForMandatory
func SelectForEvening(pool []Candidate, remainingDays int, rng *rand.Rand) []Candidate {
	var restingAfterEvening, flexibleStreak []Candidate
	for _, c := range pool {
		if eligibility.RestingAfterEveningForMorning(c.State) {
			restingAfterEvening = append(restingAfterEvening, c)
		}
		if c.Employee.ScheduleType == model.Flexible && c.State.ConsecutiveWorking >= model.MinWorkBetweenOffs-1 {
			flexibleStreak = append(flexibleStreak, c)
		}
	}
	switch {
	case len(restingAfterEvening) > 0:
		return SelectForMandatory(restingAfterEvening, model.Evening, remainingDays, 1, rng)
	case len(flexibleStreak) > 0:
		return SelectForMandatory(flexibleStreak, model.Evening, remainingDays, 1, rng)
	default:
		return SelectForMandatory(pool, model.Evening, remainingDays, 1, rng)
	}
}

// Pick 取排序后的前 n 个（辅助函数，避免调用方各自写切片越界保护）
func Pick(sorted []Candidate, n int) []Candidate {
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// Names 提取候选人姓名切片
func Names(candidates []Candidate) []string {
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Employee.Name
	}
	return names
}
