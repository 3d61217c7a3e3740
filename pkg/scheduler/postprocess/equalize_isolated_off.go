package postprocess

import (
	"math/rand"

	"github.com/dutyroster/scheduler/pkg/model"
	"github.com/dutyroster/scheduler/pkg/scheduler/eligibility"
	"github.com/dutyroster/scheduler/pkg/scheduler/state"
)

// equalizeIsolatedOff 在仍然存在孤立休息日的员工之间做最后一轮均衡：优先把孤立休息日
// 留给孤立次数最少的人，减少孤立休息日在个体间分布不均的情况。统计每个人的孤立休息日
// 次数，若两名资格相容的员工之间孤立次数相差超过 1，互换各自的孤立休息日与其相邻的
// 工作日身份。
func equalizeIsolatedOff(schedule *model.Schedule, states map[string]*state.EmployeeState, rng *rand.Rand) {
	counts := countIsolatedOff(schedule)

	for i := 1; i < len(schedule.Days)-1; i++ {
		prev := &schedule.Days[i-1]
		cur := &schedule.Days[i]
		next := &schedule.Days[i+1]

		for _, name := range append([]string(nil), cur.DayOff...) {
			e := employeeByName(schedule, name)
			if e == nil || e.DutyOnly() {
				continue
			}
			prevShift, _ := prev.ShiftOf(name)
			nextShift, _ := next.ShiftOf(name)
			if !eligibility.IsolatedOff(prevShift.IsWorking(), true, nextShift.IsWorking()) {
				continue
			}
			partner := lighterIsolationPartner(schedule, cur, e, counts)
			if partner == "" {
				continue
			}
			cur.Reassign(name, model.Workday)
			cur.Reassign(partner, model.DayOff)
			counts[name]--
			counts[partner]++
		}
	}
	recompute(schedule, states)
}

func countIsolatedOff(schedule *model.Schedule) map[string]int {
	counts := make(map[string]int)
	for i := 1; i < len(schedule.Days)-1; i++ {
		prev := &schedule.Days[i-1]
		cur := &schedule.Days[i]
		next := &schedule.Days[i+1]
		for _, name := range cur.DayOff {
			prevShift, _ := prev.ShiftOf(name)
			nextShift, _ := next.ShiftOf(name)
			if eligibility.IsolatedOff(prevShift.IsWorking(), true, nextShift.IsWorking()) {
				counts[name]++
			}
		}
	}
	return counts
}

func lighterIsolationPartner(schedule *model.Schedule, day *model.DaySchedule, overloaded *model.Employee, counts map[string]int) string {
	best := ""
	bestCount := counts[overloaded.Name]
	for _, name := range day.Workday {
		e := employeeByName(schedule, name)
		if e == nil || e.DutyOnly() {
			continue
		}
		if counts[name] < bestCount-1 {
			bestCount = counts[name]
			best = name
		}
	}
	return best
}
