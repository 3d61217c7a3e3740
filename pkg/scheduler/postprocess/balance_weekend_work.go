package postprocess

import (
	"math/rand"
	"time"

	"github.com/dutyroster/scheduler/pkg/model"
	"github.com/dutyroster/scheduler/pkg/scheduler/state"
)

// balanceWeekendWork 在 FLEXIBLE 非值班员工之间均衡周末 workday 次数：
// 若某人周末工作次数明显高于另一名同样有资格、当前在休息的人，互换两人当日的班次。
func balanceWeekendWork(schedule *model.Schedule, states map[string]*state.EmployeeState, rng *rand.Rand) {
	weekendCount := make(map[string]int)
	for _, day := range schedule.Days {
		if !isWeekend(day.Date) {
			continue
		}
		for _, name := range day.Workday {
			weekendCount[name]++
		}
	}

	for i := range schedule.Days {
		day := &schedule.Days[i]
		if !isWeekend(day.Date) {
			continue
		}
		for _, name := range append([]string(nil), day.Workday...) {
			e := employeeByName(schedule, name)
			if e == nil || e.OnDuty || e.ScheduleType != model.Flexible {
				continue
			}
			partner := findLighterWeekendPartner(schedule, day, e, weekendCount)
			if partner == "" {
				continue
			}
			day.Reassign(name, model.DayOff)
			day.Reassign(partner, model.Workday)
			weekendCount[name]--
			weekendCount[partner]++
		}
	}
}

// findLighterWeekendPartner 在当天休息的非值班 FLEXIBLE 员工中找一个周末工作次数更少、
// 且本身符合工作资格的人来替换
func findLighterWeekendPartner(schedule *model.Schedule, day *model.DaySchedule, overloaded *model.Employee, weekendCount map[string]int) string {
	best := ""
	bestCount := weekendCount[overloaded.Name]
	for _, name := range day.DayOff {
		e := employeeByName(schedule, name)
		if e == nil || e.OnDuty || e.ScheduleType != model.Flexible {
			continue
		}
		if e.IsBlocked(day.Date) {
			continue
		}
		if weekendCount[name] < bestCount {
			bestCount = weekendCount[name]
			best = name
		}
	}
	return best
}

func isWeekend(d time.Time) bool {
	w := d.Weekday()
	return w == time.Saturday || w == time.Sunday
}

func employeeByName(schedule *model.Schedule, name string) *model.Employee {
	for _, e := range schedule.Config.Employees {
		if e.Name == name {
			return e
		}
	}
	return nil
}
