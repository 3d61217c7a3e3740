package builder

import (
	"time"

	"github.com/dutyroster/scheduler/pkg/errors"
	"github.com/dutyroster/scheduler/pkg/model"
	"github.com/dutyroster/scheduler/pkg/scheduler/eligibility"
	"github.com/dutyroster/scheduler/pkg/scheduler/selection"
)

// buildDay 按固定步骤顺序构建某一天的排班：
//  1. 应用当日 pin
//  2. 处理 always_on_duty 员工：休假/不可用特例，morning_only/evening_only 者直接预定
//     其强制班次，其余 always_on_duty 员工标记为"预定"，在第 4/5 步优先入选
//  3. 夜班（KHABAROVSK 值班，资格含月度班次上限与同组互斥）
//  4. 早班（MOSCOW 值班，同上，含 morning_only 优先与预定员工优先）
//  5. 晚班（MOSCOW 值班，候选池回退，含偏好顺序与预定员工优先）
//  6. MOSCOW 值班员工的额外 workday 填充（仅非节假日，排除 duty_only，保留至少 1 人空闲）
//  7. KHABAROVSK 值班员工的 workday/休息收尾
//  8. 非值班员工分配
//  9. 反孤立休息日覆盖
//  10. 反过短工作块覆盖
//  11. 提交：记录全体员工本日状态
func (b *Builder) buildDay(dayIdx int, date time.Time, isHoliday bool, remainingDays int) (*model.DaySchedule, error) {
	day := &model.DaySchedule{Date: date, IsHoliday: isHoliday}
	assigned := make(map[string]bool, len(b.cfg.Employees))

	moscowDuty, khabDuty, nonDuty := partition(b.cfg)

	// 1. pins
	for _, p := range b.cfg.Pins {
		if !sameDate(p.Date, date) {
			continue
		}
		day.Assign(p.Employee, p.Shift)
		assigned[p.Employee] = true
	}

	// 2. always_on_duty：休假/不可用时不走正常轮换；morning_only/evening_only 者在
	// 资格允许时直接预定其强制班次；其余纯 always_on_duty 员工记入 reservedAlwaysOnDuty，
	// 在第 4/5 步的候选池中优先入选，贯彻"除休假/不可用外从不休息"
	usedGroups := make(map[string]bool)
	markGroupUsed := func(e *model.Employee) {
		if e.Group != "" {
			usedGroups[e.Group] = true
		}
	}
	groupFree := func(e *model.Employee) bool {
		return e.Group == "" || !usedGroups[e.Group]
	}

	reservedAlwaysOnDuty := make(map[string]bool)
	for _, e := range moscowDuty {
		if assigned[e.Name] || !e.AlwaysOnDuty {
			continue
		}
		st := b.states[e.Name]
		switch {
		case e.IsOnVacation(date):
			day.Assign(e.Name, model.Vacation)
			assigned[e.Name] = true
		case e.IsUnavailable(date):
			day.Assign(e.Name, model.DayOff)
			assigned[e.Name] = true
		case e.MorningOnly:
			if eligibility.CanWorkMorning(e, st, date, isHoliday) && !eligibility.RestingAfterEveningForMorning(st) &&
				eligibility.UnderShiftCap(e, st, model.Morning) && groupFree(e) {
				day.Assign(e.Name, model.Morning)
				assigned[e.Name] = true
				markGroupUsed(e)
			}
		case e.EveningOnly:
			if eligibility.CanWorkEvening(e, st, date, isHoliday) && eligibility.UnderShiftCap(e, st, model.Evening) && groupFree(e) {
				day.Assign(e.Name, model.Evening)
				assigned[e.Name] = true
				markGroupUsed(e)
			}
		default:
			reservedAlwaysOnDuty[e.Name] = true
		}
	}

	// 记入此刻已经占用某个强制班次（夜/早/晚）的同组占位，供后续三个资格池排除
	for _, e := range b.cfg.Employees {
		if !assigned[e.Name] {
			continue
		}
		if shift, ok := day.ShiftOf(e.Name); ok && (shift == model.Night || shift == model.Morning || shift == model.Evening) {
			markGroupUsed(e)
		}
	}

	// 3. 夜班（KHABAROVSK）
	if len(day.Night) == 0 {
		var nightEligible []selection.Candidate
		for _, e := range khabDuty {
			if assigned[e.Name] {
				continue
			}
			st := b.states[e.Name]
			if eligibility.CanWorkNight(e, st, date, isHoliday) && eligibility.UnderShiftCap(e, st, model.Night) && groupFree(e) {
				nightEligible = append(nightEligible, selection.Candidate{Employee: e, State: st})
			}
		}
		if len(nightEligible) == 0 {
			return nil, errors.InsufficientCoverage(string(model.Night), "无人满足夜班资格")
		}
		nightPick := selection.SelectForMandatory(nightEligible, model.Night, remainingDays, 1, b.rng)
		day.Assign(nightPick[0].Employee.Name, model.Night)
		assigned[nightPick[0].Employee.Name] = true
		markGroupUsed(nightPick[0].Employee)
	}

	// 4/5. 早班与晚班（MOSCOW）
	var moscowAvailable []selection.Candidate
	for _, e := range moscowDuty {
		if assigned[e.Name] {
			continue
		}
		st := b.states[e.Name]
		if eligibility.CanWork(e, st, date, isHoliday) {
			moscowAvailable = append(moscowAvailable, selection.Candidate{Employee: e, State: st})
		}
	}

	var morningEligible, eveningEligible []selection.Candidate
	for _, c := range moscowAvailable {
		if eligibility.CanWorkMorning(c.Employee, c.State, date, isHoliday) && !eligibility.RestingAfterEveningForMorning(c.State) &&
			eligibility.UnderShiftCap(c.Employee, c.State, model.Morning) && groupFree(c.Employee) {
			morningEligible = append(morningEligible, c)
		}
		if eligibility.CanWorkEvening(c.Employee, c.State, date, isHoliday) &&
			eligibility.UnderShiftCap(c.Employee, c.State, model.Evening) && groupFree(c.Employee) {
			eveningEligible = append(eveningEligible, c)
		}
	}

	var morningName string
	if len(day.Morning) > 0 {
		morningName = day.Morning[0]
	} else {
		if len(morningEligible) == 0 {
			return nil, errors.InsufficientCoverage(string(model.Morning), "无人满足早班资格")
		}
		var morningPickEmployee *model.Employee
		if reserved, ok := firstReserved(morningEligible, reservedAlwaysOnDuty); ok {
			morningPickEmployee = reserved
		} else {
			morningNames := make(map[string]bool, len(morningEligible))
			for _, c := range morningEligible {
				morningNames[c.Employee.Name] = true
			}
			eveningCapableOutside := false
			for _, c := range moscowAvailable {
				if morningNames[c.Employee.Name] {
					continue
				}
				if eligibility.CanWorkEvening(c.Employee, c.State, date, isHoliday) {
					eveningCapableOutside = true
					break
				}
			}
			pick := selection.SelectForMorning(morningEligible, eveningCapableOutside, model.Morning, remainingDays, b.rng)
			morningPickEmployee = pick[0].Employee
		}
		morningName = morningPickEmployee.Name
		day.Assign(morningName, model.Morning)
		assigned[morningName] = true
		delete(reservedAlwaysOnDuty, morningName)
		markGroupUsed(morningPickEmployee)
	}

	if len(day.Evening) == 0 {
		if len(eveningEligible) == 0 {
			return nil, errors.InsufficientCoverage(string(model.Evening), "无人满足晚班资格")
		}
		// 排除早班当选人；若因此晚班候选池为空（早班当选人是唯一能值晚班的人，
		// 而一人不能兼两班），则报告覆盖不足，交由回溯器处理
		eveningPool := excludeByName(eveningEligible, morningName)
		if len(eveningPool) == 0 {
			return nil, errors.InsufficientCoverage(string(model.Evening), "排除早班当选人后晚班候选池为空")
		}
		eveningPool = excludeGroupUsed(eveningPool, usedGroups)
		if len(eveningPool) == 0 {
			return nil, errors.InsufficientCoverage(string(model.Evening), "排除同组员工后晚班候选池为空")
		}
		var eveningPickEmployee *model.Employee
		if reserved, ok := firstReserved(eveningPool, reservedAlwaysOnDuty); ok {
			eveningPickEmployee = reserved
		} else {
			pick := selection.SelectForEvening(eveningPool, remainingDays, b.rng)
			eveningPickEmployee = pick[0].Employee
		}
		day.Assign(eveningPickEmployee.Name, model.Evening)
		assigned[eveningPickEmployee.Name] = true
		markGroupUsed(eveningPickEmployee)
	}

	// 6. MOSCOW 值班员工的额外 workday 填充：仅在非节假日执行，排除 duty_only 员工，
	// 排除 FLEXIBLE 且 consecutive_off=1 者（避免拆散刚开始的休息对），恒定保留至少 1 人空闲，
	// 若次日是节假日则先核实次日仍有足够资格覆盖三个强制班次
	if !isHoliday {
		for {
			var stillFree int
			for _, c := range moscowAvailable {
				if !assigned[c.Employee.Name] {
					stillFree++
				}
			}
			if stillFree <= 1 {
				break
			}

			var candidates []selection.Candidate
			for _, c := range moscowAvailable {
				if assigned[c.Employee.Name] {
					continue
				}
				if c.Employee.DutyOnly() {
					continue
				}
				if c.Employee.ScheduleType == model.Flexible && c.State.ConsecutiveOff == 1 {
					continue
				}
				candidates = append(candidates, c)
			}
			if len(candidates) == 0 {
				break
			}

			ranked := selection.ByUrgency(candidates, remainingDays, b.rng)
			top := ranked[0]
			if !top.State.NeedsMoreWork(remainingDays) {
				break
			}
			st := top.State
			canMorning := eligibility.CanWorkMorning(top.Employee, st, date, isHoliday) && !eligibility.RestingAfterEveningForMorning(st)
			canEvening := eligibility.CanWorkEvening(top.Employee, st, date, isHoliday)
			if !canMorning && !canEvening {
				break
			}

			nextDay := date.AddDate(0, 0, 1)
			if b.holidays[truncate(nextDay)] {
				if !sufficientMoscowCoverageTomorrow(moscowAvailable, top) || !sufficientKhabCoverageTomorrow(b, khabDuty) {
					break
				}
			}

			day.Assign(top.Employee.Name, model.Workday)
			assigned[top.Employee.Name] = true
		}
	}

	// 剩余 MOSCOW 值班员工：未被分配者休息
	for _, c := range moscowAvailable {
		if !assigned[c.Employee.Name] {
			day.Assign(c.Employee.Name, model.DayOff)
			assigned[c.Employee.Name] = true
		}
	}

	// 7. KHABAROVSK 值班员工的 workday/休息收尾
	for _, e := range khabDuty {
		if assigned[e.Name] {
			continue
		}
		st := b.states[e.Name]
		switch {
		case e.IsOnVacation(date):
			day.Assign(e.Name, model.Vacation)
		case eligibility.RestingAfterNight(st):
			day.Assign(e.Name, model.DayOff)
		case e.ScheduleType == model.FiveTwo && isWeekendOrHolidayDate(date, isHoliday):
			day.Assign(e.Name, model.DayOff)
		case st.NeedsMoreWork(remainingDays) && st.ConsecutiveWorking < e.MaxConsecutiveWorkingGreedy():
			day.Assign(e.Name, model.Workday)
		default:
			day.Assign(e.Name, model.DayOff)
		}
		assigned[e.Name] = true
	}

	// 8. 非值班员工分配：按个人需求与资格决定 workday 或 day_off
	for _, e := range nonDuty {
		if assigned[e.Name] {
			continue
		}
		st := b.states[e.Name]
		switch {
		case e.IsBlocked(date):
			if e.IsOnVacation(date) {
				day.Assign(e.Name, model.Vacation)
			} else {
				day.Assign(e.Name, model.DayOff)
			}
		case e.WeekdayOff(date.Weekday()):
			day.Assign(e.Name, model.DayOff)
		case e.ScheduleType == model.FiveTwo && isWeekendOrHolidayDate(date, isHoliday):
			day.Assign(e.Name, model.DayOff)
		case st.NeedsMoreWork(remainingDays) && st.ConsecutiveWorking < e.MaxConsecutiveWorkingGreedy():
			day.Assign(e.Name, model.Workday)
		default:
			day.Assign(e.Name, model.DayOff)
		}
		assigned[e.Name] = true
	}

	// 9. 反孤立休息日覆盖：若某员工在此必然产生"工作-休息-工作"的单日孤岛，且其连续休息尚未达标，改判为工作
	applyAntiIsolatedOff(b, day, date, isHoliday)

	// 10. 反过短工作块覆盖：若强制休息会打断一个尚未满足最小工作长度的工作块，顺延一天再休息
	applyAntiShortWork(b, day, date)

	// 11. 提交：记录全体员工本日状态
	if !day.IsCovered() {
		return nil, errors.InsufficientCoverage("night/morning/evening", "当日三个强制班次未能各恰好覆盖一人")
	}
	for _, e := range b.cfg.Employees {
		shift, ok := day.ShiftOf(e.Name)
		if !ok {
			shift = model.DayOff
			day.Assign(e.Name, shift)
		}
		b.states[e.Name].Record(shift)
	}

	return day, nil
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func isWeekendOrHolidayDate(day time.Time, isHoliday bool) bool {
	if isHoliday {
		return true
	}
	w := day.Weekday()
	return w == time.Saturday || w == time.Sunday
}

func excludeByName(candidates []selection.Candidate, name string) []selection.Candidate {
	out := make([]selection.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Employee.Name != name {
			out = append(out, c)
		}
	}
	return out
}

func excludeGroupUsed(candidates []selection.Candidate, usedGroups map[string]bool) []selection.Candidate {
	out := make([]selection.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Employee.Group == "" || !usedGroups[c.Employee.Group] {
			out = append(out, c)
		}
	}
	return out
}

// firstReserved 在候选池中查找第一个被标记为"预定"的候选人（用于纯 always_on_duty
// 员工优先占据其强制班次，贯彻"除休假/不可用外从不休息"）
func firstReserved(pool []selection.Candidate, reserved map[string]bool) (*model.Employee, bool) {
	for _, c := range pool {
		if reserved[c.Employee.Name] {
			return c.Employee, true
		}
	}
	return nil, false
}

// sufficientMoscowCoverageTomorrow 估算：若 candidate 今天被安排加班，次日（已知为节假日）
// MOSCOW 值班候选池中是否仍有人能值早班、有人能值晚班（按连续工作计数 +1 推算资格是否仍然成立）
func sufficientMoscowCoverageTomorrow(moscowAvailable []selection.Candidate, candidate selection.Candidate) bool {
	morningOK, eveningOK := false, false
	for _, c := range moscowAvailable {
		cw := c.State.ConsecutiveWorking
		if c.Employee.Name == candidate.Employee.Name {
			cw++
		}
		if cw >= c.Employee.MaxConsecutiveWorkingGreedy() {
			continue
		}
		if c.Employee.ScheduleType == model.FiveTwo {
			// 次日已确认为节假日，FIVE_TWO 员工此日必歇
			continue
		}
		if c.Employee.CanWorkMorning() {
			morningOK = true
		}
		if c.Employee.CanWorkEvening() {
			eveningOK = true
		}
	}
	return morningOK && eveningOK
}

// sufficientKhabCoverageTomorrow 估算：次日是否仍有 KHABAROVSK 值班员工未达连续工作上限
func sufficientKhabCoverageTomorrow(b *Builder, khabDuty []*model.Employee) bool {
	for _, e := range khabDuty {
		st := b.states[e.Name]
		if st.ConsecutiveWorking < e.MaxConsecutiveWorkingGreedy() {
			return true
		}
	}
	return false
}

// applyAntiIsolatedOff 实现第 9 步：若某员工昨天工作、今天被排为休息（连续休息计数为 0，
// 今天会开启一个新的休息块），且仍有未满足的工作需求、当天资格允许工作，则把今天改判为
// workday，不主动制造可避免的孤岛。duty_only 员工与夜班后次日的员工不改判；
// 孤立休息日的进一步消解发生在后处理阶段的 minimize_isolated_off。
func applyAntiIsolatedOff(b *Builder, day *model.DaySchedule, date time.Time, isHoliday bool) {
	for _, e := range b.cfg.Employees {
		shift, ok := day.ShiftOf(e.Name)
		if !ok || shift != model.DayOff {
			continue
		}
		st := b.states[e.Name]
		if st.LastShift.IsWorking() && st.ConsecutiveOff == 0 && st.NeedsMoreWork(1) {
			if e.DutyOnly() || eligibility.RestingAfterNight(st) {
				continue
			}
			if eligibility.CanWork(e, st, date, isHoliday) {
				day.Reassign(e.Name, model.Workday)
			}
		}
	}
}

// applyAntiShortWork 实现第 10 步：若某员工的连续工作块尚未达到 MIN_WORK_BETWEEN_OFFS 天
// 就被安排休息，且其资格仍然允许工作，则顺延工作一天。
func applyAntiShortWork(b *Builder, day *model.DaySchedule, date time.Time) {
	for _, e := range b.cfg.Employees {
		shift, ok := day.ShiftOf(e.Name)
		if !ok || shift != model.DayOff {
			continue
		}
		st := b.states[e.Name]
		if st.LastShift.IsWorking() && st.ConsecutiveWorking > 0 && st.ConsecutiveWorking < model.MinWorkBetweenOffs {
			if e.DutyOnly() || eligibility.RestingAfterNight(st) {
				continue
			}
			if eligibility.CanWork(e, st, date, day.IsHoliday) {
				day.Reassign(e.Name, model.Workday)
			}
		}
	}
}
