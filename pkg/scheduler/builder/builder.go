// Package builder 实现贪心逐日构建与失败回溯：逐日求解，失败时整体撤销最近若干天
// 并以不同随机种子重试，候选人挑选按公平计数/紧迫度排序而非按距离打分。
package builder

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/dutyroster/scheduler/pkg/errors"
	"github.com/dutyroster/scheduler/pkg/logger"
	"github.com/dutyroster/scheduler/pkg/model"
	"github.com/dutyroster/scheduler/pkg/scheduler/postprocess"
	"github.com/dutyroster/scheduler/pkg/scheduler/state"
)

// Builder 持有一次生成过程的全部运行时状态
type Builder struct {
	cfg      model.Config
	holidays map[time.Time]bool
	states   map[string]*state.EmployeeState
	rng      *rand.Rand
	log      *logger.RosterLogger
}

// GenerateSchedule 是排班引擎的唯一入口：给定配置与节假日表，返回可行的月度排班或错误
// 相同 (cfg, holidays) 在相同 seed 下必须产生逐位相同的结果
func GenerateSchedule(cfg model.Config, holidays map[time.Time]bool) (*model.Schedule, error) {
	runLog := logger.NewRosterLogger()
	start := time.Now()
	runID := fmt.Sprintf("%04d-%02d-seed%d", cfg.Year, cfg.Month, cfg.Seed)
	runLog.StartGeneration(runID, cfg.Year, int(cfg.Month), len(cfg.Employees))

	if err := validateRoster(cfg); err != nil {
		runLog.GenerationComplete(runID, time.Since(start), false)
		return nil, err
	}
	if err := validatePins(cfg, holidays); err != nil {
		runLog.GenerationComplete(runID, time.Since(start), false)
		return nil, err
	}

	b := newBuilder(cfg, holidays)

	days := cfg.DaysInMonth()
	built := make([]model.DaySchedule, 0, days)
	snapshots := make([]state.Snapshot, 0, days)

	attempts := 0
	dayIdx := 0
	for dayIdx < days {
		date := cfg.FirstDay().AddDate(0, 0, dayIdx)
		isHoliday := holidays[truncate(date)]
		remaining := days - dayIdx

		snapshots = append(snapshots, state.Snap(b.states))

		day, err := b.buildDay(dayIdx, date, isHoliday, remaining)
		if err == nil {
			built = append(built, *day)
			dayIdx++
			continue
		}

		if !errors.Is(err, errors.CodeInsufficientCoverage) {
			runLog.GenerationComplete(runID, time.Since(start), false)
			return nil, err
		}

		attempts++
		if attempts > model.MaxBacktrackAttempts {
			runLog.GenerationComplete(runID, time.Since(start), false)
			failedShift := ""
			if appErr, ok := err.(*errors.AppError); ok {
				failedShift, _ = appErr.Fields["shift"].(string)
			}
			return nil, errors.ScheduleInfeasible(date.Format("2006-01-02"), failedShift, "回溯预算耗尽").WithCause(err)
		}

		unwind := model.MaxBacktrackDays
		if unwind > len(built) {
			unwind = len(built)
		}
		runLog.Backtrack(attempts, unwind, date.Format("2006-01-02"), err.Error())

		dayIdx -= unwind
		built = built[:len(built)-unwind]
		snapshots = snapshots[:len(snapshots)-unwind]
		if len(snapshots) > 0 {
			state.Restore(b.states, snapshots[len(snapshots)-1])
		} else {
			b.states = state.BuildInitial(cfg, holidays)
		}
		b.rng = rand.New(rand.NewSource(cfg.Seed + int64(attempts)*1000 + int64(dayIdx)))
	}

	schedule := &model.Schedule{Config: cfg, Holidays: holidays, Days: built}

	if err := postprocess.Run(schedule, b.states, b.rng); err != nil {
		runLog.GenerationComplete(runID, time.Since(start), false)
		return nil, err
	}

	runLog.GenerationComplete(runID, time.Since(start), true)
	return schedule, nil
}

func newBuilder(cfg model.Config, holidays map[time.Time]bool) *Builder {
	return &Builder{
		cfg:      cfg,
		holidays: holidays,
		states:   state.BuildInitial(cfg, holidays),
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		log:      logger.NewRosterLogger(),
	}
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// validateRoster 校验人员配置是否满足最低覆盖要求
func validateRoster(cfg model.Config) error {
	var moscowDuty, khabDuty, morningCapable, eveningCapable int
	for _, e := range cfg.Employees {
		if !e.OnDuty {
			continue
		}
		switch e.City {
		case model.Moscow:
			moscowDuty++
			if e.CanWorkMorning() {
				morningCapable++
			}
			if e.CanWorkEvening() {
				eveningCapable++
			}
		case model.Khabarovsk:
			khabDuty++
		}
	}
	if moscowDuty < 4 {
		return errors.InvalidRoster(fmt.Sprintf("MOSCOW 值班人数不足: 需要至少 4 人, 实际 %d 人", moscowDuty))
	}
	if morningCapable < 1 {
		return errors.InvalidRoster("MOSCOW 值班人员中至少需要 1 人可值早班")
	}
	if eveningCapable < 1 {
		return errors.InvalidRoster("MOSCOW 值班人员中至少需要 1 人可值晚班")
	}
	if khabDuty < 2 {
		return errors.InvalidRoster(fmt.Sprintf("KHABAROVSK 值班人数不足: 需要至少 2 人, 实际 %d 人", khabDuty))
	}
	return nil
}

// validatePins 校验 pin 集合内部无矛盾：同员工同日不能被 pin 为两个不同班次（完全相同的重复 pin
// 被接受），员工必须存在于花名册中，休假日内只能 pin 为休假，且班次须与驻地城市兼容
func validatePins(cfg model.Config, holidays map[time.Time]bool) error {
	employees := make(map[string]*model.Employee, len(cfg.Employees))
	for _, e := range cfg.Employees {
		employees[e.Name] = e
	}

	seen := make(map[string]model.ShiftType)
	for _, p := range cfg.Pins {
		key := fmt.Sprintf("%s|%s", p.Employee, p.Date.Format("2006-01-02"))
		if prior, ok := seen[key]; ok && prior != p.Shift {
			return errors.InvalidPin(p.Date.Format("2006-01-02"), p.Employee, "同一员工同一天存在多个互斥 pin")
		}
		seen[key] = p.Shift

		e, ok := employees[p.Employee]
		if !ok {
			return errors.InvalidPin(p.Date.Format("2006-01-02"), p.Employee, "员工不存在于花名册中")
		}
		if e.IsOnVacation(p.Date) && p.Shift != model.Vacation {
			return errors.InvalidPin(p.Date.Format("2006-01-02"), p.Employee, "该员工此日处于休假期间，无法 pin 为工作班次")
		}
		if !cityAllowsShift(e.City, p.Shift) {
			return errors.InvalidPin(p.Date.Format("2006-01-02"), p.Employee, fmt.Sprintf("%s 驻地不兼容 %s 班次", e.City, p.Shift))
		}
	}
	return nil
}

// cityAllowsShift 校验班次与驻地城市是否兼容：MORNING/EVENING 仅 MOSCOW，NIGHT 仅
// KHABAROVSK；WORKDAY/DAY_OFF/VACATION 不限驻地
func cityAllowsShift(city model.City, shift model.ShiftType) bool {
	switch shift {
	case model.Morning, model.Evening:
		return city == model.Moscow
	case model.Night:
		return city == model.Khabarovsk
	default:
		return true
	}
}

// partition 按 on_duty + city 划分花名册
func partition(cfg model.Config) (moscowDuty, khabDuty, nonDuty []*model.Employee) {
	for _, e := range cfg.Employees {
		switch {
		case e.OnDuty && e.City == model.Moscow:
			moscowDuty = append(moscowDuty, e)
		case e.OnDuty && e.City == model.Khabarovsk:
			khabDuty = append(khabDuty, e)
		default:
			nonDuty = append(nonDuty, e)
		}
	}
	return
}
