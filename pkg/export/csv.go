package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dutyroster/scheduler/pkg/model"
)

var weekdayNamesRU = [...]string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

// ExportCSVBundle 生成三张 CSV 表：schedule_grid.csv（逐人逐日班次）、
// schedule_stats.csv（每人 17 项统计指标）、schedule_legend.csv（班次图例），
// 作为没有电子表格库可用时 .xlsx 三工作表导出的等价替代
func ExportCSVBundle(schedule *model.Schedule, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建导出目录失败: %w", err)
	}

	gridPath := filepath.Join(outputDir, "schedule_grid.csv")
	if err := writeGrid(schedule, gridPath); err != nil {
		return nil, err
	}

	statsPath := filepath.Join(outputDir, "schedule_stats.csv")
	if err := writeStats(schedule, statsPath); err != nil {
		return nil, err
	}

	legendPath := filepath.Join(outputDir, "schedule_legend.csv")
	if err := writeLegend(legendPath); err != nil {
		return nil, err
	}

	return []string{gridPath, statsPath, legendPath}, nil
}

func writeGrid(schedule *model.Schedule, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建 %s 失败: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	employees := sortedEmployees(schedule.Config.Employees)

	header := []string{"员工", "城市"}
	for _, day := range schedule.Days {
		header = append(header, fmt.Sprintf("%d %s", day.Date.Day(), weekdayNamesRU[int(day.Date.Weekday()+6)%7]))
	}
	header = append(header, "本月工作天数")
	if err := w.Write(header); err != nil {
		return err
	}

	for _, e := range employees {
		row := []string{e.Name, cityLabel(e.City)}
		working := 0
		for _, day := range schedule.Days {
			shift, ok := day.ShiftOf(e.Name)
			if !ok {
				shift = model.DayOff
			}
			if shift.IsWorking() {
				working++
			}
			row = append(row, shiftNamesRU[shift])
		}
		row = append(row, fmt.Sprintf("%d", working))
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// employeeStats 对应原始导出中的 17 项月度统计指标
type employeeStats struct {
	name                                               string
	city                                               string
	totalWorking, target, delta                        int
	morning, evening, night, workday                   int
	dayOff, vacation                                   int
	weekendWork, holidayWork                           int
	maxStreakWork, maxStreakRest                        int
	isolatedOff, pairedOff                             int
}

func writeStats(schedule *model.Schedule, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建 %s 失败: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"员工", "城市", "工作天数", "目标天数", "±目标",
		"早班次数", "晚班次数", "夜班次数", "白班次数",
		"休息天数", "休假天数",
		"周末工作次数", "假日工作次数",
		"最长连续工作", "最长连续休息",
		"孤立休息日次数", "连续休息块次数",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, st := range computeStats(schedule) {
		row := []string{
			st.name, st.city,
			itoa(st.totalWorking), itoa(st.target), signed(st.delta),
			itoa(st.morning), itoa(st.evening), itoa(st.night), itoa(st.workday),
			itoa(st.dayOff), itoa(st.vacation),
			itoa(st.weekendWork), itoa(st.holidayWork),
			itoa(st.maxStreakWork), itoa(st.maxStreakRest),
			itoa(st.isolatedOff), itoa(st.pairedOff),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func computeStats(schedule *model.Schedule) []employeeStats {
	employees := sortedEmployees(schedule.Config.Employees)
	productionDays := countProductionDays(schedule)

	result := make([]employeeStats, 0, len(employees))
	for _, e := range employees {
		st := employeeStats{
			name:   e.Name,
			city:   cityLabel(e.City),
			target: int(float64(productionDays)*float64(e.WorkloadPct)/100.0 + 0.5),
		}
		for _, day := range schedule.Days {
			shift, ok := day.ShiftOf(e.Name)
			if !ok {
				shift = model.DayOff
			}
			switch shift {
			case model.Morning:
				st.morning++
			case model.Evening:
				st.evening++
			case model.Night:
				st.night++
			case model.Workday:
				st.workday++
			case model.DayOff:
				st.dayOff++
			case model.Vacation:
				st.vacation++
			}
			if shift.IsWorking() {
				st.totalWorking++
				if isWeekend(day.Date) {
					st.weekendWork++
				}
				if day.IsHoliday && !isWeekend(day.Date) {
					st.holidayWork++
				}
			}
		}
		st.delta = st.totalWorking - st.target
		st.maxStreakWork = maxStreak(schedule, e.Name, true)
		st.maxStreakRest = maxStreak(schedule, e.Name, false)
		st.isolatedOff = countIsolated(schedule, e.Name)
		st.pairedOff = countPairedBlocks(schedule, e.Name)
		result = append(result, st)
	}
	return result
}

func maxStreak(schedule *model.Schedule, name string, working bool) int {
	max, cur := 0, 0
	for _, day := range schedule.Days {
		shift, ok := day.ShiftOf(name)
		if !ok {
			shift = model.DayOff
		}
		if shift.IsWorking() == working {
			cur++
			if cur > max {
				max = cur
			}
		} else {
			cur = 0
		}
	}
	return max
}

func countIsolated(schedule *model.Schedule, name string) int {
	days := schedule.Days
	count := 0
	for i := range days {
		shift, ok := days[i].ShiftOf(name)
		if !ok || shift != model.DayOff {
			continue
		}
		leftOK := i == 0 || isRestShift(&days[i-1], name)
		rightOK := i == len(days)-1 || isRestShift(&days[i+1], name)
		if !leftOK && !rightOK {
			count++
		}
	}
	return count
}

func isRestShift(day *model.DaySchedule, name string) bool {
	shift, ok := day.ShiftOf(name)
	return ok && (shift == model.DayOff || shift == model.Vacation)
}

func countPairedBlocks(schedule *model.Schedule, name string) int {
	days := schedule.Days
	count := 0
	i := 0
	for i < len(days) {
		if !isRestShift(&days[i], name) {
			i++
			continue
		}
		j := i
		for j < len(days) && isRestShift(&days[j], name) {
			j++
		}
		if j-i >= 2 {
			count++
		}
		i = j
	}
	return count
}

func countProductionDays(schedule *model.Schedule) int {
	count := 0
	for _, day := range schedule.Days {
		if isWeekend(day.Date) {
			continue
		}
		if day.IsHoliday {
			continue
		}
		count++
	}
	return count
}

func writeLegend(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建 %s 失败: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"标记", "班次", "说明"}); err != nil {
		return err
	}
	rows := [][3]string{
		{"Утро", "morning", "08:00-17:00 莫斯科时间"},
		{"Вечер", "evening", "15:00-次日00:00 莫斯科时间"},
		{"Ночь", "night", "00:00-08:00 莫斯科时间"},
		{"День", "workday", "09:00-18:00（哈巴罗夫斯克员工为当地时间）"},
		{"Отпуск", "vacation", "休假"},
		{"Выходной", "day_off", "休息"},
	}
	for _, r := range rows {
		if err := w.Write(r[:]); err != nil {
			return err
		}
	}
	return nil
}

func sortedEmployees(employees []*model.Employee) []*model.Employee {
	out := append([]*model.Employee(nil), employees...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.City == model.Moscow) != (b.City == model.Moscow) {
			return a.City == model.Moscow
		}
		if a.OnDuty != b.OnDuty {
			return !a.OnDuty
		}
		return a.Name < b.Name
	})
	return out
}

func cityLabel(c model.City) string {
	if c == model.Moscow {
		return "Москва"
	}
	return "Хабаровск"
}

func isWeekend(d time.Time) bool {
	w := d.Weekday()
	return w == time.Saturday || w == time.Sunday
}

func itoa(n int) string {
	return fmt.Sprintf("%d", n)
}

func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}
