// Package export 将生成的排班结果导出为可分发的文件格式：
// 每个强制/workday 班次各一份 iCalendar（.ics），以及一套三表 CSV 导出包
// （班次表格/统计/图例，作为没有电子表格库可用时 .xlsx 三工作表导出的等价替代）。
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dutyroster/scheduler/pkg/model"
)

var icsShifts = []model.ShiftType{model.Morning, model.Evening, model.Night, model.Workday}

var shiftNamesRU = map[model.ShiftType]string{
	model.Morning:  "Утро",
	model.Evening:  "Вечер",
	model.Night:    "Ночь",
	model.Workday:  "День",
	model.DayOff:   "Выходной",
	model.Vacation: "Отпуск",
}

var icsFilenames = map[model.ShiftType]string{
	model.Morning: "morning.ics",
	model.Evening: "evening.ics",
	model.Night:   "night.ics",
	model.Workday: "workday.ics",
}

// khabarovskWorkdayOffsetHours 哈巴罗夫斯克相对莫斯科的时差（供 workday 本地时刻换算使用）
const khabarovskWorkdayOffsetHours = 7

// ExportICS 为每种强制班次与 workday 各生成一份 .ics 文件，返回生成的文件路径列表
func ExportICS(schedule *model.Schedule, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建导出目录失败: %w", err)
	}

	cityByName := make(map[string]model.City, len(schedule.Config.Employees))
	for _, e := range schedule.Config.Employees {
		cityByName[e.Name] = e.City
	}

	events := map[model.ShiftType]*strings.Builder{}
	for _, s := range icsShifts {
		events[s] = &strings.Builder{}
	}

	for _, day := range schedule.Days {
		for _, shift := range icsShifts {
			names := namesFor(&day, shift)
			for _, name := range names {
				start, end, ok := eventTimes(shift, day.Date, cityByName[name])
				if !ok {
					continue
				}
				writeEvent(events[shift], schedule.Config.Year, int(schedule.Config.Month), day.Date.Day(), shift, name, start, end, names)
			}
		}
	}

	var paths []string
	for _, shift := range icsShifts {
		path := filepath.Join(outputDir, icsFilenames[shift])
		content := wrapCalendar(shiftNamesRU[shift], events[shift].String())
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("写入 %s 失败: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func namesFor(day *model.DaySchedule, shift model.ShiftType) []string {
	switch shift {
	case model.Morning:
		return day.Morning
	case model.Evening:
		return day.Evening
	case model.Night:
		return day.Night
	case model.Workday:
		return day.Workday
	default:
		return nil
	}
}

// eventTimes 计算某班次在某天对某员工的起止本地时刻；哈巴罗夫斯克员工的 workday 使用
// 当地 09:00-18:00（比莫斯科早 khabarovskWorkdayOffsetHours 小时），其余沿用 ShiftTimeRange
func eventTimes(shift model.ShiftType, day time.Time, city model.City) (time.Time, time.Time, bool) {
	start, end, ok := model.ShiftTimeRange(shift, day)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if shift == model.Workday && city == model.Khabarovsk {
		offset := -time.Duration(khabarovskWorkdayOffsetHours) * time.Hour
		return start.Add(offset), end.Add(offset), true
	}
	return start, end, true
}

func writeEvent(b *strings.Builder, year, month, day int, shift model.ShiftType, name string, start, end time.Time, allNames []string) {
	uid := fmt.Sprintf("%04d%02d%02d-%s-%s@dutyroster", year, month, day, shift, name)
	b.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(b, "UID:%s\r\n", uid)
	fmt.Fprintf(b, "SUMMARY:Дежурство: %s — %s\r\n", shiftNamesRU[shift], name)
	fmt.Fprintf(b, "DTSTART:%s\r\n", start.UTC().Format("20060102T150405Z"))
	fmt.Fprintf(b, "DTEND:%s\r\n", end.UTC().Format("20060102T150405Z"))
	fmt.Fprintf(b, "DESCRIPTION:Смена: %s\\nВсе на смене: %s\r\n", shiftNamesRU[shift], strings.Join(allNames, ", "))
	b.WriteString("END:VEVENT\r\n")
}

func wrapCalendar(shiftLabel, body string) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("PRODID:-//Duty Schedule Generator//RU\r\n")
	b.WriteString("VERSION:2.0\r\n")
	fmt.Fprintf(&b, "X-WR-CALNAME:Дежурства: %s\r\n", shiftLabel)
	b.WriteString("CALSCALE:GREGORIAN\r\n")
	b.WriteString("METHOD:PUBLISH\r\n")
	b.WriteString(body)
	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}
