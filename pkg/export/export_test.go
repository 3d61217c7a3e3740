package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dutyroster/scheduler/pkg/model"
)

func sampleSchedule(t *testing.T) *model.Schedule {
	t.Helper()
	employees := []*model.Employee{
		{Name: "Ivanov", City: model.Moscow, OnDuty: true, WorkloadPct: 100},
		{Name: "Petrov", City: model.Khabarovsk, OnDuty: true, WorkloadPct: 100},
	}
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	days := make([]model.DaySchedule, 3)
	for i := range days {
		days[i] = model.DaySchedule{Date: start.AddDate(0, 0, i)}
	}
	days[0].Assign("Ivanov", model.Morning)
	days[0].Assign("Petrov", model.Night)
	days[1].Assign("Ivanov", model.DayOff)
	days[1].Assign("Petrov", model.Workday)
	days[2].Assign("Ivanov", model.Evening)
	days[2].Assign("Petrov", model.DayOff)

	return &model.Schedule{
		Config: model.Config{Year: 2026, Month: time.March, Employees: employees},
		Days:   days,
	}
}

func TestExportICS_WritesOneFilePerShift(t *testing.T) {
	schedule := sampleSchedule(t)
	dir := t.TempDir()

	paths, err := ExportICS(schedule, dir)
	if err != nil {
		t.Fatalf("ExportICS 失败: %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("应生成4份 .ics 文件（morning/evening/night/workday）, got %d", len(paths))
	}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("读取 %s 失败: %v", p, err)
		}
		content := string(data)
		if !strings.Contains(content, "BEGIN:VCALENDAR") || !strings.Contains(content, "END:VCALENDAR") {
			t.Errorf("%s 缺少 VCALENDAR 包裹", p)
		}
	}
}

func TestExportICS_MorningEventContainsAssignedEmployee(t *testing.T) {
	schedule := sampleSchedule(t)
	dir := t.TempDir()

	ExportICS(schedule, dir)
	data, err := os.ReadFile(filepath.Join(dir, "morning.ics"))
	if err != nil {
		t.Fatalf("读取 morning.ics 失败: %v", err)
	}
	if !strings.Contains(string(data), "Ivanov") {
		t.Error("morning.ics 应包含早班分配人 Ivanov")
	}
}

func TestExportCSVBundle_WritesThreeFiles(t *testing.T) {
	schedule := sampleSchedule(t)
	dir := t.TempDir()

	paths, err := ExportCSVBundle(schedule, dir)
	if err != nil {
		t.Fatalf("ExportCSVBundle 失败: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("应生成3份 CSV 文件, got %d", len(paths))
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s 未被创建: %v", p, err)
		}
	}
}

func TestComputeStats_CountsShiftsCorrectly(t *testing.T) {
	schedule := sampleSchedule(t)
	stats := computeStats(schedule)

	var ivanov *employeeStats
	for i := range stats {
		if stats[i].name == "Ivanov" {
			ivanov = &stats[i]
		}
	}
	if ivanov == nil {
		t.Fatal("统计结果中应包含 Ivanov")
	}
	if ivanov.morning != 1 || ivanov.evening != 1 || ivanov.dayOff != 1 {
		t.Errorf("Ivanov 统计不正确: morning=%d evening=%d dayOff=%d", ivanov.morning, ivanov.evening, ivanov.dayOff)
	}
	if ivanov.totalWorking != 2 {
		t.Errorf("totalWorking = %d, want 2", ivanov.totalWorking)
	}
}

func TestCountIsolated(t *testing.T) {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	days := []model.DaySchedule{
		{Date: start}, {Date: start.AddDate(0, 0, 1)}, {Date: start.AddDate(0, 0, 2)},
	}
	days[0].Assign("Ivanov", model.Workday)
	days[1].Assign("Ivanov", model.DayOff)
	days[2].Assign("Ivanov", model.Workday)
	schedule := &model.Schedule{Days: days}

	if got := countIsolated(schedule, "Ivanov"); got != 1 {
		t.Errorf("countIsolated() = %d, want 1", got)
	}
}
