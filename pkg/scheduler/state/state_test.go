package state

import (
	"testing"
	"time"

	"github.com/dutyroster/scheduler/pkg/model"
)

func TestEmployeeState_Record(t *testing.T) {
	tests := []struct {
		name               string
		shift              model.ShiftType
		wantConsecWorking  int
		wantConsecOff      int
		wantTotalWorking   int
	}{
		{"早班计入连续工作", model.Morning, 1, 0, 1},
		{"白班计入连续工作", model.Workday, 1, 0, 1},
		{"休息日计入连续休息", model.DayOff, 0, 1, 0},
		{"休假也计入连续休息", model.Vacation, 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(10, 0)
			s.Record(tt.shift)
			if s.ConsecutiveWorking != tt.wantConsecWorking {
				t.Errorf("ConsecutiveWorking = %d, want %d", s.ConsecutiveWorking, tt.wantConsecWorking)
			}
			if s.ConsecutiveOff != tt.wantConsecOff {
				t.Errorf("ConsecutiveOff = %d, want %d", s.ConsecutiveOff, tt.wantConsecOff)
			}
			if s.TotalWorking != tt.wantTotalWorking {
				t.Errorf("TotalWorking = %d, want %d", s.TotalWorking, tt.wantTotalWorking)
			}
			if s.LastShift != tt.shift {
				t.Errorf("LastShift = %v, want %v", s.LastShift, tt.shift)
			}
		})
	}
}

func TestEmployeeState_Record_ResetsOppositeCounter(t *testing.T) {
	s := New(10, 0)
	s.Record(model.Workday)
	s.Record(model.Workday)
	if s.ConsecutiveWorking != 2 {
		t.Fatalf("ConsecutiveWorking = %d, want 2", s.ConsecutiveWorking)
	}
	s.Record(model.DayOff)
	if s.ConsecutiveWorking != 0 {
		t.Errorf("DayOff 后 ConsecutiveWorking 应清零, got %d", s.ConsecutiveWorking)
	}
	if s.ConsecutiveOff != 1 {
		t.Errorf("ConsecutiveOff = %d, want 1", s.ConsecutiveOff)
	}
	s.Record(model.Morning)
	if s.ConsecutiveOff != 0 {
		t.Errorf("Morning 后 ConsecutiveOff 应清零, got %d", s.ConsecutiveOff)
	}
}

func TestEmployeeState_ShiftCount(t *testing.T) {
	s := New(10, 0)
	s.Record(model.Morning)
	s.Record(model.Morning)
	s.Record(model.Evening)
	if got := s.ShiftCount(model.Morning); got != 2 {
		t.Errorf("ShiftCount(Morning) = %d, want 2", got)
	}
	if got := s.ShiftCount(model.Evening); got != 1 {
		t.Errorf("ShiftCount(Evening) = %d, want 1", got)
	}
	if got := s.ShiftCount(model.DayOff); got != 0 {
		t.Errorf("ShiftCount(DayOff) = %d, want 0", got)
	}
}

func TestEmployeeState_EffectiveTarget(t *testing.T) {
	tests := []struct {
		name         string
		target, vac  int
		wantEffective int
	}{
		{"休假少于目标", 20, 5, 15},
		{"休假超过目标不为负", 10, 15, 0},
		{"无休假", 20, 0, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.target, tt.vac)
			if got := s.EffectiveTarget(); got != tt.wantEffective {
				t.Errorf("EffectiveTarget() = %d, want %d", got, tt.wantEffective)
			}
		})
	}
}

func TestEmployeeState_NeedsMoreWork(t *testing.T) {
	s := New(10, 0)
	for i := 0; i < 5; i++ {
		s.Record(model.Workday)
	}
	if !s.NeedsMoreWork(10) {
		t.Error("TotalWorking=5 target=10 还有10天剩余，应仍需工作")
	}
	if s.NeedsMoreWork(0) {
		t.Error("remainingDays<=0 时不应再需要工作")
	}
	for i := 0; i < 5; i++ {
		s.Record(model.Workday)
	}
	if s.NeedsMoreWork(5) {
		t.Error("已达到目标工作量，不应再需要工作")
	}
}

func TestFromCarryOver(t *testing.T) {
	c := model.CarryOverEntry{
		Employee:           "Ivanov",
		ConsecutiveWorking: 3,
		ConsecutiveOff:     0,
		LastShift:          model.Night,
	}
	s := FromCarryOver(20, 2, c)
	if s.ConsecutiveWorking != 3 || s.LastShift != model.Night {
		t.Errorf("延续状态未正确应用: %+v", s)
	}
	if s.TargetWorkingDays != 20 || s.VacationDays != 2 {
		t.Errorf("目标/休假天数未正确设置: %+v", s)
	}
}

func TestSnapAndRestore(t *testing.T) {
	states := map[string]*EmployeeState{
		"Ivanov": New(20, 0),
	}
	states["Ivanov"].Record(model.Morning)

	snap := Snap(states)
	states["Ivanov"].Record(model.Morning)
	if states["Ivanov"].MorningCount != 2 {
		t.Fatalf("预期修改后 MorningCount=2, got %d", states["Ivanov"].MorningCount)
	}

	Restore(states, snap)
	if states["Ivanov"].MorningCount != 1 {
		t.Errorf("Restore 后 MorningCount 应恢复为 1, got %d", states["Ivanov"].MorningCount)
	}
}

func TestBuildInitial(t *testing.T) {
	cfg := model.Config{
		Year:  2026,
		Month: time.March,
		Employees: []*model.Employee{
			{Name: "Ivanov", City: model.Moscow, OnDuty: true, WorkloadPct: 100},
		},
	}
	states := BuildInitial(cfg, nil)
	s, ok := states["Ivanov"]
	if !ok {
		t.Fatal("BuildInitial 未创建 Ivanov 的状态")
	}
	if s.TargetWorkingDays <= 0 {
		t.Errorf("2026年3月应有工作日，TargetWorkingDays = %d", s.TargetWorkingDays)
	}
}

func TestBuildInitial_VacationReducesTarget(t *testing.T) {
	cfg := model.Config{
		Year:  2026,
		Month: time.March,
		Employees: []*model.Employee{
			{
				Name: "Petrov", City: model.Moscow, OnDuty: true, WorkloadPct: 100,
				Vacations: []model.DateRange{
					{Start: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), End: time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)},
				},
			},
		},
	}
	states := BuildInitial(cfg, nil)
	s := states["Petrov"]
	if s.VacationDays == 0 {
		t.Error("休假周内工作日应计入 VacationDays")
	}
}

func TestReplayDay(t *testing.T) {
	states := map[string]*EmployeeState{
		"Ivanov": New(20, 0),
		"Petrov": New(20, 0),
	}
	day := model.DaySchedule{
		Morning: []string{"Ivanov"},
		DayOff:  []string{"Petrov"},
	}
	ReplayDay(states, day)
	if states["Ivanov"].MorningCount != 1 {
		t.Errorf("Ivanov MorningCount = %d, want 1", states["Ivanov"].MorningCount)
	}
	if states["Petrov"].ConsecutiveOff != 1 {
		t.Errorf("Petrov ConsecutiveOff = %d, want 1", states["Petrov"].ConsecutiveOff)
	}
}
