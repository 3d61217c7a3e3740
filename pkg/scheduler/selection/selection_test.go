package selection

import (
	"math/rand"
	"testing"

	"github.com/dutyroster/scheduler/pkg/model"
	"github.com/dutyroster/scheduler/pkg/scheduler/state"
)

func candidate(name string, shiftCount int, shift model.ShiftType) Candidate {
	s := state.New(20, 0)
	for i := 0; i < shiftCount; i++ {
		s.Record(shift)
	}
	return Candidate{Employee: &model.Employee{Name: name}, State: s}
}

func TestFair_OrdersByShiftCountAscending(t *testing.T) {
	candidates := []Candidate{
		candidate("Ivanov", 3, model.Morning),
		candidate("Petrov", 0, model.Morning),
		candidate("Sidorov", 1, model.Morning),
	}
	rng := rand.New(rand.NewSource(1))
	out := Fair(candidates, model.Morning, 2, rng)
	if len(out) != 2 {
		t.Fatalf("期望取前 2 名, got %d", len(out))
	}
	if out[0].Employee.Name != "Petrov" {
		t.Errorf("第一名应是班次计数最低者 Petrov, got %s", out[0].Employee.Name)
	}
	if out[1].Employee.Name != "Sidorov" {
		t.Errorf("第二名应是 Sidorov, got %s", out[1].Employee.Name)
	}
}

func TestFair_CountExceedsCandidates(t *testing.T) {
	candidates := []Candidate{candidate("Ivanov", 0, model.Morning)}
	rng := rand.New(rand.NewSource(1))
	out := Fair(candidates, model.Morning, 5, rng)
	if len(out) != 1 {
		t.Errorf("候选人数不足时应返回全部候选人, got %d", len(out))
	}
}

func TestFair_Deterministic(t *testing.T) {
	build := func() []Candidate {
		return []Candidate{
			candidate("Ivanov", 2, model.Morning),
			candidate("Petrov", 2, model.Morning),
			candidate("Sidorov", 0, model.Morning),
		}
	}
	rng1 := rand.New(rand.NewSource(42))
	out1 := Fair(build(), model.Morning, 3, rng1)

	rng2 := rand.New(rand.NewSource(42))
	out2 := Fair(build(), model.Morning, 3, rng2)

	for i := range out1 {
		if out1[i].Employee.Name != out2[i].Employee.Name {
			t.Errorf("相同 seed 下 Fair 排序应一致: 位置 %d 为 %s 与 %s", i, out1[i].Employee.Name, out2[i].Employee.Name)
		}
	}
}

func TestByUrgency_DeficitRanksAboveNoDeficit(t *testing.T) {
	needsWork := state.New(20, 0)
	for i := 0; i < 5; i++ {
		needsWork.Record(model.Workday)
	}
	onTarget := state.New(5, 0)
	for i := 0; i < 5; i++ {
		onTarget.Record(model.Workday)
	}

	candidates := []Candidate{
		{Employee: &model.Employee{Name: "OnTarget"}, State: onTarget},
		{Employee: &model.Employee{Name: "NeedsWork"}, State: needsWork},
	}
	rng := rand.New(rand.NewSource(1))
	out := ByUrgency(candidates, 10, rng)
	if out[0].Employee.Name != "NeedsWork" {
		t.Errorf("存在缺口者应排在前面, got %s first", out[0].Employee.Name)
	}
}

func TestByUrgency_ZeroRemainingDaysNoDivideByZero(t *testing.T) {
	candidates := []Candidate{candidate("Ivanov", 0, model.Morning)}
	rng := rand.New(rand.NewSource(1))
	out := ByUrgency(candidates, 0, rng)
	if len(out) != 1 {
		t.Errorf("remainingDays=0 时仍应正常返回排序结果")
	}
}

func TestPick(t *testing.T) {
	candidates := []Candidate{
		candidate("Ivanov", 0, model.Morning),
		candidate("Petrov", 0, model.Morning),
	}
	if got := Pick(candidates, 1); len(got) != 1 {
		t.Errorf("Pick(1) 应返回 1 个元素, got %d", len(got))
	}
	if got := Pick(candidates, 10); len(got) != 2 {
		t.Errorf("Pick(n) 越界应截断到切片长度, got %d", len(got))
	}
}

// needyCandidate 构造一个目标工作天数远高于已工作天数的候选人（NeedsMoreWork=true）
func needyCandidate(name string) Candidate {
	return Candidate{Employee: &model.Employee{Name: name}, State: state.New(20, 0)}
}

// satisfiedCandidate 构造一个已达到目标工作天数的候选人（NeedsMoreWork=false）
func satisfiedCandidate(name string) Candidate {
	s := state.New(2, 0)
	s.Record(model.Workday)
	s.Record(model.Workday)
	return Candidate{Employee: &model.Employee{Name: name}, State: s}
}

func TestSelectForMandatory_PrefersNeedyWhenEnough(t *testing.T) {
	candidates := []Candidate{satisfiedCandidate("OnTarget"), needyCandidate("NeedsWork")}
	rng := rand.New(rand.NewSource(1))
	out := SelectForMandatory(candidates, model.Night, 10, 1, rng)
	if out[0].Employee.Name != "NeedsWork" {
		t.Errorf("欠量子集人数达到 count 时应只从欠量子集中挑选, got %s", out[0].Employee.Name)
	}
}

func TestSelectForMandatory_FallsBackWhenNeedyInsufficient(t *testing.T) {
	candidates := []Candidate{satisfiedCandidate("OnTarget")}
	rng := rand.New(rand.NewSource(1))
	out := SelectForMandatory(candidates, model.Night, 10, 1, rng)
	if len(out) != 1 || out[0].Employee.Name != "OnTarget" {
		t.Errorf("欠量子集不足 count 人时应退回全体候选池, got %+v", out)
	}
}

func TestSelectForMorning_PrefersMorningOnlyWhenEveningCapableOutside(t *testing.T) {
	pool := []Candidate{
		{Employee: &model.Employee{Name: "Sidorov", MorningOnly: true}, State: state.New(20, 0)},
		{Employee: &model.Employee{Name: "Ivanov"}, State: state.New(20, 0)},
	}
	rng := rand.New(rand.NewSource(1))
	out := SelectForMorning(pool, true, model.Morning, 10, rng)
	if out[0].Employee.Name != "Sidorov" {
		t.Errorf("池外仍有晚班可用人选时应优先 morning_only 员工, got %s", out[0].Employee.Name)
	}
}

func TestSelectForMorning_FallsBackWhenNoEveningCapableOutside(t *testing.T) {
	pool := []Candidate{
		{Employee: &model.Employee{Name: "Sidorov", MorningOnly: true}, State: satisfiedCandidate("x").State},
		{Employee: &model.Employee{Name: "Ivanov"}, State: state.New(20, 0)},
	}
	rng := rand.New(rand.NewSource(1))
	out := SelectForMorning(pool, false, model.Morning, 10, rng)
	if out[0].Employee.Name != "Ivanov" {
		t.Errorf("池外无晚班可用人选时应退回 SelectForMandatory 的欠量优先逻辑, got %s", out[0].Employee.Name)
	}
}

func TestSelectForEvening_PrefersRestingAfterEvening(t *testing.T) {
	resting := state.New(20, 0)
	resting.LastShift = model.Evening
	pool := []Candidate{
		{Employee: &model.Employee{Name: "Fresh"}, State: state.New(20, 0)},
		{Employee: &model.Employee{Name: "Resting"}, State: resting},
	}
	rng := rand.New(rand.NewSource(1))
	out := SelectForEvening(pool, 10, rng)
	if out[0].Employee.Name != "Resting" {
		t.Errorf("应优先选择正在延续晚班休整的员工, got %s", out[0].Employee.Name)
	}
}

func TestSelectForEvening_PrefersFlexibleStreakWhenNoResting(t *testing.T) {
	streak := state.New(20, 0)
	streak.ConsecutiveWorking = 2
	shortStreak := state.New(20, 0)
	shortStreak.ConsecutiveWorking = 1
	pool := []Candidate{
		{Employee: &model.Employee{Name: "Short", ScheduleType: model.Flexible}, State: shortStreak},
		{Employee: &model.Employee{Name: "Streak", ScheduleType: model.Flexible}, State: streak},
	}
	rng := rand.New(rand.NewSource(1))
	out := SelectForEvening(pool, 10, rng)
	if out[0].Employee.Name != "Streak" {
		t.Errorf("无人延续晚班时应优先 consecutive_working>=2 的 FLEXIBLE 员工, got %s", out[0].Employee.Name)
	}
}

func TestSelectForEvening_FallsBackToMandatoryWhenNoPreference(t *testing.T) {
	pool := []Candidate{satisfiedCandidate("OnTarget"), needyCandidate("NeedsWork")}
	rng := rand.New(rand.NewSource(1))
	out := SelectForEvening(pool, 10, rng)
	if out[0].Employee.Name != "NeedsWork" {
		t.Errorf("无偏好子集命中时应退回 SelectForMandatory, got %s", out[0].Employee.Name)
	}
}

func TestNames(t *testing.T) {
	candidates := []Candidate{
		candidate("Ivanov", 0, model.Morning),
		candidate("Petrov", 0, model.Morning),
	}
	names := Names(candidates)
	if len(names) != 2 || names[0] != "Ivanov" || names[1] != "Petrov" {
		t.Errorf("Names() = %v", names)
	}
}
