// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dutyroster/scheduler/pkg/model"
)

// GenerationRun 一次 GenerateSchedule 调用的持久化记录
type GenerationRun struct {
	ID          uuid.UUID
	Year        int
	Month       int
	Seed        int64
	Feasible    bool
	FailReason  string
	GeneratedAt time.Time
	CreatedAt   time.Time
}

// RunAssignment 某次生成的单条员工-日期-班次分配
type RunAssignment struct {
	ID         uuid.UUID
	RunID      uuid.UUID
	Employee   string
	Date       string
	Shift      string
	IsHoliday  bool
	CreatedAt  time.Time
}

// ScheduleRepositoryInterface 排班生成记录仓储接口
type ScheduleRepositoryInterface interface {
	Create(ctx context.Context, run *GenerationRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*GenerationRun, error)
	List(ctx context.Context, filter ListFilter) ([]*GenerationRun, int, error)

	CreateAssignments(ctx context.Context, runID uuid.UUID, schedule *model.Schedule) error
	GetAssignments(ctx context.Context, runID uuid.UUID) ([]*RunAssignment, error)
	GetAssignmentsByEmployee(ctx context.Context, employee, startDate, endDate string) ([]*RunAssignment, error)
	DeleteAssignments(ctx context.Context, runID uuid.UUID) error

	GetLatestRun(ctx context.Context, year, month int) (*GenerationRun, error)
}

// ScheduleRepository 排班生成记录仓储实现
type ScheduleRepository struct {
	db DB
}

// NewScheduleRepository 创建仓储
func NewScheduleRepository(db DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create 创建一次生成记录
func (r *ScheduleRepository) Create(ctx context.Context, run *GenerationRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	run.CreatedAt = time.Now()

	query := `
		INSERT INTO generation_runs (
			id, year, month, seed, feasible, fail_reason, generated_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.Year, run.Month, run.Seed, run.Feasible, run.FailReason,
		run.GeneratedAt, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建生成记录失败: %w", err)
	}
	return nil
}

// GetByID 根据ID获取生成记录
func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*GenerationRun, error) {
	query := `
		SELECT id, year, month, seed, feasible, fail_reason, generated_at, created_at
		FROM generation_runs
		WHERE id = $1
	`
	return r.scanRun(r.db.QueryRowContext(ctx, query, id))
}

// List 列出生成记录
func (r *ScheduleRepository) List(ctx context.Context, filter ListFilter) ([]*GenerationRun, int, error) {
	var conditions []string
	var args []interface{}
	argNum := 1

	if filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("generated_at >= $%d", argNum))
		args = append(args, filter.StartDate)
		argNum++
	}
	if filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("generated_at <= $%d", argNum))
		args = append(args, filter.EndDate)
		argNum++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM generation_runs %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("统计生成记录数量失败: %w", err)
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	orderDir := filter.OrderDir
	if orderDir == "" {
		orderDir = "desc"
	}

	query := fmt.Sprintf(`
		SELECT id, year, month, seed, feasible, fail_reason, generated_at, created_at
		FROM generation_runs %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, whereClause, orderBy, orderDir, argNum, argNum+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("查询生成记录失败: %w", err)
	}
	defer rows.Close()

	var runs []*GenerationRun
	for rows.Next() {
		run := &GenerationRun{}
		if err := rows.Scan(
			&run.ID, &run.Year, &run.Month, &run.Seed, &run.Feasible, &run.FailReason,
			&run.GeneratedAt, &run.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("扫描生成记录失败: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, total, nil
}

// CreateAssignments 将一份完整 Schedule 展开为逐日逐人的分配行并批量写入
func (r *ScheduleRepository) CreateAssignments(ctx context.Context, runID uuid.UUID, schedule *model.Schedule) error {
	for _, day := range schedule.Days {
		dateStr := day.Date.Format("2006-01-02")
		entries := []struct {
			shift model.ShiftType
			names []string
		}{
			{model.Morning, day.Morning},
			{model.Evening, day.Evening},
			{model.Night, day.Night},
			{model.Workday, day.Workday},
			{model.DayOff, day.DayOff},
			{model.Vacation, day.Vacation},
		}
		for _, entry := range entries {
			for _, name := range entry.names {
				row := &RunAssignment{
					ID:        uuid.New(),
					RunID:     runID,
					Employee:  name,
					Date:      dateStr,
					Shift:     string(entry.shift),
					IsHoliday: day.IsHoliday,
					CreatedAt: time.Now(),
				}
				if err := r.createAssignment(ctx, row); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *ScheduleRepository) createAssignment(ctx context.Context, a *RunAssignment) error {
	query := `
		INSERT INTO run_assignments (
			id, run_id, employee, date, shift, is_holiday, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.RunID, a.Employee, a.Date, a.Shift, a.IsHoliday, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建分配记录失败: %w", err)
	}
	return nil
}

// GetAssignments 获取某次生成的全部分配
func (r *ScheduleRepository) GetAssignments(ctx context.Context, runID uuid.UUID) ([]*RunAssignment, error) {
	query := `
		SELECT id, run_id, employee, date, shift, is_holiday, created_at
		FROM run_assignments
		WHERE run_id = $1
		ORDER BY date, employee
	`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("查询分配记录失败: %w", err)
	}
	defer rows.Close()
	return scanAssignmentRows(rows)
}

// GetAssignmentsByEmployee 获取某员工在日期范围内的分配
func (r *ScheduleRepository) GetAssignmentsByEmployee(ctx context.Context, employee, startDate, endDate string) ([]*RunAssignment, error) {
	query := `
		SELECT id, run_id, employee, date, shift, is_holiday, created_at
		FROM run_assignments
		WHERE employee = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`
	rows, err := r.db.QueryContext(ctx, query, employee, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("查询员工分配记录失败: %w", err)
	}
	defer rows.Close()
	return scanAssignmentRows(rows)
}

// DeleteAssignments 删除某次生成的全部分配
func (r *ScheduleRepository) DeleteAssignments(ctx context.Context, runID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM run_assignments WHERE run_id = $1", runID)
	if err != nil {
		return fmt.Errorf("删除分配记录失败: %w", err)
	}
	return nil
}

// GetLatestRun 获取某年月最新一次生成记录
func (r *ScheduleRepository) GetLatestRun(ctx context.Context, year, month int) (*GenerationRun, error) {
	query := `
		SELECT id, year, month, seed, feasible, fail_reason, generated_at, created_at
		FROM generation_runs
		WHERE year = $1 AND month = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanRun(r.db.QueryRowContext(ctx, query, year, month))
}

func (r *ScheduleRepository) scanRun(row *sql.Row) (*GenerationRun, error) {
	run := &GenerationRun{}
	err := row.Scan(
		&run.ID, &run.Year, &run.Month, &run.Seed, &run.Feasible, &run.FailReason,
		&run.GeneratedAt, &run.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("扫描生成记录失败: %w", err)
	}
	return run, nil
}

func scanAssignmentRows(rows *sql.Rows) ([]*RunAssignment, error) {
	var assignments []*RunAssignment
	for rows.Next() {
		a := &RunAssignment{}
		if err := rows.Scan(
			&a.ID, &a.RunID, &a.Employee, &a.Date, &a.Shift, &a.IsHoliday, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描分配记录失败: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}
