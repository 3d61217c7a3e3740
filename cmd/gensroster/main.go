// gensroster 是排班引擎的命令行入口：读取 JSON 格式的月度配置，拉取生产日历，
// 调用核心生成器，并把结果打印、落库、导出为 .ics/.csv
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/dutyroster/scheduler/internal/config"
	"github.com/dutyroster/scheduler/internal/database"
	"github.com/dutyroster/scheduler/internal/repository"
	"github.com/dutyroster/scheduler/pkg/calendar"
	"github.com/dutyroster/scheduler/pkg/errors"
	"github.com/dutyroster/scheduler/pkg/export"
	"github.com/dutyroster/scheduler/pkg/logger"
	"github.com/dutyroster/scheduler/pkg/model"
	"github.com/dutyroster/scheduler/pkg/scheduler/builder"
)

func main() {
	configPath := flag.String("config", "", "月度配置 JSON 文件路径")
	holidaysFlag := flag.String("holidays", "", "手工节假日列表（YYYY-MM-DD 逗号分隔），留空则从远程生产日历拉取")
	outputDir := flag.String("out", "./output", "导出文件输出目录")
	persist := flag.Bool("persist", false, "是否把生成结果写入数据库")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "加载配置失败:", err)
		os.Exit(1)
	}
	logger.Init(logger.Config{Level: cfg.App.LogLevel, Format: "console", Output: "stdout", TimeFormat: time.RFC3339})

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "必须通过 -config 指定月度配置文件")
		os.Exit(1)
	}

	monthCfg, err := loadMonthConfig(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("加载月度配置失败")
		os.Exit(1)
	}

	holidays, err := resolveHolidays(cfg, monthCfg, *holidaysFlag)
	if err != nil {
		logger.Error().Err(err).Msg("获取生产日历失败")
		os.Exit(1)
	}

	schedule, err := builder.GenerateSchedule(*monthCfg, holidays)
	if err != nil {
		logger.Error().Err(err).Str("code", string(errors.GetCode(err))).Msg("生成排班失败")
		os.Exit(1)
	}

	logger.Info().Int("days", len(schedule.Days)).Msg("排班生成成功")

	icsFiles, err := export.ExportICS(schedule, *outputDir)
	if err != nil {
		logger.Error().Err(err).Msg("导出 ICS 失败")
	} else {
		logger.Info().Strs("files", icsFiles).Msg("ICS 导出完成")
	}

	csvFiles, err := export.ExportCSVBundle(schedule, *outputDir)
	if err != nil {
		logger.Error().Err(err).Msg("导出 CSV 失败")
	} else {
		logger.Info().Strs("files", csvFiles).Msg("CSV 导出完成")
	}

	if *persist {
		if err := persistSchedule(cfg, monthCfg, schedule); err != nil {
			logger.Error().Err(err).Msg("写入数据库失败")
			os.Exit(1)
		}
	}
}

func loadMonthConfig(path string) (*model.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	var raw monthConfigJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	return raw.toModelConfig()
}

// resolveHolidays 优先使用命令行手工提供的节假日列表，否则通过配置的生产日历数据源拉取
func resolveHolidays(cfg *config.Config, monthCfg *model.Config, manual string) (map[time.Time]bool, error) {
	if manual != "" {
		return calendar.ParseManual(manual, monthCfg.Year, monthCfg.Month)
	}
	fetcher := calendar.NewHTTPFetcher(cfg.Holiday.URL, cfg.Holiday.Timeout)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Holiday.Timeout+time.Second)
	defer cancel()
	return fetcher.Fetch(ctx, monthCfg.Year, monthCfg.Month)
}

func persistSchedule(cfg *config.Config, monthCfg *model.Config, schedule *model.Schedule) error {
	ctx := context.Background()
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}
	defer db.Close()

	repo := repository.NewScheduleRepository(db)
	run := &repository.GenerationRun{
		ID:          uuid.New(),
		Year:        monthCfg.Year,
		Month:       int(monthCfg.Month),
		Seed:        monthCfg.Seed,
		Feasible:    true,
		GeneratedAt: time.Now(),
	}
	if err := repo.Create(ctx, run); err != nil {
		return err
	}
	return repo.CreateAssignments(ctx, run.ID, schedule)
}
