// Package config 提供配置管理
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	App      AppConfig           `yaml:"app"`
	Database DatabaseConfig      `yaml:"database"`
	Holiday  HolidaySourceConfig `yaml:"holiday"`
	Generator GeneratorConfig    `yaml:"generator"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name     string `yaml:"name"`
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Name            string        `yaml:"name"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// DSN 返回数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// HolidaySourceConfig 节假日数据源配置（spec §6.2 外部协作者）
type HolidaySourceConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// GeneratorConfig 生成引擎相关参数（从环境变量读取）；builder 并不读取这些值，
// 回溯次数与回溯天数使用 model 包中的常量
type GeneratorConfig struct {
	DefaultSeed          int64 `yaml:"default_seed"`
	MaxBacktrackDays     int   `yaml:"max_backtrack_days"`
	MaxBacktrackAttempts int   `yaml:"max_backtrack_attempts"`
}

// Load 从环境变量加载配置，若存在 .env 文件则先行加载
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:     getEnv("APP_NAME", "dutyroster"),
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("APP_LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "dutyroster"),
			User:            getEnv("DB_USER", "dutyroster"),
			Password:        getEnv("DB_PASSWORD", "dutyroster123"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Holiday: HolidaySourceConfig{
			URL:     getEnv("HOLIDAY_SOURCE_URL", "https://isdayoff.ru/api/getdata"),
			Timeout: getEnvDuration("HOLIDAY_SOURCE_TIMEOUT", 5*time.Second),
		},
		Generator: GeneratorConfig{
			DefaultSeed:          int64(getEnvInt("GENERATOR_DEFAULT_SEED", 42)),
			MaxBacktrackDays:     getEnvInt("GENERATOR_MAX_BACKTRACK_DAYS", 3),
			MaxBacktrackAttempts: getEnvInt("GENERATOR_MAX_BACKTRACK_ATTEMPTS", 10),
		},
	}

	return cfg, nil
}

// IsDevelopment 检查是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction 检查是否为生产环境
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// IsTest 检查是否为测试环境
func (c *Config) IsTest() bool {
	return c.App.Env == "test"
}

// 辅助函数
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
