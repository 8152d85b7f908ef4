package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
)

const epochLayout = "2006-01-02"

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string `toml:"listen_addr"`
	Port              string `toml:"port"`
	DatabasePath      string `toml:"database_path"`
	SessionSecret     string `toml:"session_secret"`
	SessionSecure     bool   `toml:"session_secure"`
	GinMode           string `toml:"gin_mode"`
	LogLevel          string `toml:"log_level"`
	LogFile           string `toml:"log_file"`
	LogToStdout       bool   `toml:"log_to_stdout"`
	LogJSON           bool   `toml:"log_json"`
	Timezone          string `toml:"timezone"`
	StreakEpoch       string `toml:"streak_epoch"`
	SuperRootUserName string `toml:"super_root_user_name"`
	SuperRootPassword string `toml:"super_root_password"`
}

// Load 读取可选的 TOML 配置文件（CONFIG_FILE），再用环境变量覆盖，并为缺失项提供安全的默认值。
func Load() (AppConfig, error) {
	var cfg AppConfig

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return AppConfig{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg.Port = envOr("PORT", cfg.Port, "8080")
	cfg.ListenAddr = envOr("LISTEN_ADDR", cfg.ListenAddr, fmt.Sprintf(":%s", cfg.Port))
	cfg.DatabasePath = envOr("DATABASE_PATH", cfg.DatabasePath, "streaklog.db")
	cfg.SessionSecret = envOr("SESSION_SECRET", cfg.SessionSecret, "streaklog-dev-secret")
	cfg.GinMode = envOr("GIN_MODE", cfg.GinMode, "release")
	cfg.LogLevel = envOr("LOG_LEVEL", cfg.LogLevel, "info")
	cfg.LogFile = envOr("LOG_FILE", cfg.LogFile, "")
	cfg.Timezone = envOr("TIMEZONE", cfg.Timezone, "Local")
	cfg.StreakEpoch = envOr("STREAK_EPOCH", cfg.StreakEpoch, "")
	cfg.SuperRootUserName = envOr("SUPER_ROOT_USER_NAME", cfg.SuperRootUserName, "")
	cfg.SuperRootPassword = envOr("SUPER_ROOT_PASSWORD", cfg.SuperRootPassword, "")

	var err error
	if cfg.LogToStdout, err = envBool("LOG_TO_STDOUT", cfg.LogToStdout); err != nil {
		return AppConfig{}, err
	}
	if cfg.LogJSON, err = envBool("LOG_JSON", cfg.LogJSON); err != nil {
		return AppConfig{}, err
	}
	if cfg.SessionSecure, err = envBool("SESSION_SECURE", cfg.SessionSecure); err != nil {
		return AppConfig{}, err
	}

	if _, err := cfg.Location(); err != nil {
		return AppConfig{}, err
	}
	if _, err := cfg.Epoch(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

// Location 解析 Timezone，"Local" 或空值使用系统时区。
func (c AppConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// Epoch 解析连胜统计起始日，早于该日期的计划日不会被判定为错过；为空表示不限制。
func (c AppConfig) Epoch() (time.Time, error) {
	raw := strings.TrimSpace(c.StreakEpoch)
	if raw == "" {
		return time.Time{}, nil
	}
	loc, err := c.Location()
	if err != nil {
		return time.Time{}, err
	}
	epoch, err := time.ParseInLocation(epochLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid STREAK_EPOCH %q, expected YYYY-MM-DD: %w", raw, err)
	}
	return epoch, nil
}

func envOr(key, current, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	if current = strings.TrimSpace(current); current != "" {
		return current
	}
	return fallback
}

func envBool(key string, current bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return current, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return value, nil
}
