package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"NewsMonitor/internal/matcher"
)

const (
	configPathEnv      = "NEWS_MONITOR_CONFIG"
	telegramTokenEnv   = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv  = "TELEGRAM_CHAT_ID"
	keywordsEnv        = "KEYWORDS"
	intervalMinutesEnv = "CHECK_INTERVAL_MINUTES"
	maxArticlesEnv     = "MAX_ARTICLES_PER_CYCLE"
	logLevelEnv        = "LOG_LEVEL"
	databasePathEnv    = "DATABASE_PATH"
	retentionDaysEnv   = "RETENTION_DAYS"
)

var botTokenExpr = regexp.MustCompile(`^\d+:[A-Za-z0-9_-]+$`)

// Config holds all settings required across the application.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Monitor  MonitorConfig  `yaml:"monitor"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TelegramConfig wires the outbound notification credential.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// MonitorConfig defines the monitoring cycle parameters.
type MonitorConfig struct {
	Keywords            []string `yaml:"keywords"`
	IntervalMinutes     int      `yaml:"intervalMinutes"`
	MaxArticlesPerCycle int      `yaml:"maxArticlesPerCycle"`
	RetentionDays       int      `yaml:"retentionDays"`
	CleanupCron         string   `yaml:"cleanupCron"`
}

// DatabaseConfig locates the SQLite dedup store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig sets the minimum severity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads an optional .env file, then YAML configuration (if
// NEWS_MONITOR_CONFIG points at one), then environment overrides.
// Malformed values are errors; missing required values are caught by
// Validate.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv(keywordsEnv); v != "" {
		c.Monitor.Keywords = SplitKeywords(v)
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}

	for _, override := range []struct {
		env    string
		target *int
	}{
		{intervalMinutesEnv, &c.Monitor.IntervalMinutes},
		{maxArticlesEnv, &c.Monitor.MaxArticlesPerCycle},
		{retentionDaysEnv, &c.Monitor.RetentionDays},
	} {
		v := os.Getenv(override.env)
		if v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be numeric, got %q", override.env, v)
		}
		*override.target = parsed
	}

	return nil
}

// Validate enforces the required settings; any returned error is fatal
// at startup. Keyword warnings are diagnostics for the caller to log.
func (c Config) Validate() (warnings []string, err error) {
	if c.Telegram.BotToken == "" {
		return nil, fmt.Errorf("telegram bot token is required (%s)", telegramTokenEnv)
	}
	if !botTokenExpr.MatchString(c.Telegram.BotToken) {
		return nil, fmt.Errorf("telegram bot token has invalid format, expected <numeric id>:<secret>")
	}
	if c.Telegram.ChatID == "" {
		return nil, fmt.Errorf("telegram chat id is required (%s)", telegramChatIDEnv)
	}
	if len(c.Monitor.Keywords) == 0 {
		return nil, fmt.Errorf("at least one keyword is required (%s)", keywordsEnv)
	}
	if c.Monitor.IntervalMinutes <= 0 {
		return nil, fmt.Errorf("check interval must be a positive number of minutes, got %d", c.Monitor.IntervalMinutes)
	}
	if c.Monitor.MaxArticlesPerCycle <= 0 {
		return nil, fmt.Errorf("max articles per cycle must be positive, got %d", c.Monitor.MaxArticlesPerCycle)
	}
	if c.Monitor.RetentionDays <= 0 {
		return nil, fmt.Errorf("retention days must be positive, got %d", c.Monitor.RetentionDays)
	}
	if c.Database.Path == "" {
		return nil, fmt.Errorf("database path is required (%s)", databasePathEnv)
	}

	errs, warns := matcher.ValidateKeywords(c.Monitor.Keywords)
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid keywords: %s", strings.Join(errs, "; "))
	}

	return warns, nil
}

// SplitKeywords parses the comma-separated keyword list, trimming and
// dropping empty entries.
func SplitKeywords(raw string) []string {
	parts := strings.Split(raw, ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	return keywords
}

func mergeConfig(base, override Config) Config {
	if override.Telegram.BotToken != "" {
		base.Telegram.BotToken = override.Telegram.BotToken
	}
	if override.Telegram.ChatID != "" {
		base.Telegram.ChatID = override.Telegram.ChatID
	}

	if len(override.Monitor.Keywords) > 0 {
		base.Monitor.Keywords = override.Monitor.Keywords
	}
	// Non-zero covers explicit negative values too: they must survive
	// the merge so Validate can reject them instead of a default
	// silently papering over a bad file.
	if override.Monitor.IntervalMinutes != 0 {
		base.Monitor.IntervalMinutes = override.Monitor.IntervalMinutes
	}
	if override.Monitor.MaxArticlesPerCycle != 0 {
		base.Monitor.MaxArticlesPerCycle = override.Monitor.MaxArticlesPerCycle
	}
	if override.Monitor.RetentionDays != 0 {
		base.Monitor.RetentionDays = override.Monitor.RetentionDays
	}
	if override.Monitor.CleanupCron != "" {
		base.Monitor.CleanupCron = override.Monitor.CleanupCron
	}

	if override.Database.Path != "" {
		base.Database.Path = override.Database.Path
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Monitor: MonitorConfig{
			IntervalMinutes:     15,
			MaxArticlesPerCycle: 10,
			RetentionDays:       30,
			CleanupCron:         "0 3 * * *",
		},
		Database: DatabaseConfig{Path: "newsmonitor.db"},
		Logging:  LoggingConfig{Level: "info"},
	}
}
