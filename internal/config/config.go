package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Armin-kho/satta-result-bot/internal/markets"
	"github.com/Armin-kho/satta-result-bot/internal/utils"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type Config struct {
	BotToken string `json:"bot_token,omitempty"`
	// ChatID is a numeric chat id or an "@channel" username.
	ChatID    string `json:"chat_id,omitempty"`
	ResultURL string `json:"result_url"`

	DataDir      string `json:"data_dir"`
	StateBackend string `json:"state_backend"`
	// StateFile defaults to <data_dir>/last_sent.json or <data_dir>/bot.db.
	StateFile string `json:"state_file,omitempty"`

	Timezone      string `json:"timezone"`
	SummaryCutoff string `json:"summary_cutoff"`
	SendSummary   bool   `json:"send_summary"`
	SlotGating    bool   `json:"slot_gating"`

	HTTPTimeoutSeconds int `json:"http_timeout_seconds"`
	HTTPRetries        int `json:"http_retries"`

	HistoryDays int `json:"history_days"`

	// ExtraAliases maps scraped labels to canonical market names.
	ExtraAliases map[string]string `json:"extra_aliases,omitempty"`

	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file,omitempty"`

	// If true, the telegram client logs its requests.
	Debug bool `json:"debug,omitempty"`
}

func Defaults() Config {
	return Config{
		ResultURL:          "https://satta-king-fixed-no.in",
		DataDir:            DefaultDataDir(),
		StateBackend:       BackendFile,
		Timezone:           utils.DefaultZone,
		SummaryCutoff:      "05:20",
		SendSummary:        true,
		HTTPTimeoutSeconds: 20,
		HTTPRetries:        2,
		HistoryDays:        7,
		LogLevel:           "info",
	}
}

func DefaultDataDir() string {
	if v := os.Getenv("SRB_DATA_DIR"); v != "" {
		return v
	}
	return "/var/lib/satta-result-bot"
}

func DefaultConfigPath() string {
	if v := os.Getenv("SRB_CONFIG"); v != "" {
		return v
	}
	return "/etc/satta-result-bot/config.json"
}

// Load loads .env if present, reads the JSON file at path (a missing file is
// fine), then applies environment overrides.
func Load(path string) (Config, error) {
	_ = godotenv.Load()
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Defaults()
	if b, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("invalid config json: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	applyEnv(&cfg)

	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir()
	}
	cfg.DataDir = filepath.Clean(cfg.DataDir)
	if cfg.StateFile == "" {
		cfg.StateFile = filepath.Join(cfg.DataDir, defaultStateName(cfg.StateBackend))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaultStateName(backend string) string {
	if backend == BackendSQLite {
		return "bot.db"
	}
	return "last_sent.json"
}

func applyEnv(cfg *Config) {
	setStr(&cfg.BotToken, "BOT_TOKEN")
	setStr(&cfg.BotToken, "SRB_BOT_TOKEN")
	setStr(&cfg.ChatID, "GROUP_CHAT_ID")
	setStr(&cfg.ChatID, "SRB_CHAT_ID")
	setStr(&cfg.ResultURL, "RESULT_URL")
	setStr(&cfg.ResultURL, "SRB_RESULT_URL")
	setStr(&cfg.DataDir, "DATA_DIR")
	setStr(&cfg.DataDir, "SRB_DATA_DIR")
	setStr(&cfg.StateBackend, "SRB_STATE_BACKEND")
	setStr(&cfg.StateFile, "SRB_STATE_FILE")
	setStr(&cfg.Timezone, "SRB_TIMEZONE")
	setStr(&cfg.SummaryCutoff, "SRB_SUMMARY_CUTOFF")
	setBool(&cfg.SendSummary, "SRB_SEND_SUMMARY")
	setBool(&cfg.SlotGating, "SRB_SLOT_GATING")
	setInt(&cfg.HTTPTimeoutSeconds, "SRB_HTTP_TIMEOUT_SECONDS")
	setInt(&cfg.HTTPRetries, "SRB_HTTP_RETRIES")
	setInt(&cfg.HistoryDays, "SRB_HISTORY_DAYS")
	setStr(&cfg.LogLevel, "SRB_LOG_LEVEL")
	setStr(&cfg.LogFile, "SRB_LOG_FILE")
	setBool(&cfg.Debug, "SRB_DEBUG")
}

func setStr(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
	}
}

func (c Config) Validate() error {
	switch c.StateBackend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown state_backend %q (want %q or %q)", c.StateBackend, BackendFile, BackendSQLite)
	}
	if c.ResultURL == "" {
		return errors.New("missing result_url")
	}
	if _, ok := utils.ParseHHMM(c.SummaryCutoff); !ok {
		return fmt.Errorf("invalid summary_cutoff %q (want HH:MM)", c.SummaryCutoff)
	}
	if _, err := utils.LoadZone(c.Timezone); err != nil {
		return err
	}
	if c.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("http_timeout_seconds must be positive, got %d", c.HTTPTimeoutSeconds)
	}
	if c.HTTPRetries < 0 {
		return fmt.Errorf("http_retries must not be negative, got %d", c.HTTPRetries)
	}
	for label, target := range c.ExtraAliases {
		if !markets.Known(markets.Market(markets.Clean(target))) {
			return fmt.Errorf("extra alias %q points at unknown market %q", label, target)
		}
	}
	return nil
}

// Aliases returns the default alias table followed by the configured extras.
func (c Config) Aliases() []markets.Alias {
	out := append([]markets.Alias{}, markets.DefaultAliases...)
	for label, target := range c.ExtraAliases {
		out = append(out, markets.Alias{Label: label, Market: markets.Market(markets.Clean(target))})
	}
	return out
}

// DryRun reports whether messages should only be logged.
func (c Config) DryRun() bool {
	return c.BotToken == "" || c.ChatID == ""
}
