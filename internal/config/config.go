// Package config loads timey's static settings: the chore catalog, the XP
// rules, timer lengths, and where profiles are stored.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/trustieee/timey-sub000/internal/engine"
)

const (
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

type Config struct {
	UserID string  `mapstructure:"user_id"`
	Rules  Rules   `mapstructure:"rules"`
	Timer  Timer   `mapstructure:"timer"`
	Store  Store   `mapstructure:"store"`
	Server Server  `mapstructure:"server"`
	Backup Backup  `mapstructure:"backup"`
	Chores []Chore `mapstructure:"chores"`
}

type Rules struct {
	XPForChore        int   `mapstructure:"xp_for_chore"`
	XPPenaltyForChore int   `mapstructure:"xp_penalty_for_chore"`
	LevelThresholds   []int `mapstructure:"level_thresholds"`
	DefaultLevelXP    int   `mapstructure:"default_level_xp"`
}

type Timer struct {
	PlayMinutes     int           `mapstructure:"play_minutes"`
	CooldownMinutes int           `mapstructure:"cooldown_minutes"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

type Store struct {
	Driver        string `mapstructure:"driver"`
	SQLitePath    string `mapstructure:"sqlite_path"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	PostgresDSN   string `mapstructure:"postgres_dsn"`
}

type Server struct {
	Addr           string `mapstructure:"addr"`
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

// Backup points at an S3-compatible bucket (Cloudflare R2 in production).
type Backup struct {
	Enabled         bool   `mapstructure:"enabled"`
	Bucket          string `mapstructure:"bucket"`
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	Prefix          string `mapstructure:"prefix"`
}

type Chore struct {
	ID         int    `mapstructure:"id"`
	Text       string `mapstructure:"text"`
	DaysOfWeek []int  `mapstructure:"days_of_week"`
}

// DefaultChores is the household list used when the config file names none.
func DefaultChores() []Chore {
	return []Chore{
		{ID: 1, Text: "Make your bed"},
		{ID: 2, Text: "Brush teeth (morning)"},
		{ID: 3, Text: "Put dirty clothes in the hamper"},
		{ID: 4, Text: "Feed the pets"},
		{ID: 5, Text: "Clear your dishes"},
		{ID: 6, Text: "Homework", DaysOfWeek: []int{1, 2, 3, 4, 5}},
		{ID: 7, Text: "Read for 20 minutes"},
		{ID: 8, Text: "Tidy your room"},
		{ID: 9, Text: "Take out the trash", DaysOfWeek: []int{2, 5}},
		{ID: 10, Text: "Water the plants", DaysOfWeek: []int{0, 3}},
		{ID: 11, Text: "Pack your school bag", DaysOfWeek: []int{0, 1, 2, 3, 4}},
		{ID: 12, Text: "Brush teeth (evening)"},
	}
}

// DefaultDBPath returns the default local profile store location.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".timey.db"
	}
	return filepath.Join(home, ".timey.db")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("user_id", "player")
	v.SetDefault("rules.xp_for_chore", engine.DefaultXPForChore)
	v.SetDefault("rules.xp_penalty_for_chore", engine.DefaultXPPenaltyForChore)
	v.SetDefault("rules.level_thresholds", engine.DefaultLevelThresholds)
	v.SetDefault("rules.default_level_xp", engine.DefaultLevelXP)
	v.SetDefault("timer.play_minutes", engine.DefaultPlayMinutes)
	v.SetDefault("timer.cooldown_minutes", engine.DefaultCooldownMinutes)
	v.SetDefault("timer.refresh_interval", time.Minute)
	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.sqlite_path", DefaultDBPath())
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("server.addr", ":5200")
	v.SetDefault("server.allowed_origins", "http://localhost:3000")
	v.SetDefault("backup.region", "auto")
	v.SetDefault("backup.prefix", "profiles")
}

// Load reads .env, then timey.yaml (from path, the working directory, or
// ~/.timey), then TIMEY_* environment overrides. A missing file is fine.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("⚠️  could not read .env: %v", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("TIMEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("timey")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".timey"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if len(cfg.Chores) == 0 {
		cfg.Chores = DefaultChores()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("config: user_id is required")
	}
	if c.Rules.XPForChore < 0 || c.Rules.XPPenaltyForChore < 0 {
		return errors.New("config: xp values must not be negative")
	}
	if c.Rules.DefaultLevelXP <= 0 {
		return errors.New("config: default_level_xp must be positive")
	}
	for i, th := range c.Rules.LevelThresholds {
		if th <= 0 {
			return fmt.Errorf("config: level_thresholds[%d] must be positive", i)
		}
	}
	if c.Timer.PlayMinutes < 0 || c.Timer.CooldownMinutes < 0 {
		return errors.New("config: timer minutes must not be negative")
	}
	if c.Timer.RefreshInterval < 0 {
		return errors.New("config: timer.refresh_interval must not be negative")
	}
	switch c.Store.Driver {
	case DriverSQLite, DriverRedis, DriverPostgres:
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if _, err := ToDefinitions(c.Chores); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ToDefinitions converts and checks a chore list: ids unique, text present, weekdays 0..6.
func ToDefinitions(chores []Chore) ([]engine.ChoreDefinition, error) {
	seen := map[int]bool{}
	out := make([]engine.ChoreDefinition, 0, len(chores))
	for _, ch := range chores {
		if seen[ch.ID] {
			return nil, fmt.Errorf("duplicate chore id %d", ch.ID)
		}
		seen[ch.ID] = true
		text := strings.TrimSpace(ch.Text)
		if text == "" {
			return nil, fmt.Errorf("chore %d: text is required", ch.ID)
		}
		days, err := engine.WeekdaySetFromInts(ch.DaysOfWeek)
		if err != nil {
			return nil, fmt.Errorf("chore %d: %w", ch.ID, err)
		}
		out = append(out, engine.ChoreDefinition{ID: ch.ID, Text: text, DaysOfWeek: days})
	}
	return out, nil
}

// Catalog returns the configured chores as engine definitions.
func (c *Config) Catalog() []engine.ChoreDefinition {
	defs, err := ToDefinitions(c.Chores)
	if err != nil {
		return nil
	}
	return defs
}

// EngineRules bundles everything the engine needs.
func (c *Config) EngineRules() engine.Rules {
	return engine.Rules{
		XPForChore:        c.Rules.XPForChore,
		XPPenaltyForChore: c.Rules.XPPenaltyForChore,
		LevelThresholds:   append([]int(nil), c.Rules.LevelThresholds...),
		DefaultLevelXP:    c.Rules.DefaultLevelXP,
		Catalog:           c.Catalog(),
		Timer: engine.Timer{
			PlayMinutes:     c.Timer.PlayMinutes,
			CooldownMinutes: c.Timer.CooldownMinutes,
		},
	}
}
