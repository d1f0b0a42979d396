package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"
	_ "time/tzdata"

	"github.com/ozcotech/denklem/backend/model"
	"gopkg.in/yaml.v3"
)

// ErrInvalidWeekOffset is returned when a configured pair breaks 1 <= normal < extended
var ErrInvalidWeekOffset = errors.New("invalid week offset")

type Config struct {
	Server      ServerConfig          `yaml:"server"`
	Auth        AuthConfig            `yaml:"auth"`
	Log         LogConfig             `yaml:"log"`
	Store       StoreConfig           `yaml:"store"`
	Locale      LocaleConfig          `yaml:"locale"`
	Calendar    CalendarConfig        `yaml:"calendar"`
	RateLimit   RateLimitConfig       `yaml:"rate_limit"`
	WeekOffsets model.WeekOffsetTable `yaml:"week_offsets"`
	Users       []User                `yaml:"users"`

	location *time.Location
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type StoreConfig struct {
	MaxSessions int `yaml:"max_sessions"`
}

type LocaleConfig struct {
	Default string `yaml:"default"`
}

type CalendarConfig struct {
	TimeZone string `yaml:"time_zone"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	Burst             int `yaml:"burst"`
}

type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Office   string `yaml:"office"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Auth.TokenExpireHours == 0 {
		c.Auth.TokenExpireHours = 24
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Store.MaxSessions == 0 {
		c.Store.MaxSessions = 100
	}
	if c.Locale.Default == "" {
		c.Locale.Default = "tr"
	}
	if c.Calendar.TimeZone == "" {
		c.Calendar.TimeZone = "Europe/Istanbul"
	}
	if c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = 100
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = c.RateLimit.RequestsPerMinute
	}
	if len(c.WeekOffsets) == 0 {
		c.WeekOffsets = model.DefaultWeekOffsetTable()
	}
}

func (c *Config) validate() error {
	keys := make([]string, 0, len(c.WeekOffsets))
	for key := range c.WeekOffsets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if w := c.WeekOffsets[key]; !w.Valid() {
			return fmt.Errorf("config: week_offsets.%s [%d, %d]: %w", key, w.Normal, w.Extended, ErrInvalidWeekOffset)
		}
	}

	loc, err := time.LoadLocation(c.Calendar.TimeZone)
	if err != nil {
		return fmt.Errorf("config: calendar.time_zone: %w", err)
	}
	c.location = loc
	return nil
}

// Location returns the time zone start dates are interpreted in
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// FindUser finds a user by username
func (c *Config) FindUser(username string) *User {
	for i := range c.Users {
		if c.Users[i].Username == username {
			return &c.Users[i]
		}
	}
	return nil
}
