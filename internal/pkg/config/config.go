package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (slot step, quiet period, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	CORS       CORSConfig
	Log        LogConfig
	JWT        JWTConfig
	Scheduling SchedulingConfig
	Chat       ChatConfig
	Jobs       JobsConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// SchedulingConfig controls the slot computation engine. OccupyingStatuses
// lists the appointment statuses that block a staff member's timeline.
type SchedulingConfig struct {
	SlotStepMinutes   int      `envconfig:"SLOT_STEP_MINUTES" default:"30"`
	OccupyingStatuses []string `envconfig:"OCCUPYING_STATUSES" default:"scheduled,checked_in,in_progress"`
	MaxSlotsPerQuery  int      `envconfig:"MAX_SLOTS_PER_QUERY" default:"50"`
}

type ChatConfig struct {
	DebounceQuietMs int    `envconfig:"DEBOUNCE_QUIET_MS" default:"4000"`
	GraphAPIURL     string `envconfig:"GRAPH_API_URL" default:"https://graph.facebook.com/v19.0"`
	GraphAPIToken   string `envconfig:"GRAPH_API_TOKEN" default:""`
	ResponderURL    string `envconfig:"RESPONDER_URL" default:""`
	ResponderKey    string `envconfig:"RESPONDER_KEY" default:""`
	ResponderModel  string `envconfig:"RESPONDER_MODEL" default:"gpt-4o-mini"`
}

type JobsConfig struct {
	NoShowSweepSpec      string `envconfig:"JOB_NO_SHOW_SWEEP_SPEC" default:"*/5 * * * *"`
	NotificationSpec     string `envconfig:"JOB_NOTIFICATION_SPEC" default:"* * * * *"`
	NoShowGraceMinutes   int    `envconfig:"JOB_NO_SHOW_GRACE_MINUTES" default:"15"`
	NotificationBatchMax int    `envconfig:"JOB_NOTIFICATION_BATCH_MAX" default:"100"`
	NotificationWebhook  string `envconfig:"JOB_NOTIFICATION_WEBHOOK" default:""`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func (c SchedulingConfig) NormalizedStatuses() []string {
	out := make([]string, 0, len(c.OccupyingStatuses))
	for _, s := range c.OccupyingStatuses {
		s = strings.TrimSpace(strings.ToLower(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c ChatConfig) QuietPeriod() time.Duration {
	return time.Duration(c.DebounceQuietMs) * time.Millisecond
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		Scheduling: SchedulingConfig{
			SlotStepMinutes:   30,
			OccupyingStatuses: []string{"scheduled", "checked_in", "in_progress"},
			MaxSlotsPerQuery:  50,
		},
		Chat: ChatConfig{
			DebounceQuietMs: 40, // Short quiet period for tests
		},
	}
}
