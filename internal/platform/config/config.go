package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Email     EmailConfig     `mapstructure:"email"`
	Invites   InvitesConfig   `mapstructure:"invites"`
	Worker    WorkerConfig    `mapstructure:"worker"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	Driver         string        `mapstructure:"driver"` // sqlite3 or postgres
	DSN            string        `mapstructure:"dsn"`
	MaxConnections int           `mapstructure:"max_connections"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type JWTConfig struct {
	Secret          string        `mapstructure:"secret"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

type RateLimitConfig struct {
	AuthPerMinute    int `mapstructure:"auth_per_minute"`
	GraphQLPerMinute int `mapstructure:"graphql_per_minute"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

type EmailConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	FrontendURL string        `mapstructure:"frontend_url"`
	SMTP        SMTPConfig    `mapstructure:"smtp"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type SMTPConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	UseTLS      bool   `mapstructure:"use_tls"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

type InvitesConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type WorkerConfig struct {
	InviteSweepSchedule string `mapstructure:"invite_sweep_schedule"`
	MetricsAddr         string `mapstructure:"metrics_addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)

	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "./data/projecthub.db")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.connect_timeout", 30*time.Second)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.access_token_ttl", 15*time.Minute)
	v.SetDefault("jwt.refresh_token_ttl", 7*24*time.Hour)

	v.SetDefault("rate_limit.auth_per_minute", 20)
	v.SetDefault("rate_limit.graphql_per_minute", 600)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.file_path", "")

	v.SetDefault("email.enabled", false)
	v.SetDefault("email.frontend_url", "http://localhost:3000")
	v.SetDefault("email.timeout", 10*time.Second)
	v.SetDefault("email.smtp.host", "")
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("email.smtp.username", "")
	v.SetDefault("email.smtp.password", "")
	v.SetDefault("email.smtp.use_tls", true)
	v.SetDefault("email.smtp.from_address", "")
	v.SetDefault("email.smtp.from_name", "ProjectHub")

	v.SetDefault("invites.ttl", 7*24*time.Hour)

	v.SetDefault("worker.invite_sweep_schedule", "@every 15m")
	v.SetDefault("worker.metrics_addr", ":9091")
}

// Load reads the YAML file at path (when present) and overlays PROJECTHUB_* environment
// variables, e.g. PROJECTHUB_DATABASE_DSN.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("projecthub")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
