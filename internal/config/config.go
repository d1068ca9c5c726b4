// Package config loads the server configuration. Sources are applied in order:
// built-in defaults, an optional config file (-c flag or CONFIG env), environment
// variables prefixed with TASKMANAGER_, and finally command-line flags.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "TASKMANAGER"

var ErrDSNRequired = errors.New("database.dsn is required for the postgres and sqlite drivers")

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	Port            int           `mapstructure:"port" validate:"gt=0,lt=65536"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	Mode            string        `mapstructure:"mode" validate:"oneof=debug release test"`
}

// Address is the listen address for http.Server.
func (c ServerConfig) Address() string {
	return net.JoinHostPort(c.Addr, strconv.Itoa(c.Port))
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver" validate:"oneof=postgres sqlite memory"`
	DSN          string `mapstructure:"dsn"`
	Migrate      bool   `mapstructure:"migrate"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=0"`
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenTTL   time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
	BcryptCost int           `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

type BootstrapConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	AdminEmail    string `mapstructure:"admin_email" validate:"omitempty,email"`
	AdminPassword string `mapstructure:"admin_password"`
	SeedFile      string `mapstructure:"seed_file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.mode", "release")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.migrate", true)
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("bootstrap.enabled", true)
	v.SetDefault("bootstrap.admin_email", "hexlet@example.com")
	v.SetDefault("bootstrap.admin_password", "qwerty")
	v.SetDefault("bootstrap.seed_file", "")
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("config", "c", "", "path to a JSON or YAML config file")
	fs.String("addr", "0.0.0.0", "listen address")
	fs.Int("port", 8080, "listen port")
	fs.String("db-driver", "postgres", "storage driver: postgres, sqlite or memory")
	fs.String("db-dsn", "", "database connection string")
	fs.String("log-level", "info", "log level: debug, info, warn or error")
	return fs
}

var flagKeys = map[string]string{
	"addr":      "server.addr",
	"port":      "server.port",
	"db-driver": "database.driver",
	"db-dsn":    "database.dsn",
	"log-level": "log.level",
}

// Load parses args (without the program name) and returns the validated config.
func Load(args []string) (*Config, error) {
	fs := newFlagSet("taskmanager")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	path, _ := fs.GetString("config")
	if path == "" {
		path = os.Getenv("CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Database.Driver != "memory" && c.Database.DSN == "" {
		return ErrDSNRequired
	}
	return nil
}
