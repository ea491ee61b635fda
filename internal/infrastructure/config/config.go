package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env           string
	HTTPServer    HTTPServer
	MetricsServer MetricsServer
	Database      Database
	OpenTelemetry OpenTelemetry
	Redis         Redis
}

type HTTPServer struct {
	Address        string
	Port           int
	RequestTimeout time.Duration
	AssetsDir      string
}

type MetricsServer struct {
	Address string
	Port    int
}

type Database struct {
	URL            string
	MaxConns       int
	MigrationsPath string
}

type OpenTelemetry struct {
	Enabled     bool
	AgentHost   string
	AgentPort   string
	ServiceName string
}

type Redis struct {
	Enabled  bool
	Address  string
	Port     int
	Password string
	DB       int
	PoolSize int
	TTL      time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")

	v.SetDefault("http_server.address", "127.0.0.1")
	v.SetDefault("http_server.port", 8000)
	v.SetDefault("http_server.request_timeout", 15*time.Second)
	v.SetDefault("http_server.assets_dir", "public")

	v.SetDefault("metrics_server.address", "127.0.0.1")
	v.SetDefault("metrics_server.port", 8001)

	v.SetDefault("database.url", "sqlite://sqlite.db")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.migrations_path", "")

	v.SetDefault("opentelemetry.agent_host", "http://localhost")
	v.SetDefault("opentelemetry.agent_port", "4317")
	v.SetDefault("opentelemetry.service_name", "blog-post-service")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.ttl", 30*time.Second)
}

// Load reads ./config/config.yaml when present and lets environment variables
// override any key: database.url is DATABASE_URL, opentelemetry.enabled is
// OPENTELEMETRY_ENABLED and so on.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Telemetry export is on by default only for production deployments.
	v.SetDefault("opentelemetry.enabled", v.GetString("env") == "prod")

	config := &Config{
		Env: v.GetString("env"),
		HTTPServer: HTTPServer{
			Address:        v.GetString("http_server.address"),
			Port:           v.GetInt("http_server.port"),
			RequestTimeout: v.GetDuration("http_server.request_timeout"),
			AssetsDir:      v.GetString("http_server.assets_dir"),
		},
		MetricsServer: MetricsServer{
			Address: v.GetString("metrics_server.address"),
			Port:    v.GetInt("metrics_server.port"),
		},
		Database: Database{
			URL:            v.GetString("database.url"),
			MaxConns:       v.GetInt("database.max_conns"),
			MigrationsPath: v.GetString("database.migrations_path"),
		},
		OpenTelemetry: OpenTelemetry{
			Enabled:     v.GetBool("opentelemetry.enabled"),
			AgentHost:   v.GetString("opentelemetry.agent_host"),
			AgentPort:   v.GetString("opentelemetry.agent_port"),
			ServiceName: v.GetString("opentelemetry.service_name"),
		},
		Redis: Redis{
			Enabled:  v.GetBool("redis.enabled"),
			Address:  v.GetString("redis.address"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			PoolSize: v.GetInt("redis.pool_size"),
			TTL:      v.GetDuration("redis.ttl"),
		},
	}

	if config.HTTPServer.RequestTimeout <= 0 {
		return nil, fmt.Errorf("http_server.request_timeout must be positive, got %s", config.HTTPServer.RequestTimeout)
	}

	return config, nil
}

func MustLoad() *Config {
	config, err := Load()
	if err != nil {
		log.Printf("Error loading config: %s", err)
		os.Exit(1)
	}
	return config
}
