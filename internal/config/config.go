package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const configName = "modelhub"

// Config holds the runtime settings of the server and the cli.
type Config struct {
	GrpcPort string
	HttpPort string

	DbDriver string
	DbDsn    string

	RedisAddr     string
	RedisPassword string
	RedisDb       int
	RedisChannel  string
	StatsCacheTTL time.Duration

	KafkaBrokers string
	KafkaTopic   string

	Compression string

	CheckStepInterval   time.Duration
	AttemptTTL          time.Duration
	ReaperSchedule      string
	ConsistencySchedule string

	LogLevel  string
	LogFormat string
}

// LoadConfig reads the config from the environment, an optional .env file and
// an optional modelhub.yml in the working directory or ./config.
func LoadConfig() *Config {
	cfg, err := loadConfig(".", "./config")
	if err != nil {
		logrus.Fatalf("error loading config: %v", err)
	}

	return cfg
}

func loadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configName)
	v.SetConfigType("yml")
	for _, path := range paths {
		v.AddConfigPath(path)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{
		GrpcPort:            v.GetString("GRPC_PORT"),
		HttpPort:            v.GetString("HTTP_PORT"),
		DbDriver:            strings.ToLower(v.GetString("DB_DRIVER")),
		DbDsn:               v.GetString("DB_DSN"),
		RedisAddr:           v.GetString("REDIS_ADDR"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		RedisDb:             v.GetInt("REDIS_DB"),
		RedisChannel:        v.GetString("REDIS_CHANNEL"),
		StatsCacheTTL:       v.GetDuration("STATS_CACHE_TTL"),
		KafkaBrokers:        v.GetString("KAFKA_BROKERS"),
		KafkaTopic:          v.GetString("KAFKA_TOPIC"),
		Compression:         v.GetString("COMPRESSION"),
		CheckStepInterval:   v.GetDuration("CHECK_STEP_INTERVAL"),
		AttemptTTL:          v.GetDuration("ATTEMPT_TTL"),
		ReaperSchedule:      v.GetString("REAPER_SCHEDULE"),
		ConsistencySchedule: v.GetString("CONSISTENCY_SCHEDULE"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		LogFormat:           v.GetString("LOG_FORMAT"),
	}

	if cfg.AttemptTTL <= 0 {
		return nil, fmt.Errorf("ATTEMPT_TTL must be positive, got %s", cfg.AttemptTTL)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GRPC_PORT", "4020")
	v.SetDefault("HTTP_PORT", "4021")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "modelhub.db")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_CHANNEL", "modelhub:events")
	v.SetDefault("STATS_CACHE_TTL", 10*time.Minute)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "modelhub.events")
	v.SetDefault("COMPRESSION", "gzip")
	v.SetDefault("CHECK_STEP_INTERVAL", 300*time.Millisecond)
	v.SetDefault("ATTEMPT_TTL", 30*time.Minute)
	v.SetDefault("REAPER_SCHEDULE", "@every 1m")
	v.SetDefault("CONSISTENCY_SCHEDULE", "@every 5m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// GetDb opens the configured database or exits.
func GetDb(cfg *Config) *gorm.DB {
	db, err := OpenDb(cfg)
	if err != nil {
		logrus.Fatalf("error opening %s database: %v", cfg.DbDriver, err)
	}

	return db
}

func OpenDb(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DbDriver {
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DbDsn)
	case "postgres":
		dialector = postgres.Open(cfg.DbDsn)
	case "mysql":
		dialector = mysql.Open(cfg.DbDsn)
	default:
		return nil, fmt.Errorf("unknown db driver: %s", cfg.DbDriver)
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

// SetupLogging applies the log level and format to the standard logrus logger.
func SetupLogging(cfg *Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("unknown log level %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
