package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort string

	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSslMode     string
	DBLockTimeout time.Duration

	ConflictRetryAttempts int

	AMQPURL      string
	AMQPExchange string

	NotificationRelaySchedule string
	NotificationRelayBatch    int

	SeedCatalogs bool

	TracesExporter string
}

// DSN renders the Postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// LoadConfig reads the configuration from the environment. Variables in
// envFile, when it exists, are loaded first without overriding the environment.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		HTTPPort:                  v.GetString("HTTP_PORT"),
		DBHost:                    v.GetString("DB_HOST"),
		DBPort:                    v.GetString("DB_PORT"),
		DBUser:                    v.GetString("DB_USER"),
		DBPassword:                v.GetString("DB_PASSWORD"),
		DBName:                    v.GetString("DB_NAME"),
		DBSslMode:                 v.GetString("DB_SSLMODE"),
		DBLockTimeout:             v.GetDuration("DB_LOCK_TIMEOUT"),
		ConflictRetryAttempts:     v.GetInt("CONFLICT_RETRY_ATTEMPTS"),
		AMQPURL:                   v.GetString("AMQP_URL"),
		AMQPExchange:              v.GetString("AMQP_EXCHANGE"),
		NotificationRelaySchedule: v.GetString("NOTIFICATION_RELAY_SCHEDULE"),
		NotificationRelayBatch:    v.GetInt("NOTIFICATION_RELAY_BATCH"),
		SeedCatalogs:              v.GetBool("SEED_CATALOGS"),
		TracesExporter:            v.GetString("OTEL_TRACES_EXPORTER"),
	}
	return cfg, cfg.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_LOCK_TIMEOUT", 5*time.Second)
	v.SetDefault("CONFLICT_RETRY_ATTEMPTS", 3)
	v.SetDefault("AMQP_EXCHANGE", "order_ready_for_pickup")
	v.SetDefault("NOTIFICATION_RELAY_SCHEDULE", "*/5 * * * * *")
	v.SetDefault("NOTIFICATION_RELAY_BATCH", 50)
	v.SetDefault("SEED_CATALOGS", true)
	v.SetDefault("OTEL_TRACES_EXPORTER", "none")
}

func (c Config) Validate() error {
	var err error
	if c.DBName == "" {
		err = errors.Join(err, errors.New("DB_NAME is required"))
	}
	if c.DBUser == "" {
		err = errors.Join(err, errors.New("DB_USER is required"))
	}
	if c.DBLockTimeout <= 0 {
		err = errors.Join(err, errors.New("DB_LOCK_TIMEOUT must be positive"))
	}
	if c.ConflictRetryAttempts < 1 {
		err = errors.Join(err, errors.New("CONFLICT_RETRY_ATTEMPTS must be at least 1"))
	}
	if c.NotificationRelayBatch < 1 {
		err = errors.Join(err, errors.New("NOTIFICATION_RELAY_BATCH must be at least 1"))
	}
	switch c.TracesExporter {
	case "none", "stdout":
	default:
		err = errors.Join(err, fmt.Errorf("OTEL_TRACES_EXPORTER must be none or stdout, got %q", c.TracesExporter))
	}
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
