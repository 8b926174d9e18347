package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig reads config.<env>.yaml (or CONFIG_PATH) and layers the
// environment on top. The flat env names listed in legacyEnvKeys are the
// service's original configuration surface and stay supported.
func LoadConfig() (*Config, error) {
	setDefaults()

	env := strings.ToLower(os.Getenv("APP_ENV"))
	if env == "" {
		env = "development"
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName(fmt.Sprintf("config.%s", env))
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/journal-service")
	}

	viper.SetEnvPrefix("JOURNAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	bindLegacyEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Missing file is fine, env vars carry the config then.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The day-granularity knob is the original surface; the minute field
	// wins when both are set.
	if config.JWT.RefreshExpiryMinutes == 0 {
		config.JWT.RefreshExpiryMinutes = config.Security.RefreshExpiryDays * 24 * 60
	}

	return &config, nil
}

var legacyEnvKeys = map[string]string{
	"jwt.secret":                         "JWT_SECRET",
	"jwt.refresh_expiry_minutes":         "JWT_REFRESH_EXPIRATION",
	"security.account_lock_max_count":    "ACCOUNT_LOCK_MAX_COUNT",
	"security.password_expiry_days":      "PASSWORD_EXPIRY_DAYS",
	"security.refresh_token_expiry_days": "REFRESH_TOKEN_EXPIRY_DAYS",
	"otp.resend_max_count":               "OTP_RESEND_MAX_COUNT",
	"otp.send_max_hours":                 "OTP_SEND_MAX_HOURS",
	"otp.expiry_minutes":                 "OTP_EXPIRY_MINUTES",
	"worker.sentiment_analyzer":          "SENTIMENT_ANALYSIS",
	"amqp.url":                           "AMQP_URL",
	"redis.host":                         "REDIS_HOST",
	"redis.port":                         "REDIS_PORT",
	"redis.password":                     "REDIS_PASSWORD",
}

func bindLegacyEnv() {
	for key, envName := range legacyEnvKeys {
		_ = viper.BindEnv(key, envName)
	}
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "10s")
	viper.SetDefault("server.write_timeout", "10s")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.shutdown_timeout", "15s")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.migrations_path", "")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("amqp.url", "amqp://localhost")
	viper.SetDefault("amqp.exchange", "")
	viper.SetDefault("amqp.routing_key", "entry_queue")
	viper.SetDefault("amqp.queue", "entry_queue")
	viper.SetDefault("amqp.dead_letter_queue", "entry_queue_dlx")
	viper.SetDefault("amqp.prefetch", 30)
	viper.SetDefault("amqp.reconnect_delay", "1s")
	viper.SetDefault("amqp.max_retries", 3)

	viper.SetDefault("kafka.enabled", false)
	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})
	viper.SetDefault("kafka.topic", "auth-events")

	viper.SetDefault("jwt.access_token_ttl", "1h")

	viper.SetDefault("security.account_lock_max_count", 5)
	viper.SetDefault("security.password_expiry_days", 7)
	viper.SetDefault("security.refresh_token_expiry_days", 7)
	viper.SetDefault("security.rotate_refresh_tokens", false)

	viper.SetDefault("otp.digits", 6)
	viper.SetDefault("otp.expiry_minutes", 5)
	viper.SetDefault("otp.resend_max_count", 3)
	viper.SetDefault("otp.send_max_hours", 1)

	viper.SetDefault("session.ttl_seconds", 86400)

	viper.SetDefault("worker.sentiment_analyzer", "sentiment")
	viper.SetDefault("worker.analyzer_timeout", "30s")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.environment", "development")
}
