package config

import "time"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	AMQP     AMQPConfig     `mapstructure:"amqp"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Security SecurityConfig `mapstructure:"security"`
	OTP      OTPConfig      `mapstructure:"otp"`
	Session  SessionConfig  `mapstructure:"session"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	DBName         string `mapstructure:"dbname"`
	SSLMode        string `mapstructure:"sslmode"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AMQPConfig struct {
	URL             string        `mapstructure:"url"`
	Exchange        string        `mapstructure:"exchange"`
	RoutingKey      string        `mapstructure:"routing_key"`
	Queue           string        `mapstructure:"queue"`
	DeadLetterQueue string        `mapstructure:"dead_letter_queue"`
	Prefetch        int           `mapstructure:"prefetch"`
	ReconnectDelay  time.Duration `mapstructure:"reconnect_delay"`
	MaxRetries      int           `mapstructure:"max_retries"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type JWTConfig struct {
	Secret               string        `mapstructure:"secret"`
	AccessTokenTTL       time.Duration `mapstructure:"access_token_ttl"`
	RefreshExpiryMinutes int           `mapstructure:"refresh_expiry_minutes"`
}

type SecurityConfig struct {
	AccountLockMaxCount int  `mapstructure:"account_lock_max_count"`
	PasswordExpiryDays  int  `mapstructure:"password_expiry_days"`
	RefreshExpiryDays   int  `mapstructure:"refresh_token_expiry_days"`
	RotateRefreshTokens bool `mapstructure:"rotate_refresh_tokens"`
}

type OTPConfig struct {
	Digits         int `mapstructure:"digits"`
	ExpiryMinutes  int `mapstructure:"expiry_minutes"`
	ResendMaxCount int `mapstructure:"resend_max_count"`
	SendMaxHours   int `mapstructure:"send_max_hours"`
}

type SessionConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

type WorkerConfig struct {
	// SentimentAnalyzer selects the backend: "sentiment" runs the
	// lexicon analyzer in process, anything else goes to the remote one.
	SentimentAnalyzer string        `mapstructure:"sentiment_analyzer"`
	AnalyzerURL       string        `mapstructure:"analyzer_url"`
	AnalyzerTimeout   time.Duration `mapstructure:"analyzer_timeout"`
}

type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Environment string `mapstructure:"environment"`
}
