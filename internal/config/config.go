package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Auth         AuthConfig
	DemoActivity DemoActivityConfig
	Notification NotificationConfig
	Logging      LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

type JWTConfig struct {
	Secret     string
	ExpiryDays int
}

type AuthConfig struct {
	// DemoOTP accepts the fixed code 123456 instead of dispatching SMS.
	DemoOTP bool
	OTPTTL  time.Duration
}

type DemoActivityConfig struct {
	Enabled bool
	// A demo like fires between MinDelay and MaxDelay after registration;
	// the greeting message follows MessageDelay later.
	MinDelay     time.Duration
	MaxDelay     time.Duration
	MessageDelay time.Duration
	PollInterval time.Duration
}

type NotificationConfig struct {
	FCMServerKey string
}

type LoggingConfig struct {
	Level string
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = viper.ReadInConfig()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 50)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 10)
	viper.SetDefault("DB_CONN_MAX_LIFETIME_MIN", 60)
	viper.SetDefault("REDIS_PORT", 6379)
	viper.SetDefault("REDIS_POOL_SIZE", 10)
	viper.SetDefault("REDIS_MIN_IDLE_CONNS", 2)
	viper.SetDefault("JWT_EXPIRY_DAYS", 30)
	viper.SetDefault("AUTH_DEMO_OTP", true)
	viper.SetDefault("AUTH_OTP_TTL_MIN", 5)
	viper.SetDefault("DEMO_ACTIVITY_ENABLED", true)
	viper.SetDefault("DEMO_ACTIVITY_MIN_DELAY_MIN", 5)
	viper.SetDefault("DEMO_ACTIVITY_MAX_DELAY_MIN", 10)
	viper.SetDefault("DEMO_ACTIVITY_MESSAGE_DELAY_SEC", 30)
	viper.SetDefault("DEMO_ACTIVITY_POLL_INTERVAL_SEC", 5)
	viper.SetDefault("LOG_LEVEL", "info")

	config := &Config{
		Server: ServerConfig{
			Host:         viper.GetString("SERVER_HOST"),
			Port:         viper.GetInt("SERVER_PORT"),
			Env:          viper.GetString("ENV"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSL_MODE"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME_MIN")) * time.Minute,
		},
		Redis: RedisConfig{
			Host:         viper.GetString("REDIS_HOST"),
			Port:         viper.GetInt("REDIS_PORT"),
			Password:     viper.GetString("REDIS_PASSWORD"),
			DB:           viper.GetInt("REDIS_DB"),
			PoolSize:     viper.GetInt("REDIS_POOL_SIZE"),
			MinIdleConns: viper.GetInt("REDIS_MIN_IDLE_CONNS"),
		},
		JWT: JWTConfig{
			Secret:     viper.GetString("JWT_SECRET"),
			ExpiryDays: viper.GetInt("JWT_EXPIRY_DAYS"),
		},
		Auth: AuthConfig{
			DemoOTP: viper.GetBool("AUTH_DEMO_OTP"),
			OTPTTL:  time.Duration(viper.GetInt("AUTH_OTP_TTL_MIN")) * time.Minute,
		},
		DemoActivity: DemoActivityConfig{
			Enabled:      viper.GetBool("DEMO_ACTIVITY_ENABLED"),
			MinDelay:     time.Duration(viper.GetInt("DEMO_ACTIVITY_MIN_DELAY_MIN")) * time.Minute,
			MaxDelay:     time.Duration(viper.GetInt("DEMO_ACTIVITY_MAX_DELAY_MIN")) * time.Minute,
			MessageDelay: time.Duration(viper.GetInt("DEMO_ACTIVITY_MESSAGE_DELAY_SEC")) * time.Second,
			PollInterval: time.Duration(viper.GetInt("DEMO_ACTIVITY_POLL_INTERVAL_SEC")) * time.Second,
		},
		Notification: NotificationConfig{
			FCMServerKey: viper.GetString("FCM_SERVER_KEY"),
		},
		Logging: LoggingConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	// Validate critical configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.DemoActivity.MinDelay > c.DemoActivity.MaxDelay {
		return fmt.Errorf("demo activity min delay must not exceed max delay")
	}
	return nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
