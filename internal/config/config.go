package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/sevaqueue/seva-api/internal/model"
)

type Config struct {
	Server      ServerConfig             `mapstructure:"server"`
	Database    DatabaseConfig           `mapstructure:"database"`
	Redis       RedisConfig              `mapstructure:"redis"`
	JWT         JWTConfig                `mapstructure:"jwt"`
	SMTP        SMTPConfig               `mapstructure:"smtp"`
	Booking     BookingConfig            `mapstructure:"booking"`
	Departments []model.DepartmentConfig `mapstructure:"departments"`
}

type ServerConfig struct {
	Port           int     `mapstructure:"port"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	URL          string `mapstructure:"url"`
	MaxRetries   int    `mapstructure:"max_retries"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type BookingConfig struct {
	// Timezone all slot arithmetic and calendar-day comparison runs in.
	Timezone              string `mapstructure:"timezone"`
	OTPTTLMinutes         int    `mapstructure:"otp_ttl_minutes"`
	ReminderWindowMinutes int    `mapstructure:"reminder_window_minutes"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.timeout_seconds", 30)
	viper.SetDefault("server.rate_limit_rps", 50)
	viper.SetDefault("server.rate_limit_burst", 100)
	viper.SetDefault("booking.timezone", "Asia/Kolkata")
	viper.SetDefault("booking.otp_ttl_minutes", 5)
	viper.SetDefault("booking.reminder_window_minutes", 15)
	viper.SetDefault("jwt.expiry_hours", 12)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
