package config

import (
	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	PostgresURL       string `mapstructure:"POSTGRES_URL"`
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	ServerPort        string `mapstructure:"SERVER_PORT"`
	MaxProducts       int    `mapstructure:"MAX_PRODUCTS"`
	MaxConcurrent     int    `mapstructure:"MAX_CONCURRENT"`
	MinContentLength  int    `mapstructure:"MIN_CONTENT_LENGTH"`
	DeduplicationDays int    `mapstructure:"DEDUPLICATION_DAYS"`
	OutputFile        string `mapstructure:"OUTPUT_FILE"`
}

// Load reads configuration from file or environment variables.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// Attempt to read the .env file, but don't fail if it's not present.
	// This allows configuration purely through environment variables in production
	_ = viper.ReadInConfig()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("MAX_PRODUCTS", 100)
	viper.SetDefault("MAX_CONCURRENT", 5)
	viper.SetDefault("MIN_CONTENT_LENGTH", 5000)
	viper.SetDefault("DEDUPLICATION_DAYS", 2)
	viper.SetDefault("OUTPUT_FILE", "result.json")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
