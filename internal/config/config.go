/**
 * @description
 * This package handles the configuration management for the service. It
 * uses the Viper library to read configuration from environment variables,
 * providing a centralized and straightforward way to manage settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the instruction-service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort                 string `mapstructure:"SERVER_PORT"`
	RedisURL                   string `mapstructure:"REDIS_URL"`
	RedisRateLimitPrefix       string `mapstructure:"REDIS_RATE_LIMIT_PREFIX"`
	EvaluateRateLimitPerMinute int    `mapstructure:"EVALUATE_RATE_LIMIT_PER_MINUTE"`
	RabbitMQURL                string `mapstructure:"RABBITMQ_URL"`
	InstructionQueue           string `mapstructure:"INSTRUCTION_QUEUE"`
	OutcomeExchange            string `mapstructure:"OUTCOME_EXCHANGE"`
	OutcomeRoutingKey          string `mapstructure:"OUTCOME_ROUTING_KEY"`
}

// LoadConfig reads configuration from environment variables and an
// optional .env file at the given path.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8084")
	viper.SetDefault("REDIS_RATE_LIMIT_PREFIX", "ledgerline:rate_limit")
	viper.SetDefault("EVALUATE_RATE_LIMIT_PER_MINUTE", 120)
	viper.SetDefault("INSTRUCTION_QUEUE", "instruction_service.evaluation_requests")
	viper.SetDefault("OUTCOME_EXCHANGE", "instruction.events")
	viper.SetDefault("OUTCOME_ROUTING_KEY", "instruction.outcome")

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("REDIS_URL", "REDIS_URL", "INSTRUCTION_REDIS_URL")
	_ = viper.BindEnv("REDIS_RATE_LIMIT_PREFIX")
	_ = viper.BindEnv("EVALUATE_RATE_LIMIT_PER_MINUTE")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("INSTRUCTION_QUEUE")
	_ = viper.BindEnv("OUTCOME_EXCHANGE")
	_ = viper.BindEnv("OUTCOME_ROUTING_KEY")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		// If the config file is not found, we can ignore the error.
		// For other errors, we should return them.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
		err = nil
	}

	// Unmarshal the configuration into the Config struct.
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}
	config.RedisURL = strings.TrimSpace(config.RedisURL)
	config.RedisRateLimitPrefix = strings.TrimSpace(config.RedisRateLimitPrefix)
	if config.RedisRateLimitPrefix == "" {
		config.RedisRateLimitPrefix = "ledgerline:rate_limit"
	}
	if config.EvaluateRateLimitPerMinute < 0 {
		log.Printf("level=warn component=config msg=\"negative rate limit configured; disabling limiter\" limit=%d", config.EvaluateRateLimitPerMinute)
		config.EvaluateRateLimitPerMinute = 0
	}

	return
}
