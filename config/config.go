package config

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL         string `envconfig:"DATABASE_URL" required:"true"`
	Port                string `envconfig:"STOREFRONT_PORT" default:":8080"`
	LogLevel            string `envconfig:"LOG_LEVEL" default:"info"`
	ArtifactDir         string `envconfig:"ARTIFACT_DIR" default:"./artifacts"`
	RequirePaymentProof bool   `envconfig:"REQUIRE_PAYMENT_PROOF" default:"true"`
}

var (
	config Config
	once   sync.Once
)

func LoadConfig(logger *logrus.Logger) *Config {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			logger.Warnf("Error loading .env file (but continuing): %v", err)
		} else if err == nil {
			logger.Info("Loaded configuration from .env file")
		}

		if err = envconfig.Process("", &config); err != nil {
			logger.Fatalf("Failed to process configuration from environment variables: %v", err)
		}

		logger.Infof("Configuration loaded: Port=%s, LogLevel=%s, RequirePaymentProof=%t",
			config.Port, config.LogLevel, config.RequirePaymentProof)
		if config.DatabaseURL == "" {
			logger.Fatal("Configuration error: DATABASE_URL is not set")
		}
	})
	return &config
}
