package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort         int    `mapstructure:"APP_PORT"`
	ChatAPIURL      string `mapstructure:"CHAT_API_URL"`
	DatabasePath    string `mapstructure:"DATABASE_PATH"`
	LogLevel        string `mapstructure:"LOG_LEVEL"`
	EnableStreaming bool   `mapstructure:"ENABLE_STREAMING"`
	ShowCitations   bool   `mapstructure:"SHOW_CITATIONS"`
	UseRAGByDefault bool   `mapstructure:"USE_RAG_BY_DEFAULT"`
	ErrorTTLSeconds int    `mapstructure:"ERROR_TTL_SECONDS"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("CHAT_API_URL", "http://localhost:9000/aichattest/api")
	viper.SetDefault("DATABASE_PATH", "/data/aichat.db")
	viper.SetDefault("LOG_LEVEL", "INFO")
	viper.SetDefault("ENABLE_STREAMING", true)
	viper.SetDefault("SHOW_CITATIONS", true)
	viper.SetDefault("USE_RAG_BY_DEFAULT", true)
	viper.SetDefault("ERROR_TTL_SECONDS", 5)

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
