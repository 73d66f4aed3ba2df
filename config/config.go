package config

import (
	"recruiter/internal/logger"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort    int
	PublicBaseURL string

	DatabaseDbPath       string
	DatabaseCacheAddress string
	DatabaseCachePort    int

	SMTPHost string
	SMTPPort int
	SMTPFrom string
	SMTPUser string
	SMTPPass string

	AnthropicAPIKey string
	AnthropicModel  string

	SweepWorkers       int
	PassTimeoutSeconds int
}

func InitConfig() (Config, error) {
	log := logger.New("config").Function("InitConfig")

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	viper.SetDefault("DATABASE_DB_PATH", "data/recruiter.db")
	viper.SetDefault("DATABASE_CACHE_ADDRESS", "localhost")
	viper.SetDefault("DATABASE_CACHE_PORT", 6379)
	viper.SetDefault("SMTP_HOST", "localhost")
	viper.SetDefault("SMTP_PORT", 25)
	viper.SetDefault("SMTP_FROM", "recruitment@example.com")
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASS", "")
	viper.SetDefault("ANTHROPIC_API_KEY", "")
	viper.SetDefault("ANTHROPIC_MODEL", "")
	viper.SetDefault("SWEEP_WORKERS", 4)
	viper.SetDefault("PASS_TIMEOUT_SECONDS", 30)

	viper.AutomaticEnv()

	config := Config{
		ServerPort:           viper.GetInt("SERVER_PORT"),
		PublicBaseURL:        viper.GetString("PUBLIC_BASE_URL"),
		DatabaseDbPath:       viper.GetString("DATABASE_DB_PATH"),
		DatabaseCacheAddress: viper.GetString("DATABASE_CACHE_ADDRESS"),
		DatabaseCachePort:    viper.GetInt("DATABASE_CACHE_PORT"),
		SMTPHost:             viper.GetString("SMTP_HOST"),
		SMTPPort:             viper.GetInt("SMTP_PORT"),
		SMTPFrom:             viper.GetString("SMTP_FROM"),
		SMTPUser:             viper.GetString("SMTP_USER"),
		SMTPPass:             viper.GetString("SMTP_PASS"),
		AnthropicAPIKey:      viper.GetString("ANTHROPIC_API_KEY"),
		AnthropicModel:       viper.GetString("ANTHROPIC_MODEL"),
		SweepWorkers:         viper.GetInt("SWEEP_WORKERS"),
		PassTimeoutSeconds:   viper.GetInt("PASS_TIMEOUT_SECONDS"),
	}

	if config.DatabaseDbPath == "" {
		return Config{}, log.ErrMsg("database path is empty")
	}

	log.Info("Configuration loaded", "port", config.ServerPort)
	return config, nil
}
