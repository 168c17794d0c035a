package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"

	"vk-match-bot/internal/constants"
)

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()

	// Set default values
	v.SetDefault("log_level", "info")
	v.SetDefault("VK_API_VERSION", constants.DefaultAPIVersion)
	v.SetDefault("SEARCH_COUNT", constants.DefaultSearchCount)
	v.SetDefault("VK_SEARCH_RPS", constants.DefaultSearchRPS)
	v.SetDefault("STATE_TTL_MINUTES", constants.DefaultStateTTL)
	v.SetDefault("PORT_DB", "5432")

	// Define environment variables
	v.BindEnv("VK_GROUP_TOKEN")
	v.BindEnv("VK_USER_TOKEN")
	v.BindEnv("VK_API_VERSION")
	v.BindEnv("VK_CLIENT_ID")
	v.BindEnv("VK_SEARCH_RPS")
	v.BindEnv("SEARCH_COUNT")
	v.BindEnv("STATE_TTL_MINUTES")
	v.BindEnv("NAME_DB")
	v.BindEnv("USER_DB")
	v.BindEnv("PASSWORD_DB")
	v.BindEnv("HOST_DB")
	v.BindEnv("PORT_DB")

	cfg := &Config{
		LogLevel: v.GetString("log_level"),
		VK: VKConfig{
			GroupToken: strings.TrimSpace(v.GetString("VK_GROUP_TOKEN")),
			UserToken:  strings.TrimSpace(v.GetString("VK_USER_TOKEN")),
			APIVersion: strings.TrimSpace(v.GetString("VK_API_VERSION")),
			ClientID:   strings.TrimSpace(v.GetString("VK_CLIENT_ID")),
		},
		Database: DatabaseConfig{
			Name:     strings.TrimSpace(v.GetString("NAME_DB")),
			User:     strings.TrimSpace(v.GetString("USER_DB")),
			Password: strings.TrimSpace(v.GetString("PASSWORD_DB")),
			Host:     strings.TrimSpace(v.GetString("HOST_DB")),
			Port:     strings.TrimSpace(v.GetString("PORT_DB")),
		},
		Search: SearchConfig{
			Count: v.GetInt("SEARCH_COUNT"),
			RPS:   v.GetInt("VK_SEARCH_RPS"),
		},
		State: StateConfig{
			TTLMinutes: v.GetInt("STATE_TTL_MINUTES"),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.VK.GroupToken == "" {
		return errors.New("VK_GROUP_TOKEN is required")
	}

	// A user token can be acquired interactively at startup, but that needs
	// the OAuth application id.
	if cfg.VK.UserToken == "" && cfg.VK.ClientID == "" {
		return errors.New("either VK_USER_TOKEN or VK_CLIENT_ID is required")
	}

	if cfg.Database.Name == "" {
		return errors.New("NAME_DB is required")
	}
	if cfg.Database.User == "" {
		return errors.New("USER_DB is required")
	}
	if cfg.Database.Password == "" {
		return errors.New("PASSWORD_DB is required")
	}
	if cfg.Database.Host == "" {
		return errors.New("HOST_DB is required")
	}

	if cfg.Search.Count <= 0 {
		return errors.New("SEARCH_COUNT must be positive")
	}
	if cfg.Search.RPS <= 0 {
		return errors.New("VK_SEARCH_RPS must be positive")
	}
	if cfg.State.TTLMinutes <= 0 {
		return errors.New("STATE_TTL_MINUTES must be positive")
	}

	return nil
}
