package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the runtime configuration for the server
type Config struct {
	Port              string `mapstructure:"port"`
	AWSRegion         string `mapstructure:"aws_region"`
	ParticipantsTable string `mapstructure:"participants_table"`
	PairingsTable     string `mapstructure:"pairings_table"`
	MentorLoadTable   string `mapstructure:"mentor_load_table"`
	MentorCapacity    int    `mapstructure:"mentor_capacity"`
	GamesWeight       int    `mapstructure:"games_weight"`
	JWTSecret         string `mapstructure:"jwt_secret"`
	Debug             bool   `mapstructure:"debug"`
	LogJSON           bool   `mapstructure:"log_json"`
}

// Load reads configuration from an optional config file and PADRINHO_* env vars
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("participants_table", "Participants")
	v.SetDefault("pairings_table", "Pairings")
	v.SetDefault("mentor_load_table", "MentorLoad")
	v.SetDefault("mentor_capacity", 2)
	v.SetDefault("games_weight", 1)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("debug", false)
	v.SetDefault("log_json", false)

	v.SetEnvPrefix("PADRINHO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt_secret must be set")
	}
	if cfg.MentorCapacity < 1 {
		return nil, fmt.Errorf("mentor_capacity must be at least 1, got %d", cfg.MentorCapacity)
	}
	// The games attribute weighs 1 or 2 depending on deployment
	if cfg.GamesWeight < 1 {
		cfg.GamesWeight = 1
	}
	if cfg.GamesWeight > 2 {
		cfg.GamesWeight = 2
	}

	return &cfg, nil
}
