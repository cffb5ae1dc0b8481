package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the machsnap CLI configuration.
type Config struct {
	DatabasePath  string `mapstructure:"database"`
	RetentionDays int    `mapstructure:"retention_days"`
	Pretty        bool   `mapstructure:"pretty"`
}

// Load reads configuration from file and environment.
func Load(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("machsnap")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("/etc/machsnap")
	}

	viper.SetDefault("database", "machsnap.db")
	viper.SetDefault("retention_days", 0)
	viper.SetDefault("pretty", true)

	viper.SetEnvPrefix("MACHSNAP")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
