package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API          *APIConfig          `mapstructure:"api"`
	Gin          *GinConfig          `mapstructure:"gin"`
	Postgres     *PostgresConfig     `mapstructure:"postgres"`
	Registration *RegistrationConfig `mapstructure:"registration"`
}

type APIConfig struct {
	Environment        string `mapstructure:"environment"`
	BaseURL            string `mapstructure:"base_url"`
	Port               string `mapstructure:"port"`
	AllowedCORSDomains string `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string `mapstructure:"jwt_signing_key"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
}

// RegistrationConfig carries the event-specific knobs. LaunchTimeRaw is the
// RFC 3339 moment registration opens; DraftBuster invalidates stored drafts
// when the catalog changes in an incompatible way.
type RegistrationConfig struct {
	LaunchTimeRaw string    `mapstructure:"launch_time"`
	LaunchTime    time.Time `mapstructure:"-"`
	CatalogPath   string    `mapstructure:"catalog_path"`
	DraftBuster   string    `mapstructure:"draft_buster"`
}

func Load(configPath string) (*AppConfig, error) {
	viper.SetConfigFile(configPath)
	viper.SetEnvPrefix("REGSVC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	config := &AppConfig{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	launch, err := time.Parse(time.RFC3339, config.Registration.LaunchTimeRaw)
	if err != nil {
		return nil, fmt.Errorf("time.Parse(registration.launch_time) -> %w", err)
	}
	config.Registration.LaunchTime = launch

	viper.OnConfigChange(func(e fsnotify.Event) {
		zap.L().Warn("config file changed, restart required for changes to take effect",
			zap.String("file", e.Name),
		)
	})
	viper.WatchConfig()

	return config, nil
}
