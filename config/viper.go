package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/duke-git/lancet/v2/slice"
	"github.com/krau/filekit/config/storage"
	"github.com/spf13/viper"
)

type Config struct {
	Log      LogConfig               `toml:"log" mapstructure:"log" json:"log"`
	API      APIConfig               `toml:"api" mapstructure:"api" json:"api"`
	Storages []storage.StorageConfig `toml:"-" mapstructure:"-" json:"storages"`
}

type LogConfig struct {
	Level string `toml:"level" mapstructure:"level" json:"level"`
	// log file path, logs go to stderr only when empty
	File string `toml:"file" mapstructure:"file" json:"file"`
}

type APIConfig struct {
	Enable     bool     `toml:"enable" mapstructure:"enable" json:"enable"`
	Port       int      `toml:"port" mapstructure:"port" json:"port"`
	Token      string   `toml:"token" mapstructure:"token" json:"token"`
	TrustedIPs []string `toml:"trusted_ips" mapstructure:"trusted_ips" json:"trusted_ips"`
	// requests per second per server, 0 disables limiting
	RateLimit float64 `toml:"rate_limit" mapstructure:"rate_limit" json:"rate_limit"`
	RateBurst int     `toml:"rate_burst" mapstructure:"rate_burst" json:"rate_burst"`
	// max multipart body in bytes
	MaxUploadSize int64 `toml:"max_upload_size" mapstructure:"max_upload_size" json:"max_upload_size"`
}

var cfg *Config

func C() *Config {
	return cfg
}

func (c Config) GetStorageByName(name string) storage.StorageConfig {
	for _, storage := range c.Storages {
		if storage.GetName() == name {
			return storage
		}
	}
	return nil
}

func (c Config) GetStorageNames() []string {
	names := make([]string, 0, len(c.Storages))
	for _, storage := range c.Storages {
		names = append(names, storage.GetName())
	}
	return names
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "INFO")

	v.SetDefault("api.enable", false)
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.rate_limit", 20)
	v.SetDefault("api.rate_burst", 40)
	v.SetDefault("api.max_upload_size", 32<<20)

	v.SetDefault("storages", []map[string]any{
		{
			"name":         "default",
			"type":         "local",
			"enable":       true,
			"content_root": "data",
		},
	})
}

// Init loads the config file (written with defaults when none exists and no path was given),
// environment variables prefixed with FILEKIT_ and bound flags.
func Init(ctx context.Context, configFile string) error {
	logger := log.FromContext(ctx)
	v := viper.GetViper()
	v.SetConfigType("toml")
	v.SetEnvPrefix("FILEKIT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/filekit/")
		if err := v.SafeWriteConfigAs("config.toml"); err != nil {
			var exists viper.ConfigFileAlreadyExistsError
			if !errors.As(err, &exists) {
				return fmt.Errorf("error saving default config: %w", err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	loaded, err := load(v)
	if err != nil {
		return err
	}
	cfg = loaded

	logger.Debug("Config loaded", "file", v.ConfigFileUsed(), "storages", cfg.GetStorageNames())
	return nil
}

func load(v *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("error unmarshalling config file: %w", err)
	}

	storagesConfig, err := storage.LoadStorageConfigs(v)
	if err != nil {
		return nil, fmt.Errorf("error loading storage configs: %w", err)
	}
	c.Storages = storagesConfig

	names := c.GetStorageNames()
	if len(slice.Unique(names)) != len(names) {
		return nil, fmt.Errorf("duplicate storage names in %s", strings.Join(names, ", "))
	}
	if len(c.Storages) == 0 {
		return nil, fmt.Errorf("no enabled storage configured")
	}

	if c.API.Enable && c.API.Token == "" {
		return nil, fmt.Errorf("api is enabled but token is not configured, set 'api.token' in the config file")
	}
	if c.API.RateLimit < 0 || c.API.RateBurst < 0 {
		return nil, fmt.Errorf("api.rate_limit and api.rate_burst must not be negative")
	}
	return c, nil
}
