// Package config loads and persists the tracktoast settings file.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

type Config struct {
	// UpdateURL is the page polled for a "Version: x.y.z" token.
	UpdateURL string `mapstructure:"update_url"`
	// ReleaseURL is the base URL binaries are downloaded from.
	ReleaseURL   string `mapstructure:"release_url"`
	CheckOnStart bool   `mapstructure:"check_on_start"`

	// Toast size in logical units; placement is derived from the monitor
	// configuration at show time.
	ToastWidth  float64 `mapstructure:"toast_width"`
	ToastHeight float64 `mapstructure:"toast_height"`

	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"`
	LogFile       string `mapstructure:"log_file"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb"`
	LogMaxBackups int    `mapstructure:"log_max_backups"`
}

func Default() *Config {
	return &Config{
		UpdateURL:     "https://tracktoast.app/latest",
		ReleaseURL:    "https://tracktoast.app/releases",
		CheckOnStart:  true,
		ToastWidth:    300,
		ToastHeight:   75,
		LogLevel:      "info",
		LogFormat:     "text",
		LogMaxSizeMB:  10,
		LogMaxBackups: 3,
	}
}

func Load(cfgFile string) (*Config, error) {
	cfg := Default()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("tracktoast")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(configDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("TRACKTOAST")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func Save(cfg *Config) error {
	return SaveTo(cfg, "")
}

func SaveTo(cfg *Config, cfgFile string) error {
	viper.Set("update_url", cfg.UpdateURL)
	viper.Set("release_url", cfg.ReleaseURL)
	viper.Set("check_on_start", cfg.CheckOnStart)
	viper.Set("toast_width", cfg.ToastWidth)
	viper.Set("toast_height", cfg.ToastHeight)
	viper.Set("log_level", cfg.LogLevel)
	viper.Set("log_format", cfg.LogFormat)
	viper.Set("log_file", cfg.LogFile)
	viper.Set("log_max_size_mb", cfg.LogMaxSizeMB)
	viper.Set("log_max_backups", cfg.LogMaxBackups)

	cfgPath := Path(cfgFile)
	if dir := filepath.Dir(cfgPath); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}

	return viper.WriteConfigAs(cfgPath)
}

// Path resolves where SaveTo writes: cfgFile when given, otherwise the
// settings file in the per-user config dir.
func Path(cfgFile string) string {
	if cfgFile != "" {
		return cfgFile
	}
	return filepath.Join(configDir(), "tracktoast.yaml")
}

func configDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Tracktoast")
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Tracktoast")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "tracktoast")
	}
}
