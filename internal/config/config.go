package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level agentscan configuration.
type Config struct {
	Signature   string        `mapstructure:"signature"`
	Excludes    []string      `mapstructure:"excludes"`
	LogsRoot    string        `mapstructure:"logs_root"`
	CallTimeout time.Duration `mapstructure:"call_timeout"`
	Parallelism int           `mapstructure:"parallelism"`
	ActiveCPU   float64       `mapstructure:"active_cpu"`
	ServeAddr   string        `mapstructure:"serve_addr"`
	Window      Window        `mapstructure:"window"`
	Truncate    Truncate      `mapstructure:"truncate"`
}

// Window controls the bounded head+tail parse window for large logs.
type Window struct {
	Threshold int `mapstructure:"threshold"`
	Head      int `mapstructure:"head"`
	Tail      int `mapstructure:"tail"`
}

// Truncate holds the display truncation limits for extracted text.
type Truncate struct {
	Task   int `mapstructure:"task"`
	Status int `mapstructure:"status"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Set defaults.
	v.SetDefault("signature", DefaultSignature)
	v.SetDefault("excludes", DefaultExcludes)
	v.SetDefault("logs_root", DefaultLogsRoot)
	v.SetDefault("call_timeout", DefaultCallTimeout)
	v.SetDefault("parallelism", DefaultParallelism)
	v.SetDefault("active_cpu", DefaultActiveCPU)
	v.SetDefault("serve_addr", DefaultServeAddr)
	v.SetDefault("window.threshold", DefaultWindowThreshold)
	v.SetDefault("window.head", DefaultWindowHead)
	v.SetDefault("window.tail", DefaultWindowTail)
	v.SetDefault("truncate.task", DefaultTaskMaxLen)
	v.SetDefault("truncate.status", DefaultStatusMaxLen)

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		configDir := expandPath(DefaultConfigDir)
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.LogsRoot = expandPath(cfg.LogsRoot)

	return &cfg, nil
}

// DBPath returns the full path to the scan-history SQLite database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
