package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/danieljhkim/aihub/internal/logger"
)

const (
	// EnvPrefix prefixes every environment override (AIHUB_API_KEY, ...).
	EnvPrefix = "AIHUB"

	ConfigName = "config"
	ConfigType = "yaml"

	DefaultBaseURL          = "https://api.aihub.or.kr"
	DefaultDownloadVersion  = "0.5"
	DefaultCacheTTL         = 10 * time.Minute
	DefaultProgressInterval = 3 * time.Second
	DefaultHTTPTimeout      = 60 * time.Second
)

// ErrInvalidSettings indicates a settings value failed validation.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings holds the user-tunable configuration.
type Settings struct {
	// BaseURL is the archive service root (listing, manual and download endpoints hang off it)
	BaseURL string `mapstructure:"base_url"`

	// DownloadVersion selects the download endpoint revision (/down/<version>/...)
	DownloadVersion string `mapstructure:"download_version"`

	// APIKey is sent as the apikey header on download requests
	APIKey string `mapstructure:"api_key"`

	// DownloadDir is where archives are extracted
	DownloadDir string `mapstructure:"download_dir"`

	// CacheTTL bounds how long a fetched listing is reused; 0 disables the cache
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// ProgressInterval is the minimum time between progress redraws
	ProgressInterval time.Duration `mapstructure:"progress_interval"`

	// HTTPTimeout applies to listing, dataset and manual requests
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`

	LogLevel string `mapstructure:"log_level"`
}

// flagKeys maps command-line flag names onto settings keys.
var flagKeys = map[string]string{
	"base-url":  "base_url",
	"api-key":   "api_key",
	"dir":       "download_dir",
	"log-level": "log_level",
}

// Load reads settings from defaults, the config file, the environment and
// flags, in increasing order of precedence. configFile overrides the default
// <root>/config.yaml lookup; a missing default file is not an error.
func Load(paths *Paths, configFile string, flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("download_version", DefaultDownloadVersion)
	v.SetDefault("api_key", "")
	v.SetDefault("download_dir", ".")
	v.SetDefault("cache_ttl", DefaultCacheTTL)
	v.SetDefault("progress_interval", DefaultProgressInterval)
	v.SetDefault("http_timeout", DefaultHTTPTimeout)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else if paths != nil {
		v.SetConfigName(ConfigName)
		v.SetConfigType(ConfigType)
		v.AddConfigPath(paths.Root)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	s.BaseURL = strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the settings for values the client cannot work with.
func (s *Settings) Validate() error {
	u, err := url.Parse(s.BaseURL)
	if err != nil || s.BaseURL == "" || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: base_url %q must be an absolute http(s) URL", ErrInvalidSettings, s.BaseURL)
	}
	if s.DownloadVersion == "" {
		return fmt.Errorf("%w: download_version must not be empty", ErrInvalidSettings)
	}
	if s.DownloadDir == "" {
		return fmt.Errorf("%w: download_dir must not be empty", ErrInvalidSettings)
	}
	if s.CacheTTL < 0 || s.ProgressInterval < 0 || s.HTTPTimeout < 0 {
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidSettings)
	}
	if _, err := logger.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return nil
}
