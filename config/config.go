package config

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/gcottom/go-zaplog"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

const (
	DefaultBaseURL            = "https://youtube-media-downloader.p.rapidapi.com"
	DefaultAPIHost            = "youtube-media-downloader.p.rapidapi.com"
	DefaultDetailsPath        = "/v2/video/details"
	DefaultFormatsPath        = "/v2/video/formats"
	DefaultPrimaryTimeoutMs   = 10000
	DefaultSecondaryTimeoutMs = 15000
	DefaultLocalPort          = 8888
	DefaultConfigPath         = "./config/config.yaml"
)

const (
	EnvAPIKey             = "RAPIDAPI_KEY"
	EnvAPIKeySSMParameter = "RAPIDAPI_KEY_SSM_PARAMETER"
	EnvAPIHost            = "RAPIDAPI_HOST"
	EnvBaseURL            = "RAPIDAPI_BASE_URL"
	EnvValidateID         = "VALIDATE_VIDEO_ID"
	EnvTryAlternative     = "TRY_ALTERNATIVE_ENDPOINT"
	EnvEnableFallback     = "ENABLE_FALLBACK_FORMATS"
	EnvAllowPost          = "ALLOW_POST"
	EnvPrimaryTimeoutMs   = "PRIMARY_TIMEOUT_MS"
	EnvSecondaryTimeoutMs = "SECONDARY_TIMEOUT_MS"
)

type Config struct {
	APIKey                    string `yaml:"rapidapi_key"`
	APIKeySSMParameter        string `yaml:"rapidapi_key_ssm_parameter"`
	APIHost                   string `yaml:"rapidapi_host"`
	BaseURL                   string `yaml:"base_url"`
	DetailsPath               string `yaml:"details_path"`
	FormatsPath               string `yaml:"formats_path"`
	ValidateIDFormat          bool   `yaml:"validate_id_format"`
	TryAlternativeEndpoint    bool   `yaml:"try_alternative_endpoint"`
	EnableFallbackDescriptors bool   `yaml:"enable_fallback_descriptors"`
	AllowPost                 bool   `yaml:"allow_post"`
	PrimaryTimeoutMs          int    `yaml:"primary_timeout_ms"`
	SecondaryTimeoutMs        int    `yaml:"secondary_timeout_ms"`
	LocalPort                 int    `yaml:"local_port"`
}

// ParameterStore reads a secret by name. Implemented by service/aws/ssm.
type ParameterStore interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// Default is the strictest variant: validated ids, alternative endpoint and
// fallback descriptors all on.
func Default() *Config {
	return &Config{
		APIHost:                   DefaultAPIHost,
		BaseURL:                   DefaultBaseURL,
		DetailsPath:               DefaultDetailsPath,
		FormatsPath:               DefaultFormatsPath,
		ValidateIDFormat:          true,
		TryAlternativeEndpoint:    true,
		EnableFallbackDescriptors: true,
		AllowPost:                 true,
		PrimaryTimeoutMs:          DefaultPrimaryTimeoutMs,
		SecondaryTimeoutMs:        DefaultSecondaryTimeoutMs,
		LocalPort:                 DefaultLocalPort,
	}
}

func LoadConfigFromEnv() *Config {
	cfg := Default()
	applyEnv(cfg)
	return cfg
}

// LoadConfigFromFile decodes YAML over the defaults, then applies env
// overrides so the key never has to live in the file.
func LoadConfigFromFile(fs afero.Fs, path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}
	file, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := Default()
	dec := yaml.NewDecoder(file)
	if err = dec.Decode(config); err != nil {
		return nil, err
	}
	applyEnv(config)
	return config, nil
}

// ResolveAPIKey fills an empty key from the parameter store when a parameter
// name is configured. Failures are logged and the key stays empty.
func ResolveAPIKey(ctx context.Context, cfg *Config, store ParameterStore) {
	if cfg.APIKey != "" || cfg.APIKeySSMParameter == "" || store == nil {
		return
	}
	zaplog.InfoC(ctx, "loading api key from parameter store", zap.String("parameter", cfg.APIKeySSMParameter))
	key, err := store.GetParameter(ctx, cfg.APIKeySSMParameter)
	if err != nil {
		zaplog.ErrorC(ctx, "failed to load api key from parameter store", zap.String("parameter", cfg.APIKeySSMParameter), zap.Error(err))
		return
	}
	cfg.APIKey = key
}

func (c *Config) PrimaryTimeout() time.Duration {
	return time.Duration(c.PrimaryTimeoutMs) * time.Millisecond
}

func (c *Config) SecondaryTimeout() time.Duration {
	return time.Duration(c.SecondaryTimeoutMs) * time.Millisecond
}

func (c *Config) AllowedMethods() string {
	if c.AllowPost {
		return "GET, POST, OPTIONS"
	}
	return "GET, OPTIONS"
}

func applyEnv(cfg *Config) {
	envString(EnvAPIKey, &cfg.APIKey)
	envString(EnvAPIKeySSMParameter, &cfg.APIKeySSMParameter)
	envString(EnvAPIHost, &cfg.APIHost)
	envString(EnvBaseURL, &cfg.BaseURL)
	envBool(EnvValidateID, &cfg.ValidateIDFormat)
	envBool(EnvTryAlternative, &cfg.TryAlternativeEndpoint)
	envBool(EnvEnableFallback, &cfg.EnableFallbackDescriptors)
	envBool(EnvAllowPost, &cfg.AllowPost)
	envInt(EnvPrimaryTimeoutMs, &cfg.PrimaryTimeoutMs)
	envInt(EnvSecondaryTimeoutMs, &cfg.SecondaryTimeoutMs)
}

func envString(name string, dst *string) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*dst = v
	}
}

// unparsable values keep the current setting
func envBool(name string, dst *bool) {
	if v, ok := os.LookupEnv(name); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func envInt(name string, dst *int) {
	if v, ok := os.LookupEnv(name); ok {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			*dst = i
		}
	}
}
