package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultAPIBaseURL   = "https://open.api.nexon.com"
	DefaultAPIKeyHeader = "x-nxopen-api-key"
	DefaultPort         = "8080"

	DefaultDiscordAPIURL     = "https://discord.com/api/v10"
	DefaultDiscordGatewayURL = "wss://gateway.discord.gg/?v=10&encoding=json"
)

var validate = validator.New()

// Settings is the immutable process configuration. It is built once by
// LoadSettings and handed to constructors; nothing reads env vars after that.
type Settings struct {
	DiscordToken string `validate:"required"`
	APIKey       string `validate:"required"`

	APIBaseURL   string        `validate:"required,url"`
	APIKeyHeader string        `validate:"required"`
	HTTPTimeout  time.Duration `validate:"gt=0"`

	DiscordAPIURL     string `validate:"required,url"`
	DiscordGatewayURL string `validate:"required,url"`
	CommandPrefix     string `validate:"required"`

	AliasesFile string
	Aliases     Aliases `validate:"-"`

	Port               string `validate:"required,numeric"`
	CORSAllowedOrigins []string
	Production         bool
	LogLevel           string

	Features FeatureFlags
}

// LoadSettings reads .env (if present) and the process environment, then
// validates the result. Missing secrets are reported as an error so the
// caller can fail fast.
func LoadSettings() (Settings, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("discord_token", "")
	v.SetDefault("api_key", "")
	v.SetDefault("tfd_api_base_url", DefaultAPIBaseURL)
	v.SetDefault("tfd_api_key_header", DefaultAPIKeyHeader)
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("discord_api_url", DefaultDiscordAPIURL)
	v.SetDefault("discord_gateway_url", DefaultDiscordGatewayURL)
	v.SetDefault("command_prefix", "!")
	v.SetDefault("aliases_file", "")
	v.SetDefault("port", DefaultPort)
	v.SetDefault("cors_allowed_origins", "")
	v.SetDefault("go_env", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("gateway_compress", "")
	v.SetDefault("enable_http_api", "")
	v.SetDefault("concurrent_fetch", "")
	v.AutomaticEnv()

	return settingsFrom(v)
}

func settingsFrom(v *viper.Viper) (Settings, error) {
	flags := defaultFeatureFlags()
	flags.GatewayCompress = flagValue(v.GetString("gateway_compress"), flags.GatewayCompress)
	flags.EnableHTTPAPI = flagValue(v.GetString("enable_http_api"), flags.EnableHTTPAPI)
	flags.ConcurrentFetch = flagValue(v.GetString("concurrent_fetch"), flags.ConcurrentFetch)

	timeout := v.GetInt("http_timeout_seconds")
	if timeout <= 0 {
		timeout = 30
	}

	s := Settings{
		DiscordToken:       strings.TrimSpace(v.GetString("discord_token")),
		APIKey:             strings.TrimSpace(v.GetString("api_key")),
		APIBaseURL:         strings.TrimRight(strings.TrimSpace(v.GetString("tfd_api_base_url")), "/"),
		APIKeyHeader:       strings.TrimSpace(v.GetString("tfd_api_key_header")),
		HTTPTimeout:        time.Duration(timeout) * time.Second,
		DiscordAPIURL:      strings.TrimRight(strings.TrimSpace(v.GetString("discord_api_url")), "/"),
		DiscordGatewayURL:  strings.TrimSpace(v.GetString("discord_gateway_url")),
		CommandPrefix:      v.GetString("command_prefix"),
		AliasesFile:        strings.TrimSpace(v.GetString("aliases_file")),
		Port:               strings.TrimSpace(v.GetString("port")),
		CORSAllowedOrigins: splitAndTrim(v.GetString("cors_allowed_origins")),
		Production:         strings.EqualFold(strings.TrimSpace(v.GetString("go_env")), "production"),
		LogLevel:           v.GetString("log_level"),
		Features:           flags,
	}

	if err := validate.Struct(s); err != nil {
		return Settings{}, fmt.Errorf("invalid settings: %w", err)
	}

	aliases, err := LoadAliases(s.AliasesFile)
	if err != nil {
		return Settings{}, err
	}
	s.Aliases = aliases
	return s, nil
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
