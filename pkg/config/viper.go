package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/spool/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the SPOOL_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (SPOOL_SERVER_LISTEN, SPOOL_BACKEND_MODEL, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: SPOOL_SERVER_LISTEN, SPOOL_BACKEND_TIMEOUT, etc.
	v.SetEnvPrefix("SPOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Server
	v.SetDefault("server.listen", d.Server.Listen)
	v.SetDefault("server.tls_cert", d.Server.TLSCert)
	v.SetDefault("server.tls_key", d.Server.TLSKey)

	// Backend
	v.SetDefault("backend.upstream", d.Backend.Upstream)
	v.SetDefault("backend.model", d.Backend.Model)
	v.SetDefault("backend.timeout", d.Backend.Timeout)

	// Generate
	v.SetDefault("generate.temperature", d.Generate.Temperature)
	v.SetDefault("generate.max_tokens", d.Generate.MaxTokens)
	v.SetDefault("generate.max_tokens_ceiling", d.Generate.MaxTokensCeiling)
	v.SetDefault("generate.top_p", d.Generate.TopP)
	v.SetDefault("generate.presence_penalty", d.Generate.PresencePenalty)
	v.SetDefault("generate.frequency_penalty", d.Generate.FrequencyPenalty)

	// Sessions
	v.SetDefault("sessions.max_concurrent", d.Sessions.MaxConcurrent)

	// Client
	v.SetDefault("client.target", d.Client.Target)
}
