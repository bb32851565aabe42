package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent spool configuration stored as config.toml
// in the .spool/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version  int            `toml:"version"`
	Server   ServerConfig   `toml:"server"`
	Backend  BackendConfig  `toml:"backend"`
	Generate GenerateConfig `toml:"generate"`
	Sessions SessionsConfig `toml:"sessions"`
	Client   ClientConfig   `toml:"client"`
}

// ServerConfig holds gRPC gateway server settings.
type ServerConfig struct {
	Listen  string `toml:"listen,omitempty"`
	TLSCert string `toml:"tls_cert,omitempty"`
	TLSKey  string `toml:"tls_key,omitempty"`
}

// BackendConfig holds upstream backend settings.
type BackendConfig struct {
	Upstream string `toml:"upstream,omitempty"`
	Model    string `toml:"model,omitempty"`

	// Timeout is the per-fragment read timeout in seconds.
	Timeout uint `toml:"timeout,omitempty"`
}

// GenerateConfig holds the sampling defaults and bounds applied to requests
// that leave parameters unset.
type GenerateConfig struct {
	Temperature      float64 `toml:"temperature,omitempty"`
	MaxTokens        int     `toml:"max_tokens,omitempty"`
	MaxTokensCeiling int     `toml:"max_tokens_ceiling,omitempty"`
	TopP             float64 `toml:"top_p,omitempty"`
	PresencePenalty  float64 `toml:"presence_penalty,omitempty"`
	FrequencyPenalty float64 `toml:"frequency_penalty,omitempty"`
}

// SessionsConfig holds concurrency settings.
type SessionsConfig struct {
	MaxConcurrent int `toml:"max_concurrent,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to a running
// gateway (e.g. spool chat, spool generate). Target is a gRPC dial target
// (host:port).
type ClientConfig struct {
	Target string `toml:"target,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"server.listen": {
		get: func(c *Config) string { return c.Server.Listen },
		set: func(c *Config, v string) error { c.Server.Listen = v; return nil },
	},
	"server.tls_cert": {
		get: func(c *Config) string { return c.Server.TLSCert },
		set: func(c *Config, v string) error { c.Server.TLSCert = v; return nil },
	},
	"server.tls_key": {
		get: func(c *Config) string { return c.Server.TLSKey },
		set: func(c *Config, v string) error { c.Server.TLSKey = v; return nil },
	},
	"backend.upstream": {
		get: func(c *Config) string { return c.Backend.Upstream },
		set: func(c *Config, v string) error { c.Backend.Upstream = v; return nil },
	},
	"backend.model": {
		get: func(c *Config) string { return c.Backend.Model },
		set: func(c *Config, v string) error { c.Backend.Model = v; return nil },
	},
	"backend.timeout": {
		get: func(c *Config) string {
			if c.Backend.Timeout == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Backend.Timeout), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for backend.timeout: %w", err)
			}
			c.Backend.Timeout = uint(n)
			return nil
		},
	},
	"generate.temperature": {
		get: func(c *Config) string { return formatFloat(c.Generate.Temperature) },
		set: func(c *Config, v string) error { return setFloat(&c.Generate.Temperature, "generate.temperature", v) },
	},
	"generate.max_tokens": {
		get: func(c *Config) string { return formatInt(c.Generate.MaxTokens) },
		set: func(c *Config, v string) error { return setInt(&c.Generate.MaxTokens, "generate.max_tokens", v) },
	},
	"generate.max_tokens_ceiling": {
		get: func(c *Config) string { return formatInt(c.Generate.MaxTokensCeiling) },
		set: func(c *Config, v string) error {
			return setInt(&c.Generate.MaxTokensCeiling, "generate.max_tokens_ceiling", v)
		},
	},
	"generate.top_p": {
		get: func(c *Config) string { return formatFloat(c.Generate.TopP) },
		set: func(c *Config, v string) error { return setFloat(&c.Generate.TopP, "generate.top_p", v) },
	},
	"generate.presence_penalty": {
		get: func(c *Config) string { return formatFloat(c.Generate.PresencePenalty) },
		set: func(c *Config, v string) error {
			return setFloat(&c.Generate.PresencePenalty, "generate.presence_penalty", v)
		},
	},
	"generate.frequency_penalty": {
		get: func(c *Config) string { return formatFloat(c.Generate.FrequencyPenalty) },
		set: func(c *Config, v string) error {
			return setFloat(&c.Generate.FrequencyPenalty, "generate.frequency_penalty", v)
		},
	},
	"sessions.max_concurrent": {
		get: func(c *Config) string { return formatInt(c.Sessions.MaxConcurrent) },
		set: func(c *Config, v string) error {
			return setInt(&c.Sessions.MaxConcurrent, "sessions.max_concurrent", v)
		},
	},
	"client.target": {
		get: func(c *Config) string { return c.Client.Target },
		set: func(c *Config, v string) error { c.Client.Target = v; return nil },
	},
}

func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatInt(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func setFloat(dst *float64, key, v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dst = f
	return nil
}

func setInt(dst *int, key, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dst = n
	return nil
}
