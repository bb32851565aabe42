package config

const (
	defaultListen   = ":50051"
	defaultUpstream = "http://localhost:11434"
	defaultModel    = "llama3.2"
	defaultTimeout  = 30

	defaultTemperature      = 0.7
	defaultMaxTokens        = 2048
	defaultMaxTokensCeiling = 8192
	defaultTopP             = 0.95

	defaultMaxConcurrent = 8

	defaultClientTarget = "localhost:50051"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			Listen: defaultListen,
		},
		Backend: BackendConfig{
			Upstream: defaultUpstream,
			Model:    defaultModel,
			Timeout:  defaultTimeout,
		},
		Generate: GenerateConfig{
			Temperature:      defaultTemperature,
			MaxTokens:        defaultMaxTokens,
			MaxTokensCeiling: defaultMaxTokensCeiling,
			TopP:             defaultTopP,
		},
		Sessions: SessionsConfig{
			MaxConcurrent: defaultMaxConcurrent,
		},
		Client: ClientConfig{
			Target: defaultClientTarget,
		},
	}
}
