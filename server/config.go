package server

import (
	"github.com/papercomputeco/spool/pkg/backend"
	"github.com/papercomputeco/spool/pkg/params"
)

// Config is the gateway server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":50051")
	ListenAddr string

	// TLSCert and TLSKey are paths to a PEM certificate and key.
	// Both empty means the server speaks plaintext.
	TLSCert string
	TLSKey  string

	// Backend holds the upstream connection settings.
	Backend backend.Config

	// Generate holds the defaults and bounds applied to request parameters.
	Generate params.Defaults

	// MaxConcurrent is the session concurrency ceiling.
	MaxConcurrent int
}
