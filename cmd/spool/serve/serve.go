// Package servecmder provides the serve command for running the gateway.
package servecmder

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/spool/pkg/backend"
	"github.com/papercomputeco/spool/pkg/config"
	"github.com/papercomputeco/spool/pkg/logger"
	"github.com/papercomputeco/spool/pkg/params"
	"github.com/papercomputeco/spool/server"
)

type serveCommander struct {
	listen        string
	tlsCert       string
	tlsKey        string
	upstream      string
	model         string
	timeout       uint
	maxConcurrent int
	debug         bool

	genDefaults params.Defaults
	logger      *zap.Logger
}

var serveFlags = config.FlagSet{
	config.FlagListen:        {Name: "listen", Shorthand: "l", ViperKey: "server.listen", Description: "Address for the gateway to listen on"},
	config.FlagTLSCert:       {Name: "tls-cert", ViperKey: "server.tls_cert", Description: "Path to a PEM TLS certificate (empty for plaintext)"},
	config.FlagTLSKey:        {Name: "tls-key", ViperKey: "server.tls_key", Description: "Path to a PEM TLS private key"},
	config.FlagUpstream:      {Name: "upstream", Shorthand: "u", ViperKey: "backend.upstream", Description: "Backend base URL"},
	config.FlagModel:         {Name: "model", Shorthand: "m", ViperKey: "backend.model", Description: "Backend model identifier"},
	config.FlagTimeout:       {Name: "timeout", ViperKey: "backend.timeout", Description: "Per-fragment backend read timeout in seconds"},
	config.FlagMaxConcurrent: {Name: "max-concurrent", ViperKey: "sessions.max_concurrent", Description: "Maximum concurrent generation sessions"},
}

const serveLongDesc string = `Run the spool gateway server.

The gateway exposes the LLMService gRPC API (unary Generate and
server-streaming GenerateStream) and forwards generation work to an
Ollama-compatible HTTP backend.

Settings follow the usual precedence: CLI flags, then SPOOL_* environment
variables, then config.toml, then built-in defaults.

Examples:
  spool serve
  spool serve --listen :50051 --upstream http://localhost:11434 --model llama3.2
  SPOOL_SESSIONS_MAX_CONCURRENT=2 spool serve`

const serveShortDesc string = "Run the spool gateway server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, serveFlags, []string{
				config.FlagListen,
				config.FlagTLSCert,
				config.FlagTLSKey,
				config.FlagUpstream,
				config.FlagModel,
				config.FlagTimeout,
				config.FlagMaxConcurrent,
			})

			cmder.listen = v.GetString("server.listen")
			cmder.tlsCert = v.GetString("server.tls_cert")
			cmder.tlsKey = v.GetString("server.tls_key")
			cmder.upstream = v.GetString("backend.upstream")
			cmder.model = v.GetString("backend.model")
			cmder.timeout = v.GetUint("backend.timeout")
			cmder.maxConcurrent = v.GetInt("sessions.max_concurrent")

			cmder.genDefaults = params.Defaults{
				Temperature:      v.GetFloat64("generate.temperature"),
				MaxTokens:        v.GetInt("generate.max_tokens"),
				MaxTokensCeiling: v.GetInt("generate.max_tokens_ceiling"),
				TopP:             v.GetFloat64("generate.top_p"),
				PresencePenalty:  v.GetFloat64("generate.presence_penalty"),
				FrequencyPenalty: v.GetFloat64("generate.frequency_penalty"),
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, serveFlags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, serveFlags, config.FlagTLSCert, &cmder.tlsCert)
	config.AddStringFlag(cmd, serveFlags, config.FlagTLSKey, &cmder.tlsKey)
	config.AddStringFlag(cmd, serveFlags, config.FlagUpstream, &cmder.upstream)
	config.AddStringFlag(cmd, serveFlags, config.FlagModel, &cmder.model)
	config.AddUintFlag(cmd, serveFlags, config.FlagTimeout, &cmder.timeout)
	config.AddIntFlag(cmd, serveFlags, config.FlagMaxConcurrent, &cmder.maxConcurrent)

	return cmd
}

func (c *serveCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	srv, err := server.New(server.Config{
		ListenAddr: c.listen,
		TLSCert:    c.tlsCert,
		TLSKey:     c.tlsKey,
		Backend: backend.Config{
			Upstream:    c.upstream,
			Model:       c.model,
			ReadTimeout: time.Duration(c.timeout) * time.Second,
		},
		Generate:      c.genDefaults,
		MaxConcurrent: c.maxConcurrent,
	}, c.logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer srv.Close()

	// Channel to capture errors from the serving goroutine
	errChan := make(chan error, 1)

	go func() {
		if err := srv.Run(); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return nil
	}
}
