// Package server implements the gRPC text-generation gateway.
//
// The gateway bridges a unary and a server-streaming RPC onto an
// Ollama-compatible HTTP backend. Each accepted call runs as an independent
// session: the parameter mapper validates the request, the governor admits
// it against the concurrency ceiling, and the backend client opens one
// upstream connection whose output is forwarded until completion, error, or
// caller cancellation.
package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/papercomputeco/spool/llmpb"
	"github.com/papercomputeco/spool/pkg/backend"
	"github.com/papercomputeco/spool/pkg/params"
	"github.com/papercomputeco/spool/server/session"
)

// Server is the text-generation gateway.
type Server struct {
	llmpb.UnimplementedLLMServiceServer

	config      Config
	backend     *backend.Client
	governor    *session.Governor
	defaults    params.Defaults
	sendTimeout time.Duration
	logger      *zap.Logger
	grpc        *grpc.Server
}

// New creates a gateway server. Returns an error if the backend
// configuration or TLS material is unusable.
func New(config Config, logger *zap.Logger) (*Server, error) {
	client, err := backend.New(config.Backend, logger)
	if err != nil {
		return nil, fmt.Errorf("could not create backend client: %w", err)
	}

	defaults := config.Generate
	if defaults == (params.Defaults{}) {
		defaults = params.NewDefaults()
	}

	var opts []grpc.ServerOption
	if config.TLSCert != "" || config.TLSKey != "" {
		creds, err := credentials.NewServerTLSFromFile(config.TLSCert, config.TLSKey)
		if err != nil {
			return nil, fmt.Errorf("could not load TLS credentials: %w", err)
		}
		opts = append(opts, grpc.Creds(creds))
	}

	s := &Server{
		config:   config,
		backend:  client,
		governor: session.NewGovernor(config.MaxConcurrent, logger),
		defaults: defaults,
		// Outbound writes get the same liveness bound as backend reads.
		sendTimeout: client.ReadTimeout(),
		logger:      logger,
		grpc:        grpc.NewServer(opts...),
	}
	llmpb.RegisterLLMServiceServer(s.grpc, s)

	return s, nil
}

// Run starts the gateway on the configured listening address.
func (s *Server) Run() error {
	lis, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w", s.config.ListenAddr, err)
	}
	return s.RunWithListener(lis)
}

// RunWithListener starts the gateway using the provided listener.
func (s *Server) RunWithListener(lis net.Listener) error {
	s.logger.Info("starting gateway server",
		zap.String("listen", lis.Addr().String()),
		zap.String("upstream", s.config.Backend.Upstream),
		zap.String("model", s.config.Backend.Model),
		zap.Int("max_concurrent", s.governor.Capacity()),
	)

	// Advisory model check; the gateway serves regardless of the outcome.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.backend.CheckModel(ctx)

	return s.grpc.Serve(lis)
}

// Close gracefully stops the gateway, letting in-flight sessions finish.
func (s *Server) Close() error {
	s.grpc.GracefulStop()
	return nil
}
