// Package backend implements the HTTP client for an Ollama-compatible
// text-generation backend.
//
// Each call opens one backend connection against /api/generate, in either
// buffered mode (one complete JSON object) or streaming mode (incremental
// NDJSON chunks). Both modes surface their output through the same pull-based
// Stream so callers share a single consumption model. The client never
// retries: output may already have been forwarded to an external caller,
// which makes transparent retry unsafe. Retry policy, if any, belongs to
// whatever sits in front of the gateway.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/spool/pkg/params"
)

const defaultReadTimeout = 30 * time.Second

// Config holds the backend connection settings.
type Config struct {
	// Upstream is the backend base URL (e.g., "http://localhost:11434").
	Upstream string

	// Model is the backend model identifier sent with every request.
	Model string

	// ReadTimeout bounds the wait for each fragment, not the whole call.
	// Generation duration is open-ended but inter-token latency is not:
	// a session that produces nothing within this bound is stalled and
	// gets torn down. Also used as the connect timeout.
	ReadTimeout time.Duration
}

// Client issues requests against one configured backend.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a backend client. Returns an error if the upstream URL or
// model identifier is unusable.
func New(config Config, logger *zap.Logger) (*Client, error) {
	if !strings.HasPrefix(config.Upstream, "http://") && !strings.HasPrefix(config.Upstream, "https://") {
		return nil, fmt.Errorf("invalid backend upstream URL: %q", config.Upstream)
	}
	if config.Model == "" {
		return nil, errors.New("backend model is required")
	}
	if config.ReadTimeout <= 0 {
		config.ReadTimeout = defaultReadTimeout
	}
	config.Upstream = strings.TrimRight(config.Upstream, "/")

	// No overall client timeout: liveness comes from the per-fragment
	// watchdog in Stream, since total generation time is unbounded.
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: config.ReadTimeout,
		}).DialContext,
		ResponseHeaderTimeout: config.ReadTimeout,
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Transport: transport},
		logger:     logger,
	}, nil
}

// ReadTimeout reports the normalized per-fragment timeout the client
// applies to backend reads.
func (c *Client) ReadTimeout() time.Duration {
	return c.config.ReadTimeout
}

// generateRequest is the Ollama-native /api/generate payload.
type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options params.Options `json:"options"`
}

// Invoke opens one backend call for the given prompt. With streaming true
// the backend emits incremental NDJSON chunks; with false it returns one
// buffered object, which Invoke still surfaces as a single-chunk stream.
//
// A non-success status fails here, before any fragment is yielded. The
// returned Stream owns the connection and releases it on completion, error,
// or Close.
func (c *Client) Invoke(ctx context.Context, prompt string, opts params.Options, streaming bool) (*Stream, error) {
	body, err := json.Marshal(generateRequest{
		Model:   c.config.Model,
		Prompt:  prompt,
		Stream:  streaming,
		Options: opts,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling backend request: %w", err)
	}

	// The cancel func is handed to the Stream so the connection can be
	// torn down from a watchdog without touching the caller's context.
	ctx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Upstream+"/api/generate", bytes.NewReader(body))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("creating backend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("opening backend call",
		zap.String("model", c.config.Model),
		zap.Bool("streaming", streaming),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, classifyTransport(err)
	}

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		cancel()
		return nil, &Error{
			Kind:   KindBadStatus,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s", bytes.TrimSpace(respBody)),
		}
	}

	return newStream(resp.Body, cancel, c.config.ReadTimeout, streaming), nil
}

// classifyTransport maps an http.Client.Do error to a backend Error.
// Caller-initiated cancellation passes through untouched so it is never
// misreported as a backend failure.
func classifyTransport(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Err: err}
	}

	return &Error{Kind: KindUnreachable, Err: err}
}
