// Package session tracks in-flight generation work and enforces the
// configured concurrency ceiling.
//
// The permit counter is the only state shared across sessions. Excess
// requests are never queued: admission either succeeds immediately or fails
// with ErrLimitReached, leaving queueing policy to whatever sits in front
// of the service.
package session

import (
	"errors"

	"go.uber.org/zap"
)

const defaultMaxConcurrent = 8

// ErrLimitReached is returned by Acquire when the concurrency ceiling is
// already fully occupied.
var ErrLimitReached = errors.New("session concurrency limit reached")

// Governor admits sessions against a fixed number of permits.
type Governor struct {
	permits chan struct{}
	logger  *zap.Logger
}

// NewGovernor creates a governor with the given ceiling. A non-positive
// ceiling falls back to the default.
func NewGovernor(maxConcurrent int, logger *zap.Logger) *Governor {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Governor{
		permits: make(chan struct{}, maxConcurrent),
		logger:  logger,
	}
}

// Acquire admits a new session or fails fast with ErrLimitReached. It
// never blocks waiting for capacity.
func (g *Governor) Acquire(streaming bool) (*Session, error) {
	select {
	case g.permits <- struct{}{}:
	default:
		g.logger.Warn("rejecting session, concurrency ceiling reached",
			zap.Int("ceiling", cap(g.permits)),
		)
		return nil, ErrLimitReached
	}

	s := newSession(g, streaming)
	g.logger.Debug("session admitted",
		zap.String("session_id", s.ID),
		zap.Bool("streaming", streaming),
		zap.Int("in_flight", len(g.permits)),
	)
	return s, nil
}

// InFlight reports the number of sessions currently holding a permit.
func (g *Governor) InFlight() int { return len(g.permits) }

// Capacity reports the concurrency ceiling.
func (g *Governor) Capacity() int { return cap(g.permits) }

func (g *Governor) release() {
	<-g.permits
}
