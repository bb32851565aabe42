package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is the lifetime of one generation request, from admission to
// backend-connection teardown. It holds one governor permit until End.
type Session struct {
	ID        string
	Streaming bool

	governor *Governor
	started  time.Time
	seq      int64
	endOnce  sync.Once
}

func newSession(g *Governor, streaming bool) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Streaming: streaming,
		governor:  g,
		started:   time.Now(),
	}
}

// NextSeq returns the sequence position of the next chunk, starting at
// zero. Chunks within a session are produced by a single goroutine.
func (s *Session) NextSeq() int64 {
	n := s.seq
	s.seq++
	return n
}

// End releases the session's permit. Idempotent: every exit path of a
// session calls End, and the permit is released exactly once.
func (s *Session) End() {
	s.endOnce.Do(func() {
		s.governor.release()
		s.governor.logger.Debug("session ended",
			zap.String("session_id", s.ID),
			zap.Duration("duration", time.Since(s.started)),
			zap.Int64("chunks", s.seq),
			zap.Int("in_flight", s.governor.InFlight()),
		)
	})
}
