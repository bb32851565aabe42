package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/papercomputeco/spool/pkg/ndjson"
)

// Chunk is one logical unit of generated text.
type Chunk struct {
	Text string
	Done bool
}

// generateChunk is the wire shape of one /api/generate NDJSON line.
type generateChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Stream re-frames a backend response body into Chunks. It is consumed
// exactly once and is not restartable; re-running a session requires a new
// Invoke call.
//
// At most one chunk carries Done, and it is always the last one: once the
// done marker is seen the connection is released and any further raw data
// is discarded.
type Stream struct {
	body     io.ReadCloser
	framer   *ndjson.Framer
	cancel   context.CancelFunc
	timeout  time.Duration
	buffered bool

	timedOut  atomic.Bool
	closeOnce sync.Once
	finished  bool
	err       error
}

func newStream(body io.ReadCloser, cancel context.CancelFunc, timeout time.Duration, streaming bool) *Stream {
	return &Stream{
		body:     body,
		framer:   ndjson.NewFramer(body),
		cancel:   cancel,
		timeout:  timeout,
		buffered: !streaming,
	}
}

// Next returns the next chunk. io.EOF signals normal termination after the
// done chunk. All other errors are sticky backend failures; chunks already
// returned stand.
func (s *Stream) Next() (Chunk, error) {
	if s.err != nil {
		return Chunk{}, s.err
	}
	if s.finished {
		s.err = io.EOF
		return Chunk{}, io.EOF
	}

	// Per-fragment liveness watchdog: if nothing arrives within the
	// bound, tear the connection down and surface a timeout.
	watchdog := time.AfterFunc(s.timeout, func() {
		s.timedOut.Store(true)
		s.cancel()
	})
	frame, err := s.framer.Next()
	watchdog.Stop()

	if err != nil {
		s.Close()
		switch {
		case s.timedOut.Load():
			s.err = &Error{Kind: KindTimeout, Err: err}
		case errors.Is(err, context.Canceled):
			s.err = context.Canceled
		case errors.Is(err, ndjson.ErrFrameTooLong):
			s.err = &Error{Kind: KindMalformed, Err: err}
		default:
			// Includes io.EOF: the stream ended without a done marker.
			s.err = &Error{Kind: KindDisconnected, Err: err}
		}
		return Chunk{}, s.err
	}

	var gc generateChunk
	if err := json.Unmarshal(frame, &gc); err != nil {
		s.Close()
		s.err = &Error{Kind: KindMalformed, Err: err}
		return Chunk{}, s.err
	}

	done := gc.Done
	if s.buffered {
		// A buffered response is one object; synthesize completion even
		// if the backend omits the done field.
		done = true
	}
	if done {
		s.finished = true
		s.Close()
	}

	return Chunk{Text: gc.Response, Done: done}, nil
}

// Close releases the backend connection. Safe to call more than once and
// from a watchdog goroutine.
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.cancel()
		err = s.body.Close()
	})
	return err
}
