// Package ndjson provides an incremental framer for newline-delimited JSON
// streams, the transport framing used by Ollama-compatible backends.
//
// The backend's transport may deliver one logical line split across several
// network reads, or several logical lines inside a single read. The Framer
// carries the unconsumed remainder of the last read across calls and only
// surfaces a frame once its terminating newline has arrived, so callers
// never see a partial logical unit. A single read pulls at most one buffer's
// worth of bytes, which bounds both memory and the latency added on top of
// the underlying reader.
package ndjson

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

const (
	// readSize is the size of a single read from the underlying stream.
	readSize = 32 * 1024

	// maxFrameSize bounds the remainder buffer. A frame that grows past
	// this without a newline is a backend contract violation, not a
	// legitimate chunk.
	maxFrameSize = 1024 * 1024
)

// ErrFrameTooLong is returned when a single frame exceeds maxFrameSize.
var ErrFrameTooLong = errors.New("ndjson: frame exceeds maximum length")

// Framer splits a byte stream into newline-delimited frames.
//
// Frames are returned without their trailing newline (and without a trailing
// carriage return, if present). Empty lines are skipped; some backends emit
// them as keep-alives. A Framer is single-use and not safe for concurrent
// calls.
type Framer struct {
	r       io.Reader
	readBuf []byte
	pending []byte
	err     error
}

// NewFramer returns a Framer reading from r.
func NewFramer(r io.Reader) *Framer {
	return &Framer{
		r:       r,
		readBuf: make([]byte, readSize),
	}
}

// Next returns the next complete frame. It returns io.EOF once the source is
// exhausted; if the source ends with an unterminated frame, that frame is
// returned first and io.EOF follows on the next call. All errors are sticky.
func (f *Framer) Next() ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}

	for {
		// Surface any complete frame already sitting in the remainder.
		if i := bytes.IndexByte(f.pending, '\n'); i >= 0 {
			frame := bytes.TrimSuffix(f.pending[:i], []byte("\r"))
			f.pending = f.pending[i+1:]
			if len(frame) == 0 {
				continue
			}
			out := make([]byte, len(frame))
			copy(out, frame)
			return out, nil
		}

		if len(f.pending) > maxFrameSize {
			f.err = ErrFrameTooLong
			return nil, f.err
		}

		n, err := f.r.Read(f.readBuf)
		if n > 0 {
			f.pending = append(f.pending, f.readBuf[:n]...)
			continue
		}
		if err == nil {
			// A zero-byte read with no error; try again.
			continue
		}

		if errors.Is(err, io.EOF) {
			frame := bytes.TrimSuffix(f.pending, []byte("\r"))
			f.pending = nil
			f.err = io.EOF
			if len(frame) > 0 {
				return frame, nil
			}
			return nil, io.EOF
		}

		f.err = fmt.Errorf("ndjson: reading stream: %w", err)
		return nil, f.err
	}
}
