package server

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/papercomputeco/spool/llmpb"
	"github.com/papercomputeco/spool/pkg/backend"
	"github.com/papercomputeco/spool/pkg/params"
	"github.com/papercomputeco/spool/server/session"
)

var (
	errEmptyPrompt = errors.New("prompt is required")
	errSendStalled = errors.New("caller stopped consuming the stream")
)

// Generate drains the whole backend sequence internally and returns one
// aggregate response. If the sequence fails partway the call fails with the
// mapped status and no partial aggregate: the unary contract is one atomic
// result.
func (s *Server) Generate(ctx context.Context, req *llmpb.GenerateRequest) (*llmpb.GenerateResponse, error) {
	start := time.Now()

	stream, sess, err := s.openSession(ctx, req, false)
	if err != nil {
		return nil, s.rpcError(ctx, nil, err)
	}
	defer sess.End()
	defer stream.Close()

	var text strings.Builder
	for {
		chunk, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, s.rpcError(ctx, sess, err)
		}
		sess.NextSeq()
		text.WriteString(chunk.Text)
	}

	s.logger.Info("generation complete",
		zap.String("session_id", sess.ID),
		zap.Int("chars", text.Len()),
		zap.Duration("duration", time.Since(start)),
	)

	return &llmpb.GenerateResponse{Text: text.String(), Success: true}, nil
}

// GenerateStream forwards each backend chunk to the caller's outbound
// stream as it arrives, preserving order and the completion-is-last
// invariant. Caller cancellation propagates into the backend connection, so
// a torn-down caller stops the session within one fragment read.
func (s *Server) GenerateStream(req *llmpb.GenerateRequest, out grpc.ServerStreamingServer[llmpb.GenerateChunk]) error {
	ctx := out.Context()
	start := time.Now()

	stream, sess, err := s.openSession(ctx, req, true)
	if err != nil {
		return s.rpcError(ctx, nil, err)
	}
	defer sess.End()
	defer stream.Close()

	for {
		chunk, err := stream.Next()
		if errors.Is(err, io.EOF) {
			s.logger.Info("streaming generation complete",
				zap.String("session_id", sess.ID),
				zap.Duration("duration", time.Since(start)),
			)
			return nil
		}
		if err != nil {
			return s.rpcError(ctx, sess, err)
		}

		seq := sess.NextSeq()
		if err := s.sendChunk(out, &llmpb.GenerateChunk{Text: chunk.Text, IsComplete: chunk.Done}); err != nil {
			s.logger.Debug("caller stopped consuming",
				zap.String("session_id", sess.ID),
				zap.Int64("seq", seq),
				zap.Error(err),
			)
			return s.rpcError(ctx, sess, err)
		}
	}
}

// sendChunk writes one chunk to the outbound stream, bounded by the same
// per-fragment timeout applied to backend reads. A caller that stays
// connected but stops receiving makes Send block on flow control; without
// a bound that pins the backend connection and the governor permit for as
// long as the caller lingers. Returning errSendStalled ends the RPC, which
// tears down both.
func (s *Server) sendChunk(out grpc.ServerStreamingServer[llmpb.GenerateChunk], chunk *llmpb.GenerateChunk) error {
	// Buffered so the send goroutine can exit once the aborted RPC
	// unblocks Send.
	done := make(chan error, 1)
	go func() { done <- out.Send(chunk) }()

	timer := time.NewTimer(s.sendTimeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return errSendStalled
	}
}

// openSession validates the request, admits a session, and opens the
// backend call. Admission comes after validation so invalid requests never
// consume a permit, and before dialing so rejected requests never touch the
// backend. On success the caller owns both the stream and the session.
func (s *Server) openSession(ctx context.Context, req *llmpb.GenerateRequest, streaming bool) (*backend.Stream, *session.Session, error) {
	if req.GetPrompt() == "" {
		return nil, nil, errEmptyPrompt
	}

	opts, err := params.Normalize(requestParams(req.GetParameters()), s.defaults)
	if err != nil {
		return nil, nil, err
	}

	sess, err := s.governor.Acquire(streaming)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.backend.Invoke(ctx, req.GetPrompt(), opts, streaming)
	if err != nil {
		sess.End()
		return nil, nil, err
	}

	return stream, sess, nil
}

// requestParams converts the wire parameter message into the mapper's
// form, preserving the unset-versus-explicit-zero distinction the optional
// proto fields carry.
func requestParams(p *llmpb.GenerateParameters) params.Params {
	if p == nil {
		return params.Params{}
	}

	var out params.Params
	if p.Temperature != nil {
		v := p.GetTemperature()
		out.Temperature = &v
	}
	if p.MaxTokens != nil {
		v := int(p.GetMaxTokens())
		out.MaxTokens = &v
	}
	if p.TopP != nil {
		v := p.GetTopP()
		out.TopP = &v
	}
	if p.PresencePenalty != nil {
		v := p.GetPresencePenalty()
		out.PresencePenalty = &v
	}
	if p.FrequencyPenalty != nil {
		v := p.GetFrequencyPenalty()
		out.FrequencyPenalty = &v
	}
	return out
}
