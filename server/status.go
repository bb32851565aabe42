package server

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/papercomputeco/spool/pkg/backend"
	"github.com/papercomputeco/spool/pkg/params"
	"github.com/papercomputeco/spool/server/session"
)

// rpcError maps an internal failure onto the gRPC status surfaced to the
// caller. The mapping lives in one place so the two handlers cannot drift.
func (s *Server) rpcError(ctx context.Context, sess *session.Session, err error) error {
	if errors.Is(err, context.Canceled) || ctx.Err() == context.Canceled {
		// The caller went away. Not a failure; keep it out of the error logs.
		s.logger.Debug("call canceled by caller", sessionField(sess), zap.Error(err))
		return status.Error(codes.Canceled, "call canceled")
	}

	var verr *params.ValidationError
	if errors.As(err, &verr) {
		return status.Error(codes.InvalidArgument, verr.Error())
	}
	if errors.Is(err, errEmptyPrompt) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if errors.Is(err, session.ErrLimitReached) {
		return status.Error(codes.ResourceExhausted, err.Error())
	}
	if errors.Is(err, errSendStalled) {
		s.logger.Warn("ending session, caller stopped consuming", sessionField(sess))
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	var berr *backend.Error
	if errors.As(err, &berr) {
		code := codes.Internal
		switch berr.Kind {
		case backend.KindUnreachable, backend.KindTimeout, backend.KindDisconnected:
			code = codes.Unavailable
		case backend.KindBadStatus:
			// Backend 4xx means the request itself was unusable; 5xx is an
			// upstream fault the caller cannot fix.
			if berr.Status >= 400 && berr.Status < 500 {
				code = codes.InvalidArgument
			}
		}
		s.logger.Error("backend failure",
			sessionField(sess),
			zap.Stringer("kind", berr.Kind),
			zap.Error(err),
		)
		return status.Error(code, berr.Error())
	}

	s.logger.Error("generation failed", sessionField(sess), zap.Error(err))
	return status.Error(codes.Internal, "internal error")
}

func sessionField(sess *session.Session) zap.Field {
	if sess == nil {
		return zap.Skip()
	}
	return zap.String("session_id", sess.ID)
}
