package backend

import "fmt"

// Kind classifies a failure at the backend boundary.
type Kind int

const (
	// KindUnreachable means the backend could not be reached at all
	// (connection refused, DNS failure, dial timeout).
	KindUnreachable Kind = iota

	// KindTimeout means no fragment arrived within the read timeout.
	KindTimeout

	// KindBadStatus means the backend answered with a non-success HTTP
	// status before producing any output.
	KindBadStatus

	// KindDisconnected means the backend dropped mid-stream before the
	// done marker. Fragments already yielded stand.
	KindDisconnected

	// KindMalformed means a fragment could not be parsed as the expected
	// structured unit.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindTimeout:
		return "timeout"
	case KindBadStatus:
		return "bad status"
	case KindDisconnected:
		return "disconnected"
	case KindMalformed:
		return "malformed response"
	default:
		return "unknown"
	}
}

// Error is a classified backend failure. Status is set for KindBadStatus.
type Error struct {
	Kind   Kind
	Status int
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindBadStatus:
		return fmt.Sprintf("backend returned status %d", e.Status)
	case e.Err != nil:
		return fmt.Sprintf("backend %s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("backend %s", e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }
