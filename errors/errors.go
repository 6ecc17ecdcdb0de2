package errors

import (
	"fmt"
)

var (
	ErrInvalidHandle      = fmt.Errorf("invalid handle")
	ErrInvalidHandleType  = fmt.Errorf("invalid handle type")
	ErrInvalidArgument    = fmt.Errorf("invalid argument")
	ErrPermissionDenied   = fmt.Errorf("permission denied")
	ErrNotAvailable       = fmt.Errorf("not available")
	ErrNotAMember         = fmt.Errorf("not a member")
	ErrInvariantViolation = fmt.Errorf("invariant violation")

	ErrWorkerPanic     = fmt.Errorf("worker panic")
	ErrSessionStopped  = fmt.Errorf("session stopped")
	ErrChannelNotFound = fmt.Errorf("channel not found")
)

// HandleError reports which element of a request failed.
// Index is -1 when the failing handle was not part of a batch.
type HandleError struct {
	Err    error
	Type   string
	Handle uint32
	Index  int
}

func (e *HandleError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s: %s handle %d (element %d)", e.Err, e.Type, e.Handle, e.Index)
	}
	return fmt.Sprintf("%s: %s handle %d", e.Err, e.Type, e.Handle)
}

func (e *HandleError) Unwrap() error {
	return e.Err
}
