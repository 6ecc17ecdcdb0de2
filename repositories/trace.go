package repositories

import (
	"log/slog"
	"presence-lab/contract"
	"presence-lab/domain"
)

type noopTracer struct{}

func (noopTracer) Trace(domain.Handle, domain.HandleType, contract.RefOp, int) {}

// LogTracer logs every reference count change at debug level.
type LogTracer struct {
	log *slog.Logger
}

func NewLogTracer(log *slog.Logger) *LogTracer {
	return &LogTracer{log: log.With("component", "ref_tracer")}
}

func (t *LogTracer) Trace(handle domain.Handle, handleType domain.HandleType, op contract.RefOp, refCount int) {
	t.log.Debug("Reference changed",
		"type", handleType.String(),
		"handle", handle,
		"op", string(op),
		"refcount", refCount)
}
