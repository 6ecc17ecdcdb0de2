package workers

import (
	"context"
	"log/slog"
)

// Command is a unit of work run on the session loop.
type Command func()

// SessionWorker is the single processing loop of a session: commands run
// one at a time, in arrival order, and nothing else touches session state.
type SessionWorker struct {
	log      *slog.Logger
	commands <-chan Command
}

func NewSessionWorker(log *slog.Logger, commands <-chan Command) SessionWorker {
	return SessionWorker{log: log, commands: commands}
}

func (w SessionWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping session loop")
			return ctx.Err()
		case cmd, ok := <-w.commands:
			if !ok {
				return nil
			}
			cmd()
		}
	}
}
