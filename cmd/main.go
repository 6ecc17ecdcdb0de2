package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"presence-lab/channels"
	"presence-lab/domain"
	"presence-lab/internal"
	"presence-lab/projection"
	"presence-lab/repositories"
	"presence-lab/runtime"
	"presence-lab/sink"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires the session and blocks until a signal arrives, so deferred
// cleanup always happens before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Handle repository
	opts := []repositories.Option{repositories.WithMaxNameLength(config.MaxNameLength)}
	if config.TraceRefs {
		opts = append(opts, repositories.WithTracer(repositories.NewLogTracer(log)))
	}
	repo := repositories.NewHandleRepository(log, opts...)

	// 3. Session
	session, err := runtime.NewSession(log, repo, channels.LogOutbox{Log: log.With("component", "outbox")},
		runtime.NewRegistry(), config.Session())
	if err != nil {
		return fmt.Errorf("session setup failed: %w", err)
	}
	roster := projection.NewRoster()
	session.Add(roster, sink.NewLogSink(log))

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stopped by us, after the optional dump
	session.Start(context.Background())
	defer session.Stop()

	// 5. Contact lists are always open
	lists := make(map[string]domain.ChannelID, len(domain.ListNames))
	for _, name := range domain.ListNames {
		id, err := session.OpenList(ctx, name)
		if err != nil {
			return fmt.Errorf("opening list %s: %w", name, err)
		}
		lists[name] = id
		log.Info("List open", "list", name, "channel", id)
	}

	// 6. Wait for Stop
	<-ctx.Done()
	log.Info("Shutting down gracefully...")

	if config.DumpOnExit {
		if err = session.Dump(context.Background(), os.Stdout); err != nil {
			log.Warn("Cannot dump handles", "error", err)
		}
		for name, id := range lists {
			if entry, ok := roster.Entry(id); ok {
				log.Info("List roster", "list", name, "members", entry.Members,
					"local_pending", entry.LocalPending, "remote_pending", entry.RemotePending)
			}
		}
	}
	return nil
}
