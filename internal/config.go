package internal

import (
	"fmt"
	"presence-lab/runtime"
	"time"
)

type Config struct {
	LogLevel          string        `env:"LOG_LEVEL,default=INFO"`
	SelfName          string        `env:"SELF_NAME,required=true"`
	CommandBufferSize int           `env:"COMMAND_BUFFER_SIZE,default=64"`
	EventBufferSize   int           `env:"EVENT_BUFFER_SIZE,default=256"`
	SinkTimeout       time.Duration `env:"SINK_TIMEOUT,default=2s"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	JoinTimeout       time.Duration `env:"JOIN_TIMEOUT,default=30s"`
	MaxNameLength     int           `env:"MAX_NAME_LENGTH,default=1023"`
	TraceRefs         bool          `env:"TRACE_REFS,default=false"`
	DumpOnExit        bool          `env:"DUMP_ON_EXIT,default=false"`
}

// Validate rejects values the session cannot run with.
func (c Config) Validate() error {
	if c.CommandBufferSize < 0 || c.EventBufferSize < 0 {
		return fmt.Errorf("buffer sizes must not be negative, got %d and %d", c.CommandBufferSize, c.EventBufferSize)
	}
	if c.SinkTimeout <= 0 || c.JoinTimeout <= 0 {
		return fmt.Errorf("SINK_TIMEOUT and JOIN_TIMEOUT must be positive")
	}
	if c.MaxNameLength <= 0 {
		return fmt.Errorf("MAX_NAME_LENGTH must be positive, got %d", c.MaxNameLength)
	}
	return nil
}

func (c Config) Session() runtime.SessionConfig {
	return runtime.SessionConfig{
		SelfName:          c.SelfName,
		CommandBufferSize: c.CommandBufferSize,
		EventBufferSize:   c.EventBufferSize,
		SinkTimeout:       c.SinkTimeout,
		RestartInterval:   c.RestartInterval,
		JoinTimeout:       c.JoinTimeout,
	}
}
