package we

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger receives the messages a call emits.
type Logger interface {
	Log(message string)
}

type LoggerFunc func(message string)

func (f LoggerFunc) Log(message string) {
	f(message)
}

// Logs collects the messages emitted during a single call.
type Logs struct {
	messages []string
}

func (l *Logs) Log(message string) {
	l.messages = append(l.messages, message)
}

func (l *Logs) Messages() []string {
	if len(l.messages) == 0 {
		return nil
	}

	out := make([]string, len(l.messages))
	copy(out, l.messages)

	return out
}

// LogPublisher receives the messages of committed calls.
type LogPublisher interface {
	PublishLogs(ctx context.Context, id SlotId, revision Revision, messages []string) error
}

type LogPublisherFunc func(ctx context.Context, id SlotId, revision Revision, messages []string) error

func (f LogPublisherFunc) PublishLogs(ctx context.Context, id SlotId, revision Revision, messages []string) error {
	return f(ctx, id, revision, messages)
}

type ZerologPublisher struct {
	Logger *zerolog.Logger
}

func NewZerologPublisher(logger *zerolog.Logger) *ZerologPublisher {
	if logger == nil {
		logger = &log.Logger
	}

	return &ZerologPublisher{Logger: logger}
}

func (p *ZerologPublisher) PublishLogs(ctx context.Context, id SlotId, revision Revision, messages []string) error {
	for _, message := range messages {
		p.Logger.Info().
			Str("slot", id.String()).
			Str("revision", revision.String()).
			Msg(message)
	}

	return nil
}
