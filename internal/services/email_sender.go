package services

import (
	"context"

	"github.com/rs/zerolog"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type EmailSender interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatch sends msg in the background. The returned channel yields exactly one
// value, the transport result, and is never closed without it.
func Dispatch(ctx context.Context, sender EmailSender, msg Message) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- sender.Send(ctx, msg)
	}()
	return done
}

// LogSender writes messages to the log instead of delivering them.
// Used when no SMTP credentials are configured.
type LogSender struct {
	Logger zerolog.Logger
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("mail delivery disabled, message logged")
	return nil
}
