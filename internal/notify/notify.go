// Package notify is the transient user-notification boundary. Presentation
// (toasts, dialogs) is a collaborator; the workflow only emits.
package notify

import "github.com/civicai/civic-client/pkg/logger"

// Notifier surfaces transient messages to the user
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Error(msg string)
}

// LogNotifier emits notifications through the structured logger. It is the
// default sink for the headless CLI.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier creates a logger-backed notifier
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.WithComponent("notify")}
}

func (n *LogNotifier) Success(msg string) { n.log.Info().Str("kind", "success").Msg(msg) }
func (n *LogNotifier) Info(msg string)    { n.log.Info().Str("kind", "info").Msg(msg) }
func (n *LogNotifier) Error(msg string)   { n.log.Warn().Str("kind", "error").Msg(msg) }

// Nop discards all notifications. Useful in tests.
type Nop struct{}

func (Nop) Success(string) {}
func (Nop) Info(string)    {}
func (Nop) Error(string)   {}
