package notification

import (
	"context"
	"log/slog"
)

const (
	// KindDeposit is sent after cash is deposited.
	KindDeposit = "deposit"
	// KindWithdrawal is sent after cash is withdrawn.
	KindWithdrawal = "withdrawal"
	// KindPINChange is sent after the PIN is replaced.
	KindPINChange = "pin_change"
)

// Message describes a receipt for the account holder. Reference carries the
// ledger record ID for balance-affecting receipts and is empty otherwise.
type Message struct {
	Kind        string
	Destination string
	Reference   string
	Body        string
}

// Notifier delivers receipts to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier writes receipts to the structured logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the receipt as one structured log line.
func (n *LoggerNotifier) Send(ctx context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	attrs := []slog.Attr{
		slog.String("kind", message.Kind),
		slog.String("destination", message.Destination),
		slog.String("body", message.Body),
	}
	if message.Reference != "" {
		attrs = append(attrs, slog.String("reference", message.Reference))
	}
	n.logger.LogAttrs(ctx, slog.LevelInfo, "receipt", attrs...)
	return nil
}
