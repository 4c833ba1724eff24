package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	return entry
}

func TestLoggerNotifierWritesReceipt(t *testing.T) {
	var buf bytes.Buffer
	n := NewLoggerNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := n.Send(context.Background(), Message{Kind: KindDeposit, Destination: "terminal-1", Reference: "rec-1", Body: "Deposited $5.00"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	entry := decodeLine(t, &buf)
	if entry["msg"] != "receipt" || entry["kind"] != KindDeposit || entry["destination"] != "terminal-1" || entry["reference"] != "rec-1" {
		t.Fatalf("unexpected log entry: %v", entry)
	}
}

func TestLoggerNotifierOmitsEmptyReference(t *testing.T) {
	var buf bytes.Buffer
	n := NewLoggerNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))

	if err := n.Send(context.Background(), Message{Kind: KindPINChange, Destination: "terminal-1"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, ok := decodeLine(t, &buf)["reference"]; ok {
		t.Fatal("expected no reference attribute for a PIN change")
	}
}

func TestLoggerNotifierNilSafe(t *testing.T) {
	var n *LoggerNotifier
	if err := n.Send(context.Background(), Message{Kind: KindWithdrawal}); err != nil {
		t.Fatalf("nil notifier should be a no-op: %v", err)
	}
}
