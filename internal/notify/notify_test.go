package notify

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type stubChannel struct {
	name  string
	err   error
	calls int
	last  string
}

func (s *stubChannel) Name() string { return s.name }

func (s *stubChannel) Send(ctx context.Context, tag, message string) error {
	s.calls++
	s.last = tag + ":" + message
	return s.err
}

func TestFanOutDeliversToAllChannels(t *testing.T) {
	a := &stubChannel{name: "a"}
	b := &stubChannel{name: "b"}
	n := New(a, b)

	delivered := n.Send(context.Background(), TagInfo, "hello")
	if delivered != 2 {
		t.Errorf("Expected 2 deliveries, got %d", delivered)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("Expected each channel called once, got a=%d b=%d", a.calls, b.calls)
	}
	if a.last != "info:hello" {
		t.Errorf("Unexpected payload %q", a.last)
	}
}

func TestFanOutContinuesPastFailure(t *testing.T) {
	a := &stubChannel{name: "a", err: errors.New("down")}
	b := &stubChannel{name: "b"}
	n := New(a, b)

	delivered := n.Send(context.Background(), TagSignal, "buy")
	if delivered != 1 {
		t.Errorf("Expected 1 delivery despite failure, got %d", delivered)
	}
	if b.calls != 1 {
		t.Error("Second channel should still be called after first fails")
	}
}

func TestFanOutNoChannels(t *testing.T) {
	n := New()
	if delivered := n.Send(context.Background(), TagInfo, "x"); delivered != 0 {
		t.Errorf("Expected 0 deliveries, got %d", delivered)
	}
}

func TestConsoleChannel(t *testing.T) {
	var buf bytes.Buffer
	c := &ConsoleChannel{out: &buf}

	if err := c.Send(context.Background(), TagSignal, "BUY at 2650"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "[SIGNAL]") {
		t.Errorf("Expected tag header, got %q", out)
	}
	if !strings.Contains(out, "BUY at 2650") {
		t.Errorf("Expected message body, got %q", out)
	}
}

func TestFileChannelAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.log")
	c, err := NewFileChannel(path)
	if err != nil {
		t.Fatalf("NewFileChannel failed: %v", err)
	}

	c.Send(context.Background(), TagInfo, "first")
	c.Send(context.Background(), TagError, "second")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading log failed: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "first") || !strings.Contains(content, "second") {
		t.Errorf("Expected both messages appended, got %q", content)
	}
	if strings.Index(content, "first") > strings.Index(content, "second") {
		t.Error("Messages out of order")
	}
}

func TestSplitMessageShort(t *testing.T) {
	chunks := splitMessage("hello", 100)
	if len(chunks) != 1 || chunks[0] != "hello" {
		t.Errorf("Unexpected chunks %v", chunks)
	}
}

func TestSplitMessagePrefersNewlines(t *testing.T) {
	text := strings.Repeat("line one\n", 30)
	chunks := splitMessage(text, 100)

	var total int
	for _, chunk := range chunks {
		if len(chunk) > 100 {
			t.Errorf("Chunk exceeds limit: %d chars", len(chunk))
		}
		total += len(chunk)
	}
	if total != len(text) {
		t.Errorf("Split lost content: %d vs %d", total, len(text))
	}
}
