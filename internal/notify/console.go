package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// ConsoleChannel prints notifications to stdout.
type ConsoleChannel struct {
	out io.Writer
}

func NewConsoleChannel() *ConsoleChannel {
	return &ConsoleChannel{out: os.Stdout}
}

func (c *ConsoleChannel) Name() string { return "console" }

func (c *ConsoleChannel) Send(ctx context.Context, tag, message string) error {
	header := fmt.Sprintf("[%s] %s", strings.ToUpper(tag), time.Now().Format("2006-01-02 15:04:05"))
	_, err := fmt.Fprintf(c.out, "\n%s\n%s\n%s\n%s\n", strings.Repeat("=", 60), header, message, strings.Repeat("=", 60))
	return err
}
