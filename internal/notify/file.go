package notify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileChannel appends notifications to a plain-text log file, one
// delimited block per message.
type FileChannel struct {
	path string
	mu   sync.Mutex
}

func NewFileChannel(path string) (*FileChannel, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &FileChannel{path: path}, nil
}

func (c *FileChannel) Name() string { return "file" }

func (c *FileChannel) Send(ctx context.Context, tag, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "--- %s | %s ---\n%s\n\n",
		time.Now().Format(time.RFC3339), tag, message)
	return err
}
