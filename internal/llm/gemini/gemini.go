package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"gold-trading-assistant/internal/logger"
	"gold-trading-assistant/internal/store"
	"gold-trading-assistant/internal/trace"
)

// Completer calls the Gemini generateContent endpoint. Quota errors are
// retried with exponential backoff while rotating through the key pool;
// every other error fails the attempt immediately.
type Completer struct {
	cfg      *store.Config
	endpoint string
	client   *http.Client
	keys     []string
	keyIdx   int
	sleep    func(time.Duration)
}

func New(cfg *store.Config) *Completer {
	endpoint := "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"
	if ep := os.Getenv("GEMINI_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &Completer{
		cfg:      cfg,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
		keys:     cfg.GeminiKeys,
		sleep:    time.Sleep,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
	Config   genConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type genConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float32 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Complete sends the prompt and returns the model's text reply.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "gemini-api-call")
	defer span.End()

	if len(c.keys) == 0 {
		return "", errors.New("no Gemini API key configured")
	}

	maxAttempts := c.cfg.LLM.MaxAttempts
	backoff := time.Duration(c.cfg.LLM.BackoffSeconds) * time.Second

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		key := c.keys[c.keyIdx]
		text, err := c.generate(ctx, key, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !isQuotaError(err) {
			return "", err
		}

		// Quota hit on this key: move to the next one, and back off
		// when the whole pool has been burned through.
		c.keyIdx = (c.keyIdx + 1) % len(c.keys)
		if attempt < maxAttempts-1 {
			wait := backoff * (1 << attempt)
			logger.Warn(ctx, "Gemini rate limit hit, retrying",
				"attempt", attempt+1,
				"max_attempts", maxAttempts,
				"wait", wait.String(),
				"key_index", c.keyIdx)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			default:
				c.sleep(wait)
			}
		}
	}
	return "", fmt.Errorf("gemini quota exhausted after %d attempts: %w", maxAttempts, lastErr)
}

func (c *Completer) generate(ctx context.Context, apiKey, prompt string) (string, error) {
	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		Config: genConfig{
			MaxOutputTokens: c.cfg.LLM.MaxTokens,
			Temperature:     c.cfg.LLM.Temperature,
		},
	}
	bb, _ := json.Marshal(body)

	url := fmt.Sprintf(c.endpoint, c.cfg.LLM.Model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(bb))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("gemini http %d: %s", resp.StatusCode, string(respBytes))
	}

	var gr generateResponse
	if err := json.Unmarshal(respBytes, &gr); err != nil {
		return "", fmt.Errorf("gemini bad response: %w", err)
	}
	if gr.Error != nil {
		return "", fmt.Errorf("gemini error %d: %s", gr.Error.Code, gr.Error.Message)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// isQuotaError matches rate-limit and quota conditions, the only
// retryable failure class.
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "Quota exceeded") ||
		strings.Contains(msg, "quota")
}
