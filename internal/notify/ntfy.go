package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"
)

const DefaultNtfyURL = "https://ntfy.sh"

// Ntfy posts messages to an ntfy topic.
type Ntfy struct {
	client *http.Client
	url    string
}

func NewNtfy(baseURL, topic string, client *http.Client) (*Ntfy, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("ntfy topic is required")
	}
	if baseURL == "" {
		baseURL = DefaultNtfyURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Ntfy{client: client, url: strings.TrimRight(baseURL, "/") + "/" + topic}, nil
}

func (n *Ntfy) Deliver(ctx context.Context, msg Message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, strings.NewReader(msg.Body()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Title", headerValue(msg.Title))
	req.Header.Set("Priority", msg.Priority)
	req.Header.Set("Tags", strings.Join(msg.Tags, ","))

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to ntfy: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ntfy returned status %d", resp.StatusCode)
	}
	return nil
}

// headerValue folds control characters, newlines included, into spaces.
func headerValue(s string) string {
	return strings.Map(func(r rune) rune {
		if r != '\t' && unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}
