package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ================================================
// SLACK CLIENT
// ================================================

// SlackConfig - chat.postMessage style endpoint
type SlackConfig struct {
	URL     string
	Token   string
	Channel string
	Timeout time.Duration
}

type slackMessage struct {
	Text    string `json:"text"`
	Channel string `json:"channel"`
}

type slackResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// SlackClient gửi message tới Slack-compatible endpoint
type SlackClient struct {
	cfg        SlackConfig
	httpClient *http.Client
}

func NewSlackClient(cfg SlackConfig) *SlackClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &SlackClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// PostMessage trả về field "ok" của response.
// Non-2xx status hoặc body không parse được → error.
func (s *SlackClient) PostMessage(ctx context.Context, text string) (bool, error) {
	body, err := json.Marshal(slackMessage{Text: text, Channel: s.cfg.Channel})
	if err != nil {
		return false, fmt.Errorf("failed to marshal slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("failed to build slack request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("slack request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("slack returned status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out slackResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("failed to decode slack response: %w", err)
	}
	return out.OK, nil
}
