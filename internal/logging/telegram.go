package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"shopify-repricer/internal/config"
	"strings"
	"time"
)

const telegramBaseURL = "https://api.telegram.org"

const (
	iconError   = "❌"
	iconSuccess = "✅"
)

// Notifier receives the messages worth a human's attention (errors and pass summaries).
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

type TelegramNotifier struct {
	creds      config.TelegramBotConfig
	baseURL    string
	httpClient *http.Client
}

type telegramRequest struct {
	ChatId string `json:"chat_id"`
	Text   string `json:"text"`
}

// NewTelegramNotifier returns nil when the bot credentials are not configured.
func NewTelegramNotifier(cfg config.TelegramBotConfig, httpClient *http.Client) *TelegramNotifier {
	if cfg.ChatId == "" || cfg.Token == "" {
		return nil
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &TelegramNotifier{
		creds:      cfg,
		baseURL:    telegramBaseURL,
		httpClient: httpClient,
	}
}

func (t *TelegramNotifier) Notify(ctx context.Context, text string) error {
	if t == nil {
		return nil
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.creds.Token)

	bodyBytes, err := json.Marshal(telegramRequest{
		ChatId: t.creds.ChatId,
		Text:   text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram send failed: %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}
	return nil
}

func formatMessage(icon, level, value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		v = "-"
	}
	return fmt.Sprintf("%s %s: %s", icon, level, v)
}
