package logging

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shopify-repricer/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingNotifier struct {
	messages []string
	err      error
}

func (r *recordingNotifier) Notify(_ context.Context, text string) error {
	r.messages = append(r.messages, text)
	return r.err
}

func TestLogger_LevelsAndNotifications(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	notifier := &recordingNotifier{}
	logger := NewWithZap(zap.New(core), notifier)

	logger.Log("pass started", zap.String("trigger", "manual"))
	logger.LogWarning("feed row skipped", zap.Int("row", 3))
	logger.LogError("variant update failed", errors.New("boom"), zap.String("sku", "SKU1"))
	logger.LogSuccess("pass completed", zap.Int("updated", 2), zap.Int("skipped", 1))

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "boom", entries[2].ContextMap()["error"])
	assert.Equal(t, true, entries[3].ContextMap()["success"])

	require.Len(t, notifier.messages, 2)
	assert.Equal(t, "❌ ERROR: variant update failed error=boom sku=SKU1", notifier.messages[0])
	assert.Equal(t, "✅ SUCCESS: pass completed skipped=1 updated=2", notifier.messages[1])
}

func TestLogger_NotifierFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewWithZap(zap.New(core), &recordingNotifier{err: errors.New("offline")})

	logger.LogSuccess("done")

	assert.Equal(t, 1, logs.FilterMessage("notification failed").Len())
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LoggerConfig{Level: "loud"}, nil)
	assert.Error(t, err)

	logger, err := New(config.LoggerConfig{Level: "debug", Encoding: "console"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, logger.Zap())
}

func TestTelegramNotifier(t *testing.T) {
	assert.Nil(t, NewTelegramNotifier(config.TelegramBotConfig{ChatId: "1"}, nil))

	var got telegramRequest
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		if strings.Contains(got.Text, "fail") {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"ok":false}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	notifier := NewTelegramNotifier(config.TelegramBotConfig{ChatId: "42", Token: "bot-token"}, server.Client())
	notifier.baseURL = server.URL

	require.NoError(t, notifier.Notify(context.Background(), "hello"))
	assert.Equal(t, "/botbot-token/sendMessage", path)
	assert.Equal(t, "42", got.ChatId)
	assert.Equal(t, "hello", got.Text)

	assert.Error(t, notifier.Notify(context.Background(), "fail please"))
}
