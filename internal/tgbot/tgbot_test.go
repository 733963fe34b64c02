package tgbot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KotFed0t/invest_tracker/config"
	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTGBot_NotifySnapshot(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"chat":{"id":42,"type":"private"},"date":0}}`))
	}))
	defer srv.Close()

	cfg := &config.Config{}
	cfg.Telegram.Token = "test-token"
	cfg.Telegram.ChatID = 42

	bot, err := newBot(cfg, srv.URL)
	require.NoError(t, err)

	err = bot.NotifySnapshot(context.Background(), model.SnapshotRun{
		Date:     time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC),
		NetWorth: decimal.RequireFromString("1234.5"),
	}, "NIS")
	require.NoError(t, err)

	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "HTML", got["parse_mode"])
	assert.Contains(t, got["text"], "₪1234.50")
}

func TestTGBot_NotConfigured(t *testing.T) {
	bot, err := New(&config.Config{})
	require.NoError(t, err)

	err = bot.NotifyError(context.Background(), "boom")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestTGBot_ApiError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	cfg := &config.Config{}
	cfg.Telegram.Token = "test-token"
	cfg.Telegram.ChatID = 1

	bot, err := newBot(cfg, srv.URL)
	require.NoError(t, err)

	assert.Error(t, bot.NotifyError(context.Background(), "boom"))
}
