package tgbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/invest_tracker/config"
	"github.com/KotFed0t/invest_tracker/internal/converter/telebotConverter"
	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/KotFed0t/invest_tracker/utils"
	tele "gopkg.in/telebot.v4"
)

var ErrNotConfigured = errors.New("error telegram bot not configured")

// TGBot only sends notifications to a single chat, it never polls for updates.
type TGBot struct {
	bot    *tele.Bot
	chatID int64
}

func New(cfg *config.Config) (*TGBot, error) {
	return newBot(cfg, "")
}

func newBot(cfg *config.Config, apiURL string) (*TGBot, error) {
	if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
		return &TGBot{}, nil
	}

	settings := tele.Settings{
		URL:     apiURL,
		Token:   cfg.Telegram.Token,
		Offline: true,
	}

	b, err := tele.NewBot(settings)
	if err != nil {
		slog.Error("error while tele.NewBot", slog.String("err", err.Error()))
		return nil, err
	}

	return &TGBot{bot: b, chatID: cfg.Telegram.ChatID}, nil
}

func (b *TGBot) NotifySnapshot(ctx context.Context, run model.SnapshotRun, baseCurrency string) error {
	return b.send(ctx, telebotConverter.SnapshotMessage(run, baseCurrency))
}

func (b *TGBot) NotifyError(ctx context.Context, errText string) error {
	return b.send(ctx, telebotConverter.ErrorMessage(errText))
}

func (b *TGBot) send(ctx context.Context, msg string) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TGBot.send"

	if b.bot == nil {
		slog.Warn("telegram credentials not configured, skip notification", slog.String("rqID", rqID), slog.String("op", op))
		return ErrNotConfigured
	}

	_, err = b.bot.Send(tele.ChatID(b.chatID), msg, tele.ModeHTML)
	if err != nil {
		slog.Error("can't send telegram message", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return fmt.Errorf("telegram send: %w", err)
	}

	slog.Debug("telegram message sent", slog.String("rqID", rqID), slog.String("op", op))
	return nil
}
