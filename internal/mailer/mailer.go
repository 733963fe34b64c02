package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KotFed0t/invest_tracker/utils"
)

var ErrNotConfigured = errors.New("error email sender not configured")

// Sender delivers one rendered HTML email.
type Sender interface {
	SendEmail(ctx context.Context, to, subject, html string) error
}

// Mailer renders the transactional emails and hands them to a Sender.
// A nil sender disables delivery.
type Mailer struct {
	sender Sender
}

func New(sender Sender) *Mailer {
	return &Mailer{sender: sender}
}

func (m *Mailer) SendVerificationCode(ctx context.Context, email, code string) error {
	body := fmt.Sprintf(verificationTemplate, code)
	return m.send(ctx, email, "Investment Tracker - Verification Code", body)
}

func (m *Mailer) SendWelcome(ctx context.Context, email string) error {
	return m.send(ctx, email, "Welcome to Investment Tracker!", welcomeTemplate)
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Mailer.send"

	slog.Debug("send start", slog.String("rqID", rqID), slog.String("op", op), slog.String("subject", subject))
	defer func() {
		if err != nil {
			slog.Error("send failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("send completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	if m.sender == nil {
		return ErrNotConfigured
	}

	if err = ctx.Err(); err != nil {
		return err
	}

	if strings.ContainsAny(to, "\r\n") {
		return fmt.Errorf("invalid recipient %q", to)
	}

	return m.sender.SendEmail(ctx, to, subject, body)
}

const verificationTemplate = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">Investment Tracker</h2>
  <p>Your verification code is:</p>
  <div style="background-color: #f3f4f6; padding: 20px; text-align: center; border-radius: 8px; margin: 20px 0;">
    <h1 style="color: #2563eb; font-size: 32px; margin: 0; letter-spacing: 4px;">%s</h1>
  </div>
  <p>This code will expire in 10 minutes.</p>
  <p>If you didn't request this code, please ignore this email.</p>
</div>`

const welcomeTemplate = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">Welcome to Investment Tracker!</h2>
  <p>Thank you for creating your account. You can now:</p>
  <ul>
    <li>Add and track your investments</li>
    <li>Monitor real-time market data</li>
    <li>View your portfolio performance</li>
    <li>Receive performance snapshots</li>
  </ul>
</div>`
