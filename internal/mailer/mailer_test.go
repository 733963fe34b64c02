package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to      string
	subject string
	html    string
}

type fakeSender struct {
	sent []sentMail
}

func (f *fakeSender) SendEmail(_ context.Context, to, subject, html string) error {
	f.sent = append(f.sent, sentMail{to: to, subject: subject, html: html})
	return nil
}

func TestMailer_SendVerificationCode(t *testing.T) {
	sender := &fakeSender{}

	err := New(sender).SendVerificationCode(context.Background(), "user@example.com", "482913")
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	mail := sender.sent[0]
	assert.Equal(t, "user@example.com", mail.to)
	assert.Equal(t, "Investment Tracker - Verification Code", mail.subject)
	assert.Contains(t, mail.html, "482913")
}

func TestMailer_SendWelcome(t *testing.T) {
	sender := &fakeSender{}

	require.NoError(t, New(sender).SendWelcome(context.Background(), "user@example.com"))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].html, "Welcome to Investment Tracker!")
}

func TestMailer_Errors(t *testing.T) {
	err := New(nil).SendWelcome(context.Background(), "user@example.com")
	assert.ErrorIs(t, err, ErrNotConfigured)

	sender := &fakeSender{}
	m := New(sender)

	err = m.SendWelcome(context.Background(), "user@example.com\r\nBcc: x@y.z")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = m.SendWelcome(ctx, "user@example.com")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sender.sent)
}
