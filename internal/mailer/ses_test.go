package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sesContent struct {
	Data    string
	Charset string
}

type sesRequest struct {
	FromEmailAddress string
	Destination      struct {
		ToAddresses []string
	}
	Content struct {
		Simple struct {
			Subject sesContent
			Body    struct {
				Html sesContent
			}
		}
	}
}

func newTestSESSender(t *testing.T, handler http.HandlerFunc) *SESSender {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := sesv2.New(sesv2.Options{
		Region:           "us-east-1",
		BaseEndpoint:     aws.String(srv.URL),
		Credentials:      credentials.NewStaticCredentialsProvider("key", "secret", ""),
		RetryMaxAttempts: 1,
	})
	return newSESSender(client, "noreply@tracker.test")
}

func TestSESSender_SendEmail(t *testing.T) {
	var got sesRequest
	var path string
	sender := newTestSESSender(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"MessageId":"msg-1"}`))
	})

	err := New(sender).SendVerificationCode(context.Background(), "user@example.com", "482913")
	require.NoError(t, err)

	assert.Equal(t, "/v2/email/outbound-emails", path)
	assert.Equal(t, "noreply@tracker.test", got.FromEmailAddress)
	assert.Equal(t, []string{"user@example.com"}, got.Destination.ToAddresses)
	assert.Equal(t, "Investment Tracker - Verification Code", got.Content.Simple.Subject.Data)
	assert.Equal(t, "UTF-8", got.Content.Simple.Body.Html.Charset)
	assert.Contains(t, got.Content.Simple.Body.Html.Data, "482913")
}

func TestSESSender_SendEmail_Rejected(t *testing.T) {
	sender := newTestSESSender(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Amzn-ErrorType", "MessageRejected")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Email address is not verified."}`))
	})

	err := sender.SendEmail(context.Background(), "user@example.com", "subject", "<p>hi</p>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send email via SES")
}
