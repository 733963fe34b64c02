package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/invest_tracker/config"
	"github.com/KotFed0t/invest_tracker/utils"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESSender is a thin wrapper around AWS SES. It only sends pre-rendered HTML.
type SESSender struct {
	client    *sesv2.Client
	fromEmail string
}

// NewSESSender loads AWS credentials from the environment. cfg.Email.Endpoint overrides the SES endpoint.
func NewSESSender(ctx context.Context, cfg *config.Config) (*SESSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Email.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(awsCfg, func(o *sesv2.Options) {
		if cfg.Email.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Email.Endpoint)
		}
	})

	return newSESSender(client, cfg.Email.From), nil
}

func newSESSender(client *sesv2.Client, fromEmail string) *SESSender {
	return &SESSender{client: client, fromEmail: fromEmail}
}

func (s *SESSender) SendEmail(ctx context.Context, to, subject, html string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(html),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}

	slog.Debug(
		"email accepted by SES",
		slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
		slog.String("messageID", aws.ToString(result.MessageId)),
	)

	return nil
}
