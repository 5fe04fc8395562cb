// Package ses delivers mailer.Email values through the Amazon SES v2 API.
package ses

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/contactsite/pkg/mailer"
)

// API is the subset of the SES client used by Sender.
type API interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Sender implements mailer.Sender.
type Sender struct {
	api              API
	configurationSet string
}

// New loads AWS configuration and builds an SES client with SDK retries
// disabled, so each Send is a single API call.
func New(ctx context.Context, cfg Config) (*Sender, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	client := sesv2.NewFromConfig(awsCfg, func(o *sesv2.Options) {
		o.RetryMaxAttempts = 1
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewWithAPI(client, cfg.ConfigurationSet), nil
}

// NewWithAPI wraps an existing client.
func NewWithAPI(api API, configurationSet string) *Sender {
	return &Sender{api: api, configurationSet: configurationSet}
}

// Send makes one SendEmail call.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if email.From == "" {
		return mailer.ErrNoSender
	}
	if len(email.Attachments) > 0 {
		return ErrAttachments
	}

	body := &types.Body{}
	if email.HTML != "" {
		body.Html = utf8Content(email.HTML)
	}
	if email.Text != "" {
		body.Text = utf8Content(email.Text)
	}

	msg := &types.Message{
		Subject: utf8Content(email.Subject),
		Body:    body,
	}
	for _, k := range slices.Sorted(maps.Keys(email.Headers)) {
		msg.Headers = append(msg.Headers, types.MessageHeader{
			Name:  aws.String(k),
			Value: aws.String(email.Headers[k]),
		})
	}

	in := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(email.From),
		Destination: &types.Destination{
			ToAddresses:  email.To,
			CcAddresses:  email.CC,
			BccAddresses: email.BCC,
		},
		Content: &types.EmailContent{Simple: msg},
	}
	if email.ReplyTo != "" {
		in.ReplyToAddresses = []string{email.ReplyTo}
	}
	if s.configurationSet != "" {
		in.ConfigurationSetName = aws.String(s.configurationSet)
	}
	for _, k := range slices.Sorted(maps.Keys(email.Tags)) {
		in.EmailTags = append(in.EmailTags, types.MessageTag{
			Name:  aws.String(k),
			Value: aws.String(tagValue(email.Tags[k])),
		})
	}

	if _, err := s.api.SendEmail(ctx, in); err != nil {
		return classify(err)
	}
	return nil
}

// classify maps SES API error codes to package sentinels.
func classify(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return errors.Join(ErrDeliver, err)
	}
	switch apiErr.ErrorCode() {
	case "MessageRejected", "MailFromDomainNotVerifiedException", "AccountSuspendedException",
		"SendingPausedException", "BadRequestException", "NotFoundException":
		return errors.Join(ErrRejected, err)
	case "TooManyRequestsException", "LimitExceededException", "Throttling", "ThrottlingException":
		return errors.Join(ErrThrottled, err)
	default:
		return errors.Join(ErrDeliver, err)
	}
}

func utf8Content(s string) *types.Content {
	return &types.Content{Data: aws.String(s), Charset: aws.String("UTF-8")}
}

// tagValue renders a tag value; presence-only tags become "true".
func tagValue(v any) string {
	switch val := v.(type) {
	case nil, struct{}:
		return "true"
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
