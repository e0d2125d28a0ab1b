package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// EmailService defines the interface for sending verification emails
type EmailService interface {
	SendVerificationCode(ctx context.Context, email, code string, expiresAt time.Time) error
	SendPasswordResetCode(ctx context.Context, email, code string, expiresAt time.Time) error
}

// AWSSESEmailService sends emails using AWS SES
type AWSSESEmailService struct {
	sesClient   *ses.Client
	fromAddress string
	logger      *slog.Logger
}

// NewAWSSESEmailService creates a new AWS SES email service
func NewAWSSESEmailService(region, fromAddress string, logger *slog.Logger) (*AWSSESEmailService, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESEmailService{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		logger:      logger,
	}, nil
}

// SendVerificationCode emails the account verification code to the user
func (s *AWSSESEmailService) SendVerificationCode(ctx context.Context, email, code string, expiresAt time.Time) error {
	minutes := int(time.Until(expiresAt).Round(time.Minute).Minutes())

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #f8f9fa; padding: 20px; text-align: center; border-radius: 4px; }
        .code { font-size: 32px; letter-spacing: 8px; text-align: center; font-weight: bold; padding: 16px 0; }
        .footer { color: #666; font-size: 12px; margin-top: 20px; padding-top: 20px; border-top: 1px solid #eee; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Verify Your Account</h1>
        </div>
        <p>Welcome! Enter this code to verify your account:</p>
        <div class="code">%s</div>
        <p>The code expires in %d minutes. Requesting a new code invalidates this one.</p>
        <p><strong>Didn't create this account?</strong><br>
        If you didn't sign up, you can ignore this email. Your account will not be verified.</p>
        <div class="footer">
            <p>This is an automated message. Please do not reply to this email.</p>
        </div>
    </div>
</body>
</html>
`, code, minutes)

	textBody := fmt.Sprintf(`Verify Your Account

Welcome! Enter this code to verify your account:

%s

The code expires in %d minutes. Requesting a new code invalidates this one.

Didn't create this account?
If you didn't sign up, you can ignore this email. Your account will not be verified.

This is an automated message. Please do not reply to this email.
`, code, minutes)

	return s.send(ctx, email, "Your verification code", htmlBody, textBody)
}

// SendPasswordResetCode emails the password reset code to the user
func (s *AWSSESEmailService) SendPasswordResetCode(ctx context.Context, email, code string, expiresAt time.Time) error {
	minutes := int(time.Until(expiresAt).Round(time.Minute).Minutes())

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #f8f9fa; padding: 20px; text-align: center; border-radius: 4px; }
        .code { font-size: 32px; letter-spacing: 8px; text-align: center; font-weight: bold; padding: 16px 0; }
        .footer { color: #666; font-size: 12px; margin-top: 20px; padding-top: 20px; border-top: 1px solid #eee; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Reset Your Password</h1>
        </div>
        <p>We received a request to reset your password. Enter this code to continue:</p>
        <div class="code">%s</div>
        <p>The code expires in %d minutes. Requesting a new code invalidates this one.</p>
        <p><strong>Didn't request a reset?</strong><br>
        If you didn't ask to reset your password, you can ignore this email. Your password will not change.</p>
        <div class="footer">
            <p>This is an automated message. Please do not reply to this email.</p>
        </div>
    </div>
</body>
</html>
`, code, minutes)

	textBody := fmt.Sprintf(`Reset Your Password

We received a request to reset your password. Enter this code to continue:

%s

The code expires in %d minutes. Requesting a new code invalidates this one.

Didn't request a reset?
If you didn't ask to reset your password, you can ignore this email. Your password will not change.

This is an automated message. Please do not reply to this email.
`, code, minutes)

	return s.send(ctx, email, "Your password reset code", htmlBody, textBody)
}

func (s *AWSSESEmailService) send(ctx context.Context, email, subject, htmlBody, textBody string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := s.sesClient.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send email via SES",
			slog.String("email", email),
			slog.String("subject", subject),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("email sent",
		slog.String("email", email),
		slog.String("subject", subject),
		slog.String("message_id", *result.MessageId))

	return nil
}
