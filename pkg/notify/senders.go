package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// LogSender writes rendered notifications to the log instead of delivering them
type LogSender struct {
	Logger *zap.Logger
}

func (s LogSender) Send(ctx context.Context, msg Message) error {
	subject, body, err := Render(msg)
	if err != nil {
		return err
	}
	s.Logger.Info("Notification",
		zap.String("recipient", msg.Recipient),
		zap.String("template", string(msg.Template)),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}

// EmailClient sends one HTML email
type EmailClient interface {
	SendHTMLEmail(to, subject, htmlBody string) error
}

// GmailSender renders messages and sends them as email
type GmailSender struct {
	Client EmailClient
}

func (s GmailSender) Send(ctx context.Context, msg Message) error {
	subject, body, err := Render(msg)
	if err != nil {
		return err
	}
	if err := s.Client.SendHTMLEmail(msg.Recipient, subject, body); err != nil {
		return fmt.Errorf("failed to email %s: %w", msg.Recipient, err)
	}
	return nil
}
