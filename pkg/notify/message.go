package notify

import (
	"context"
)

// Template names a notification layout
type Template string

const (
	TemplateSignupConfirmation    Template = "signup_confirmation"
	TemplateOrganizationNewSignup Template = "organization_new_signup"
	TemplateSignupCancelled       Template = "signup_cancelled"
	TemplateEmailVerification     Template = "email_verification"
)

// Message is a single notification for one recipient
type Message struct {
	Recipient string            `json:"recipient"`
	Template  Template          `json:"template"`
	Data      map[string]string `json:"data"`
}

// Notifier accepts messages for best-effort delivery. Notify never blocks on
// delivery and never reports failures to the caller.
type Notifier interface {
	Notify(ctx context.Context, msg Message)
}

// Sender delivers a message through one channel
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NopNotifier discards every message
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Message) {}
