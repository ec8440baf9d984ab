// Package email sends account lifecycle mail over SMTP.
package email

import (
	"context"
	"fmt"
	"strings"
)

// Email is one outbound message.
type Email struct {
	To       []string
	From     string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers a composed email. SMTPSender is the production
// implementation; tests substitute a recorder.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// Service composes the store's transactional mail and implements
// auth.Mailer.
type Service struct {
	sender    Sender
	storeName string
	baseURL   string
}

// NewService creates an email service. baseURL is the public origin used
// to build absolute links.
func NewService(sender Sender, storeName, baseURL string) *Service {
	return &Service{
		sender:    sender,
		storeName: storeName,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
	}
}

// SendSignupConfirmation welcomes a new admin account and links back to the
// page the signup started from.
func (s *Service) SendSignupConfirmation(ctx context.Context, email, redirectTarget string) error {
	link := s.baseURL + redirectTarget

	msg := &Email{
		To:      []string{email},
		Subject: fmt.Sprintf("Welcome to %s", s.storeName),
		TextBody: fmt.Sprintf(
			"Your %s account has been created.\n\nContinue here: %s\n\nIf you did not create this account, you can ignore this message.",
			s.storeName, link),
		HTMLBody: fmt.Sprintf(
			`<p>Your %s account has been created.</p><p><a href="%s">Continue to the admin panel</a></p><p>If you did not create this account, you can ignore this message.</p>`,
			s.storeName, link),
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send signup confirmation: %w", err)
	}
	return nil
}
