package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// Mailer delivers transactional email. The auth service only depends on
// this interface; tests substitute a fake.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, html string) error
}

const (
	fromAddress    = "PokerU <onboarding@resend.dev>"
	replyToAddress = "pokerufromtulane@gmail.com"
)

type ResendMailer struct {
	client *resend.Client
}

func NewResendMailer(apiKey string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey)}
}

func (m *ResendMailer) Send(ctx context.Context, to []string, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    fromAddress,
		To:      to,
		Subject: subject,
		Html:    html,
		ReplyTo: replyToAddress,
	}

	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	return nil
}
