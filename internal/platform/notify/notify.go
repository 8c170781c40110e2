// Package notify sends the optional end-of-run email summary through Resend.
package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/mwozniak/jobrank/internal/config"
)

// Notifier sends run summaries by email. A zero-value Config disables it.
type Notifier struct {
	client *resend.Client
	from   string
	to     string
}

// Enabled reports whether cfg has everything needed to send mail.
func Enabled(cfg config.NotifyConfig) bool {
	return cfg.APIKey != "" && cfg.FromAddr != "" && cfg.ToAddr != ""
}

// New creates a Notifier.
func New(cfg config.NotifyConfig) *Notifier {
	return &Notifier{
		client: resend.NewClient(cfg.APIKey),
		from:   cfg.FromAddr,
		to:     cfg.ToAddr,
	}
}

// SendRunSummary emails a plain-text run summary.
func (n *Notifier) SendRunSummary(ctx context.Context, subject, body string) error {
	_, err := n.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{n.to},
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return fmt.Errorf("send run summary email: %w", err)
	}
	return nil
}
