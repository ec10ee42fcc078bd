package notification

import (
	"context"
	"fmt"
	"time"

	"resto_admin_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender delivers confirmations via a direct SMTP connection using go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates an SMTPSender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

// Compile-time check that SMTPSender implements ConfirmationSender.
var _ ConfirmationSender = (*SMTPSender)(nil)

// SendOrderConfirmation renders and delivers the confirmation email.
func (s *SMTPSender) SendOrderConfirmation(ctx context.Context, recipient string, confirmation OrderConfirmation) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(confirmationSubject(confirmation))
	msg.SetBodyString(gomail.TypeTextHTML, renderConfirmationHTML(confirmation))

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
