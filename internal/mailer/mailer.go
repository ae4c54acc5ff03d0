// Package mailer delivers one-time codes over SMTP.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"immo/backend/internal/config"
	"immo/backend/internal/models"

	"github.com/wneessen/go-mail"
)

// Sender implements auth.CodeSender on top of an SMTP relay.
type Sender struct {
	client  *mail.Client
	from    string
	codeTTL time.Duration
	logger  *slog.Logger
}

// New builds a Sender from the SMTP settings. Credentials are optional.
func New(cfg *config.Config, logger *slog.Logger) (*Sender, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTimeout(10 * time.Second),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.SMTPUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUsername),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}
	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sender{client: client, from: cfg.MailFrom, codeTTL: cfg.OTPTTL, logger: logger}, nil
}

// SendCode mails the code to email.
func (s *Sender) SendCode(ctx context.Context, email string, purpose models.CodePurpose, code string) error {
	msg, err := s.build(email, purpose, code)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		s.logger.Error("send one-time code failed", "email", email, "purpose", purpose, "error", err)
		return fmt.Errorf("send code: %w", err)
	}
	s.logger.Info("one-time code sent", "email", email, "purpose", purpose)
	return nil
}

func (s *Sender) build(email string, purpose models.CodePurpose, code string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(email); err != nil {
		return nil, fmt.Errorf("recipient address: %w", err)
	}
	subject, intro := "Votre code de vérification", "Voici votre code de vérification :"
	if purpose == models.CodeRecovery {
		subject, intro = "Votre code de réinitialisation", "Voici votre code de réinitialisation du mot de passe :"
	}
	msg.Subject(subject)
	msg.SetDate()
	body := fmt.Sprintf("Bonjour,\n\n%s %s\n\nCe code expire dans %d minutes.\n", intro, code, int(s.codeTTL.Minutes()))
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}
