package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"swr/internal/services"
)

// Config describes the SMTP delivery settings for report email.
type Config struct {
	From     string
	To       []string
	SMTPHost string
	SMTPPort int
	SMTPUser string
	Password string
}

// Service sends the weekly report by email over SMTP with STARTTLS.
type Service struct {
	cfg    Config
	sendFn func(ctx context.Context, msg *gomail.Msg) error
}

// NewService creates a mail service with the given configuration.
func NewService(cfg Config) *Service {
	svc := &Service{cfg: cfg}
	svc.sendFn = svc.dialAndSend
	return svc
}

// WithSendFunc sets a custom delivery function (for testing).
func (s *Service) WithSendFunc(fn func(ctx context.Context, msg *gomail.Msg) error) {
	s.sendFn = fn
}

// Configured reports whether enough settings exist to attempt delivery.
func (s *Service) Configured() bool {
	return s.cfg.From != "" && len(s.cfg.To) > 0 && s.cfg.SMTPHost != "" && s.cfg.Password != ""
}

// Send delivers the report as a multipart message with a plain-text body and
// an HTML alternative.
func (s *Service) Send(ctx context.Context, subject, textBody, htmlBody string) error {
	if !s.Configured() {
		return services.Wrap(services.ErrConfiguration, "report", "email-send",
			"email delivery is not fully configured", nil)
	}

	msg := gomail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return services.Wrap(services.ErrConfiguration, "report", "email-send",
			fmt.Sprintf("invalid sender address %q", s.cfg.From), err)
	}
	if err := msg.To(s.cfg.To...); err != nil {
		return services.Wrap(services.ErrConfiguration, "report", "email-send",
			"invalid recipient address", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, textBody)
	if htmlBody != "" {
		msg.AddAlternativeString(gomail.TypeTextHTML, htmlBody)
	}

	if err := s.sendFn(ctx, msg); err != nil {
		return services.Wrap(services.ErrExternalTool, "report", "email-send",
			fmt.Sprintf("deliver via %s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort), err)
	}
	return nil
}

func (s *Service) dialAndSend(ctx context.Context, msg *gomail.Msg) error {
	client, err := gomail.NewClient(s.cfg.SMTPHost,
		gomail.WithPort(s.cfg.SMTPPort),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.SMTPUser),
		gomail.WithPassword(s.cfg.Password),
	)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}
