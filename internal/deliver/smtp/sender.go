package smtp

import (
	"fmt"
	"net/smtp"

	"github.com/jhillyerd/enmime"

	"memberdoc/internal"
	"memberdoc/internal/config"
)

// Sender delivers documents over plain SMTP with the MIME message built by
// enmime.
type Sender struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSender(cfg config.Config) (*Sender, error) {
	if err := cfg.Require("SMTP_HOST", cfg.SMTPHost); err != nil {
		return nil, err
	}

	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}

	return &Sender{
		addr: fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		auth: auth,
		from: cfg.SMTPFrom,
	}, nil
}

func (s *Sender) Send(req internal.DeliveryRequest) error {
	if req.To == "" {
		return fmt.Errorf("delivery request has no recipient")
	}

	builder := enmime.Builder().
		From("", s.from).
		To("", req.To).
		Subject(req.Subject).
		Text([]byte(req.Body)).
		AddAttachment(req.PDF, "application/pdf", req.Filename)

	if err := builder.Send(enmime.NewSMTP(s.addr, s.auth)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", req.To, err)
	}
	return nil
}
