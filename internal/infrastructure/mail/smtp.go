package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/jobhunter-api/internal/application/ports"
	"github.com/jhoicas/jobhunter-api/pkg/config"
)

var _ ports.Mailer = (*SMTPMailer)(nil)

// SMTPMailer envía el correo en el momento por SMTP.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer construye el mailer desde la configuración.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.From,
	}
}

// SendVerification arma y entrega el correo. gomail no acepta contexto: solo se
// comprueba la cancelación antes de abrir la conexión.
func (m *SMTPMailer) SendVerification(ctx context.Context, mail ports.VerificationMail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := NewVerificationMessage(m.from, mail)
	if err != nil {
		return fmt.Errorf("armar correo: %w", err)
	}
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}
