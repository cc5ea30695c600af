package mail

import (
	"context"

	"github.com/jhoicas/jobhunter-api/internal/application/ports"
	"github.com/jhoicas/jobhunter-api/pkg/logger"
)

var _ ports.Mailer = (*LogMailer)(nil)

// LogMailer no envía nada: deja el enlace de verificación en el log. Para desarrollo.
type LogMailer struct {
	log *logger.Logger
}

// NewLogMailer construye el mailer de log.
func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log.Component("mail")}
}

// SendVerification registra destinatario y enlace.
func (m *LogMailer) SendVerification(_ context.Context, mail ports.VerificationMail) error {
	m.log.Info().
		Str("to", mail.To).
		Str("link", mail.Link).
		Msg("correo de verificación (transporte log)")
	return nil
}
