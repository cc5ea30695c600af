package ports

import "context"

// VerificationMail datos del correo de verificación de cuenta.
type VerificationMail struct {
	To    string `json:"to"`
	Name  string `json:"name"`
	Token string `json:"token"`
	Link  string `json:"link"`
}

// Mailer puerto de salida para el envío de correos. Las implementaciones pueden
// entregar directamente (SMTP) o encolar (AMQP); el llamador no espera la entrega.
type Mailer interface {
	SendVerification(ctx context.Context, mail VerificationMail) error
}
