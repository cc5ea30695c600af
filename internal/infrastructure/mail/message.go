// Package mail entrega los correos de verificación: directo por SMTP, encolados en
// RabbitMQ para cmd/mailer, o solo al log en desarrollo.
package mail

import (
	"bytes"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/jobhunter-api/internal/application/ports"
)

const verificationSubject = "Activa tu cuenta de JobHunter"

var verificationTmpl = template.Must(template.New("verify").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Hola {{if .Name}}{{.Name}}{{else}}{{.To}}{{end}},</p>
<p>Gracias por registrarte. Para activar tu cuenta abre el siguiente enlace:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>Si no creaste esta cuenta puedes ignorar este correo.</p>
</body>
</html>
`))

// RenderVerification genera el cuerpo HTML del correo.
func RenderVerification(m ports.VerificationMail) (string, error) {
	var buf bytes.Buffer
	if err := verificationTmpl.Execute(&buf, m); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// NewVerificationMessage arma el mensaje listo para gomail.
func NewVerificationMessage(from string, m ports.VerificationMail) (*gomail.Message, error) {
	body, err := RenderVerification(m)
	if err != nil {
		return nil, err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", verificationSubject)
	msg.SetBody("text/html", body)
	return msg, nil
}
