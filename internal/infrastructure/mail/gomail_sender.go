// Package mail implementa el puerto Mailer sobre SMTP (gomail). Las
// plantillas son texto simple: el contenido exacto del mensaje no es parte
// del contrato del core, solo que el envío falle o no.
package mail

import (
	"context"
	"fmt"

	"github.com/tamayuz/platform-api/internal/application/ports"
	"github.com/tamayuz/platform-api/pkg/config"
	gomail "gopkg.in/gomail.v2"
)

// Ensure GomailSender implements ports.Mailer.
var _ ports.Mailer = (*GomailSender)(nil)

// GomailSender envía correos transaccionales por SMTP.
type GomailSender struct {
	dialer *gomail.Dialer
	sender string
}

// NewGomailSender construye el sender con la configuración SMTP.
func NewGomailSender(cfg config.SMTPConfig) *GomailSender {
	return &GomailSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		sender: cfg.Sender,
	}
}

// Send construye el mensaje según la plantilla y lo entrega por SMTP. El
// error se propaga tal cual: las transacciones de registro y checkout lo
// tratan como fatal y revierten.
func (s *GomailSender) Send(ctx context.Context, to string, kind ports.MailKind, data map[string]string) error {
	subject, body, err := render(kind, data)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	// gomail no acepta context; respetamos la cancelación antes de marcar.
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mail: enviar %s: %w", kind, err)
	}
	return nil
}

func render(kind ports.MailKind, data map[string]string) (subject, body string, err error) {
	name := data["name"]
	switch kind {
	case ports.MailSignupOTP:
		return "Código de verificación",
			fmt.Sprintf("Hola %s,\n\nTu código de verificación es: %s\nVence en 10 minutos.\n", name, data["otp"]),
			nil
	case ports.MailSubscriptionInfo:
		return "Resumen de tu suscripción",
			fmt.Sprintf("Hola %s,\n\nRecibimos tu selección (%s). Referencia: %s.\nTotal a pagar: $%s.\n\nTe avisaremos cuando el pago quede confirmado.\n",
				name, data["package"], data["uid"], data["payment"]),
			nil
	case ports.MailSubscriptionToken:
		return "Tu suscripción está activa",
			fmt.Sprintf("Hola %s,\n\nTu pago (ref %s) quedó confirmado. Usá este token para crear tu empresa o sucursal:\n\n    %s\n\nEl token es de un solo uso.\n",
				name, data["uid"], data["token"]),
			nil
	case ports.MailResetPassword:
		return "Recuperación de contraseña",
			fmt.Sprintf("Hola %s,\n\nTu código de recuperación es: %s\nVence en 10 minutos. Si no lo pediste, ignorá este correo.\n", name, data["otp"]),
			nil
	default:
		return "", "", fmt.Errorf("mail: plantilla desconocida %q", kind)
	}
}
