package ports

import "context"

// MailKind identifica la plantilla de correo a enviar.
type MailKind string

const (
	MailSignupOTP         MailKind = "signup_otp"
	MailSubscriptionInfo  MailKind = "subscription_info"
	MailSubscriptionToken MailKind = "subscription_token"
	MailResetPassword     MailKind = "reset_password"
)

// Mailer define el puerto de salida para notificaciones por correo.
// Los casos de uso de registro y onboarding tratan un fallo de envío como
// fatal: la transacción que lo envuelve hace rollback completo.
type Mailer interface {
	Send(ctx context.Context, to string, kind MailKind, data map[string]string) error
}
