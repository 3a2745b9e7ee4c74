// Package mail envía los correos transaccionales (recuperación de contraseña).
package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/brownson-api/internal/application/ports"
	"github.com/jhoicas/brownson-api/pkg/config"
	"github.com/jhoicas/brownson-api/pkg/logger"
)

var (
	_ ports.Mailer = (*SMTPMailer)(nil)
	_ ports.Mailer = (*LogMailer)(nil)
)

// sender abstrae gomail.Dialer para poder probar sin servidor SMTP.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer envía HTML vía SMTP con gomail.
type SMTPMailer struct {
	dialer sender
	from   string
}

// NewSMTPMailer construye el mailer con las credenciales de MailConfig.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send arma el mensaje y lo entrega. gomail no acepta contexto: se respeta una cancelación previa.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mail: enviar a %s: %w", to, err)
	}
	return nil
}

// LogMailer registra el correo en el log cuando no hay SMTP configurado (desarrollo).
type LogMailer struct {
	log *logger.Logger
}

// NewLogMailer construye el mailer de respaldo.
func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log.Component("mail")}
}

// Send escribe destinatario, asunto y cuerpo a nivel info.
func (m *LogMailer) Send(_ context.Context, to, subject, html string) error {
	m.log.Info().Str("to", to).Str("subject", subject).Str("html", html).Msg("correo no enviado (SMTP sin configurar)")
	return nil
}
