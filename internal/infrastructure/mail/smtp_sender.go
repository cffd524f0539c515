package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/gestionale/backend/internal/domain/settings"
	"github.com/gestionale/backend/internal/domain/shared"
)

// SMTPSender delivers mail through the SMTP server configured in the
// settings aggregate. Configuration arrives per call, so edits through the
// settings API take effect without a restart.
type SMTPSender struct {
	logger *zap.Logger
}

// NewSMTPSender creates a new SMTP sender
func NewSMTPSender(logger *zap.Logger) *SMTPSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPSender{logger: logger}
}

// Send delivers a plain-text message to a single recipient
func (s *SMTPSender) Send(ctx context.Context, cfg settings.SMTPConfig, to, subject, body string) error {
	if !cfg.IsComplete() {
		return shared.NewDomainError("INVALID_STATE", "SMTP configuration is incomplete")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	msg := buildMessage(cfg.From, to, subject, body)

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	var err error
	if cfg.UseTLS {
		err = s.sendTLS(addr, cfg, auth, to, msg)
	} else {
		err = smtp.SendMail(addr, auth, cfg.From, []string{to}, msg)
	}
	if err != nil {
		s.logger.Warn("Mail delivery failed",
			zap.String("host", cfg.Host),
			zap.String("to", to),
			zap.Error(err),
		)
		return shared.NewDomainError("MAIL_ERROR", "Failed to deliver mail: "+err.Error())
	}

	s.logger.Info("Mail delivered", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// sendTLS dials with implicit TLS, the mode used by providers listening on 465
func (s *SMTPSender) sendTLS(addr string, cfg settings.SMTPConfig, auth smtp.Auth, to string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: cfg.Host})
	if err != nil {
		return err
	}

	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	if err := client.Mail(cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}
