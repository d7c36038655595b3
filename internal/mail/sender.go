package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/relieforg/reliefhub/internal/config"
	appErr "github.com/relieforg/reliefhub/internal/pkg/errors"
)

type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type smtpSender struct {
	cfg config.MailConfig
}

func NewSender(cfg config.MailConfig) Sender {
	return &smtpSender{cfg: cfg}
}

func (s *smtpSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	from := strings.TrimSpace(s.cfg.From)
	if s.cfg.Host == "" || s.cfg.Port == 0 || from == "" {
		return appErr.ErrInvalid
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	header := from
	if s.cfg.FromName != "" {
		header = fmt.Sprintf("%s <%s>", s.cfg.FromName, from)
	}
	msg := []byte("From: " + header + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" + htmlBody)
	return smtp.SendMail(addr, auth, from, []string{to}, msg)
}
