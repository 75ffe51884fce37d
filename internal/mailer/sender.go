package mailer

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"appnity/internal/config"
	"appnity/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Message: одно письмо; HTML и Text уходят как multipart/alternative.
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
	// Kind попадает только в логи.
	Kind string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender выбирает SMTP, если он настроен, иначе письма только логируются.
func NewSender(cfg *config.Config) Sender {
	if cfg.SMTPConfigured() {
		return NewSMTPSender(cfg)
	}
	logger.Log.Warn("SMTP не настроен, письма будут только логироваться")
	return LogSender{}
}

type SMTPSender struct {
	auth smtp.Auth
	from string
	addr string
	// подменяется в тестах
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(cfg *config.Config) *SMTPSender {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &SMTPSender{
		auth: auth,
		from: cfg.MailFrom,
		addr: fmt.Sprintf("%s:%s", cfg.SMTPHost, cfg.SMTPPort),
		send: smtp.SendMail,
	}
}

func (s *SMTPSender) Send(_ context.Context, msg Message) error {
	raw, err := buildMIME(s.from, msg, time.Now())
	if err != nil {
		return err
	}
	return s.send(s.addr, s.auth, s.from, msg.To, raw)
}

func buildMIME(from string, msg Message, now time.Time) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	parts := []struct{ ctype, content string }{
		{"text/plain; charset=utf-8", msg.Text},
		{"text/html; charset=utf-8", msg.HTML},
	}
	for _, p := range parts {
		if p.content == "" {
			continue
		}
		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.ctype},
			"Content-Transfer-Encoding": {"8bit"},
		})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "From: %s\r\n", from)
	fmt.Fprintf(&out, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&out, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&out, "Date: %s\r\n", now.Format(time.RFC1123Z))
	fmt.Fprintf(&out, "Message-ID: <%s@appnity>\r\n", uuid.NewString())
	out.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&out, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mw.Boundary())
	out.Write(body.Bytes())
	return out.Bytes(), nil
}

// LogSender ничего не отправляет, только пишет в лог.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	logger.WithCtx(ctx).Info("Письмо (не отправлено, SMTP выключен)",
		zap.String("kind", msg.Kind),
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
