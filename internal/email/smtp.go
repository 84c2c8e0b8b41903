package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"time"

	"finmatch-backend/internal/config"
)

// SMTPTransport sends through an SMTP relay such as Gmail with an app
// password. Port 465 uses implicit TLS; other ports upgrade with STARTTLS
// when the server offers it.
type SMTPTransport struct {
	host        string
	port        string
	username    string
	password    string
	implicitTLS bool
	tlsConfig   *tls.Config
	dialTimeout time.Duration
}

func NewSMTPTransport(cfg config.EmailConfig) *SMTPTransport {
	return &SMTPTransport{
		host:        cfg.SMTPHost,
		port:        cfg.SMTPPort,
		username:    cfg.SMTPUsername,
		password:    cfg.SMTPPassword,
		implicitTLS: cfg.UseSSL,
		tlsConfig:   &tls.Config{ServerName: cfg.SMTPHost, MinVersion: tls.VersionTLS12},
		dialTimeout: 30 * time.Second,
	}
}

func (t *SMTPTransport) Name() string { return "smtp" }

// Verify connects, negotiates TLS and authenticates, then quits.
func (t *SMTPTransport) Verify(ctx context.Context) error {
	c, err := t.connect(ctx)
	if err != nil {
		return err
	}
	return c.Quit()
}

func (t *SMTPTransport) Send(ctx context.Context, msg *Message) (string, error) {
	raw, err := buildMessage(msg, time.Now())
	if err != nil {
		return "", err
	}

	c, err := t.connect(ctx)
	if err != nil {
		return "", err
	}
	defer c.Close()

	if err := c.Mail(msg.From); err != nil {
		return "", fmt.Errorf("mail from: %w", err)
	}
	if err := c.Rcpt(msg.To); err != nil {
		return "", fmt.Errorf("rcpt to: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return "", fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return "", fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("end data: %w", err)
	}
	if err := c.Quit(); err != nil {
		return "", fmt.Errorf("quit: %w", err)
	}
	return msg.ID, nil
}

func (t *SMTPTransport) connect(ctx context.Context) (*smtp.Client, error) {
	if t.username == "" || t.password == "" {
		return nil, errors.New("smtp credentials not configured")
	}

	addr := net.JoinHostPort(t.host, t.port)
	dialer := &net.Dialer{Timeout: t.dialTimeout}

	var (
		conn net.Conn
		err  error
	)
	if t.implicitTLS {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: t.tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, t.host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("smtp handshake: %w", err)
	}

	if !t.implicitTLS {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(t.tlsConfig); err != nil {
				c.Close()
				return nil, fmt.Errorf("starttls: %w", err)
			}
		}
	}

	if err := c.Auth(smtp.PlainAuth("", t.username, t.password, t.host)); err != nil {
		c.Close()
		return nil, fmt.Errorf("smtp auth: %w", err)
	}
	return c, nil
}

// buildMessage writes an RFC 5322 message with text and HTML alternatives.
func buildMessage(msg *Message, now time.Time) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	parts := []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=UTF-8", msg.Text},
		{"text/html; charset=UTF-8", msg.HTML},
	}
	for _, p := range parts {
		if p.content == "" {
			continue
		}
		h := textproto.MIMEHeader{}
		h.Set("Content-Type", p.contentType)
		h.Set("Content-Transfer-Encoding", "quoted-printable")
		pw, err := mw.CreatePart(h)
		if err != nil {
			return nil, err
		}
		qw := quotedprintable.NewWriter(pw)
		if _, err := qw.Write([]byte(p.content)); err != nil {
			return nil, err
		}
		if err := qw.Close(); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	from := mail.Address{Name: msg.FromName, Address: msg.From}
	to := mail.Address{Address: msg.To}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from.String())
	fmt.Fprintf(&buf, "To: %s\r\n", to.String())
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", now.Format(time.RFC1123Z))
	if msg.ID != "" {
		fmt.Fprintf(&buf, "Message-ID: %s\r\n", msg.ID)
	}
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n", mw.Boundary())
	buf.WriteString("\r\n")
	buf.Write(body.Bytes())
	return buf.Bytes(), nil
}
