package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/emersion/go-message/mail"
)

const dialTimeout = 30 * time.Second

// ErrNotConfigured is returned when no SMTP credentials are set.
var ErrNotConfigured = errors.New("smtp credentials not configured")

// Config holds the outbound SMTP settings.
type Config struct {
	Host     string
	Port     int
	UseSSL   bool // implicit TLS; STARTTLS otherwise
	Username string
	Password string
	Sender   string
}

// SMTPMailer sends plain-text notification emails.
type SMTPMailer struct {
	cfg  Config
	now  func() time.Time
	send func(ctx context.Context, from, to string, msg []byte) error
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	m := &SMTPMailer{cfg: cfg, now: time.Now}
	m.send = m.deliver
	return m
}

// Send composes and delivers one message.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.cfg.Username == "" || m.cfg.Password == "" {
		return ErrNotConfigured
	}
	msg, err := m.compose(to, subject, body)
	if err != nil {
		return err
	}
	return m.send(ctx, m.sender(), to, msg)
}

func (m *SMTPMailer) sender() string {
	if m.cfg.Sender != "" {
		return m.cfg.Sender
	}
	return m.cfg.Username
}

func (m *SMTPMailer) compose(to, subject, body string) ([]byte, error) {
	from, err := mail.ParseAddress(m.sender())
	if err != nil {
		return nil, fmt.Errorf("parsing sender: %w", err)
	}
	rcpt, err := mail.ParseAddress(to)
	if err != nil {
		return nil, fmt.Errorf("parsing recipient: %w", err)
	}

	var h mail.Header
	h.SetDate(m.now())
	h.SetAddressList("From", []*mail.Address{from})
	h.SetAddressList("To", []*mail.Address{rcpt})
	h.SetSubject(subject)
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("generating message id: %w", err)
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}
	if _, err := w.Write([]byte(body)); err != nil {
		return nil, fmt.Errorf("writing message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing message: %w", err)
	}
	return buf.Bytes(), nil
}

func (m *SMTPMailer) deliver(ctx context.Context, from, to string, msg []byte) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	tlsConfig := &tls.Config{ServerName: m.cfg.Host}

	var (
		conn net.Conn
		err  error
	)
	if m.cfg.UseSSL {
		d := &tls.Dialer{NetDialer: &net.Dialer{Timeout: dialTimeout}, Config: tlsConfig}
		conn, err = d.DialContext(ctx, "tcp", addr)
	} else {
		d := &net.Dialer{Timeout: dialTimeout}
		conn, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("dial to %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer client.Close()

	if !m.cfg.UseSSL {
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("SMTP STARTTLS: %w", err)
		}
	}

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth: %w", err)
	}
	return sendViaClient(client, from, to, msg)
}

// sendViaClient sends a message using an already-authenticated SMTP client.
func sendViaClient(client *smtp.Client, from, to string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("SMTP MAIL FROM: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("SMTP RCPT TO: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA: %w", err)
	}
	if _, err := writer.Write(msg); err != nil {
		return fmt.Errorf("writing email body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing email body: %w", err)
	}
	return client.Quit()
}
