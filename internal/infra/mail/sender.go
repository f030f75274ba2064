package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	netmail "net/mail"
	"net/smtp"
	"strconv"

	"github.com/jordan-wright/email"
)

type Message struct {
	To      []string
	Subject string
	Body    string
}

type EmailSender interface {
	SendEmail(ctx context.Context, msg Message) error
}

type SmtpConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool // STARTTLS
	UseSSL   bool // implicit TLS
}

type SmtpSender struct {
	cf SmtpConfig
}

func NewSmtpSender(cf SmtpConfig) *SmtpSender {
	return &SmtpSender{cf: cf}
}

// SendEmail 寄送純文字郵件, 連線受 ctx 控制, ctx 結束即關閉連線
func (s *SmtpSender) SendEmail(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("mail has no recipients")
	}

	e := email.NewEmail()
	e.From = s.from()
	e.To = msg.To
	e.Subject = msg.Subject
	e.Text = []byte(msg.Body)

	err := s.send(ctx, e)
	if err != nil && ctx.Err() != nil {
		return fmt.Errorf("send mail: %w", ctx.Err())
	}
	return err
}

func (s *SmtpSender) send(ctx context.Context, e *email.Email) error {
	raw, err := e.Bytes()
	if err != nil {
		return fmt.Errorf("build mail: %w", err)
	}
	from, err := netmail.ParseAddress(e.From)
	if err != nil {
		return fmt.Errorf("parse sender: %w", err)
	}
	to := make([]string, 0, len(e.To))
	for _, addr := range e.To {
		parsed, err := netmail.ParseAddress(addr)
		if err != nil {
			return fmt.Errorf("parse recipient %q: %w", addr, err)
		}
		to = append(to, parsed.Address)
	}

	addr := net.JoinHostPort(s.cf.Host, strconv.Itoa(s.cf.Port))
	var dialer net.Dialer
	rawConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", addr, err)
	}
	defer rawConn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		if err := rawConn.SetDeadline(deadline); err != nil {
			return err
		}
	}
	// 無 deadline 的 ctx 被取消時也要中斷阻塞中的讀寫
	stop := context.AfterFunc(ctx, func() { rawConn.Close() })
	defer stop()

	conn := rawConn
	tlsConfig := &tls.Config{ServerName: s.cf.Host}
	if s.cf.UseSSL {
		conn = tls.Client(rawConn, tlsConfig)
	}

	c, err := smtp.NewClient(conn, s.cf.Host)
	if err != nil {
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if s.cf.UseTLS && !s.cf.UseSSL {
		if ok, _ := c.Extension("STARTTLS"); !ok {
			return errors.New("smtp server does not support STARTTLS")
		}
		if err := c.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if s.cf.Username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", s.cf.Username, s.cf.Password, s.cf.Host)
			if err := c.Auth(auth); err != nil {
				return fmt.Errorf("smtp auth: %w", err)
			}
		}
	}

	if err := c.Mail(from.Address); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func (s *SmtpSender) from() string {
	if s.cf.From != "" {
		return s.cf.From
	}
	return s.cf.Username
}
