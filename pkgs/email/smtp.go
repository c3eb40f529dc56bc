package email

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// SMTPSession is the slice of SMTP the send operation needs from a
// live, authenticated connection.
type SMTPSession interface {
	Send(from string, to []string, raw []byte) error
	Quit() error
}

// DialSMTP connects, upgrades with STARTTLS and authenticates with
// PLAIN. Classification mirrors DialIMAP: SMTP protocol errors are
// SMTP_CONNECTION_FAILED, a refused AUTH is AUTHENTICATION_FAILED,
// anything else is NETWORK_ERROR.
func (d *netDialer) DialSMTP() (SMTPSession, error) {
	addr := fmt.Sprintf("%s:%d", d.cfg.SMTPServer, d.cfg.SMTPPort)

	var c *smtp.Client
	var err error
	if d.insecure {
		c, err = smtp.Dial(addr)
	} else {
		c, err = smtp.DialStartTLS(addr, &tls.Config{ServerName: d.cfg.SMTPServer})
	}
	if err != nil {
		kind := KindNetworkError
		var smtpErr *smtp.SMTPError
		if errors.As(err, &smtpErr) {
			kind = KindSMTPConnectionFailed
		}
		return nil, &OpError{Kind: kind, Err: fmt.Errorf("connect to SMTP server %s: %w", addr, err)}
	}

	auth := sasl.NewPlainClient("", d.cfg.Email, d.cfg.Password)
	if err := c.Auth(auth); err != nil {
		c.Close()
		kind := KindNetworkError
		var smtpErr *smtp.SMTPError
		if errors.As(err, &smtpErr) {
			kind = KindAuthenticationFailed
		}
		return nil, &OpError{Kind: kind, Err: fmt.Errorf("SMTP auth: %w", err)}
	}

	return &smtpConn{c: c}, nil
}

// smtpConn adapts smtp.Client to SMTPSession.
type smtpConn struct {
	c *smtp.Client
}

func (s *smtpConn) Send(from string, to []string, raw []byte) error {
	return s.c.SendMail(from, to, bytes.NewReader(raw))
}

func (s *smtpConn) Quit() error {
	return s.c.Quit()
}

// buildTextMessage renders a plain-text UTF-8 message with Date, From,
// To and Subject headers.
func buildTextMessage(from, to, subject, body string) ([]byte, error) {
	var buf bytes.Buffer

	var header mail.Header
	header.SetDate(time.Now())
	header.SetSubject(subject)
	header.SetAddressList("From", []*mail.Address{{Address: from}})
	header.SetAddressList("To", []*mail.Address{{Address: to}})

	iw, err := mail.CreateInlineWriter(&buf, header)
	if err != nil {
		return nil, err
	}

	var th mail.InlineHeader
	th.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	w, err := iw.CreatePart(th)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(w, body); err != nil {
		return nil, err
	}
	w.Close()

	if err := iw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
