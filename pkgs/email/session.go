package email

import (
	"log/slog"

	"github.com/mailtool/cli/pkgs/config"
)

// Dialer establishes authenticated protocol sessions. Errors come back
// already classified with a Kind.
type Dialer interface {
	DialIMAP() (IMAPSession, error)
	DialSMTP() (SMTPSession, error)
}

// NewDialer returns the TLS network dialer for cfg.
func NewDialer(cfg *config.Config) Dialer {
	return &netDialer{cfg: cfg}
}

type netDialer struct {
	cfg *config.Config

	// insecure skips TLS so tests can dial in-memory servers.
	insecure bool
}

// Sessions owns at most one live IMAP session and one live SMTP
// session. Acquisition is lazy. A session that saw a failed operation
// must be dropped via Invalidate* so the next attempt redials; it is
// never reused in an unknown state.
type Sessions struct {
	dialer Dialer
	logger *slog.Logger

	imap IMAPSession
	smtp SMTPSession
}

func NewSessions(dialer Dialer, logger *slog.Logger) *Sessions {
	return &Sessions{dialer: dialer, logger: logger}
}

// IMAP returns the live IMAP session, dialing one if absent.
func (s *Sessions) IMAP() (IMAPSession, error) {
	if s.imap != nil {
		return s.imap, nil
	}
	sess, err := s.dialer.DialIMAP()
	if err != nil {
		return nil, err
	}
	s.logger.Debug("IMAP session established")
	s.imap = sess
	return sess, nil
}

// SMTP returns the live SMTP session, dialing one if absent.
func (s *Sessions) SMTP() (SMTPSession, error) {
	if s.smtp != nil {
		return s.smtp, nil
	}
	sess, err := s.dialer.DialSMTP()
	if err != nil {
		return nil, err
	}
	s.logger.Debug("SMTP session established")
	s.smtp = sess
	return sess, nil
}

// InvalidateIMAP drops the cached IMAP session without a clean logout.
func (s *Sessions) InvalidateIMAP() { s.imap = nil }

// InvalidateSMTP drops the cached SMTP session without a clean quit.
func (s *Sessions) InvalidateSMTP() { s.smtp = nil }

// Close logs out of IMAP and quits SMTP best-effort. Failures are
// logged and swallowed; both slots are always cleared. Safe to call
// when nothing was ever opened.
func (s *Sessions) Close() {
	if s.imap != nil {
		if err := s.imap.Logout(); err != nil {
			s.logger.Warn("IMAP logout failed", "error", err)
		}
		s.imap = nil
	}
	if s.smtp != nil {
		if err := s.smtp.Quit(); err != nil {
			s.logger.Warn("SMTP quit failed", "error", err)
		}
		s.smtp = nil
	}
}
