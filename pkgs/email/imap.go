package email

import (
	"errors"
	"fmt"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

// IMAPSession is the slice of IMAP the operations need from a live,
// authenticated connection.
type IMAPSession interface {
	// Select opens a mailbox.
	Select(folder string) error
	// SearchAll returns the sequence numbers of every message in the
	// selected mailbox, oldest first.
	SearchAll() ([]uint32, error)
	// FetchRaw returns the full RFC 822 bytes of one message.
	FetchRaw(id uint32) ([]byte, error)
	// Logout ends the session cleanly.
	Logout() error
}

// DialIMAP connects over TLS and authenticates. Dial failures are
// classified: protocol-level rejections are IMAP_CONNECTION_FAILED,
// a refused login is AUTHENTICATION_FAILED, anything else (DNS,
// socket, timeout) is NETWORK_ERROR.
func (d *netDialer) DialIMAP() (IMAPSession, error) {
	addr := fmt.Sprintf("%s:%d", d.cfg.IMAPServer, d.cfg.IMAPPort)

	var c *imapclient.Client
	var err error
	if d.insecure {
		c, err = imapclient.DialInsecure(addr, &imapclient.Options{})
	} else {
		c, err = imapclient.DialTLS(addr, &imapclient.Options{})
	}
	if err != nil {
		kind := KindNetworkError
		var imapErr *imap.Error
		if errors.As(err, &imapErr) {
			kind = KindIMAPConnectionFailed
		}
		return nil, &OpError{Kind: kind, Err: fmt.Errorf("connect to IMAP server %s: %w", addr, err)}
	}

	if err := c.Login(d.cfg.Email, d.cfg.Password).Wait(); err != nil {
		c.Close()
		kind := KindNetworkError
		var imapErr *imap.Error
		if errors.As(err, &imapErr) {
			kind = KindAuthenticationFailed
		}
		return nil, &OpError{Kind: kind, Err: fmt.Errorf("IMAP login: %w", err)}
	}

	return &imapConn{c: c}, nil
}

// imapConn adapts imapclient.Client to IMAPSession.
type imapConn struct {
	c *imapclient.Client
}

func (s *imapConn) Select(folder string) error {
	_, err := s.c.Select(folder, nil).Wait()
	return err
}

func (s *imapConn) SearchAll() ([]uint32, error) {
	data, err := s.c.Search(&imap.SearchCriteria{}, nil).Wait()
	if err != nil {
		return nil, err
	}
	return data.AllSeqNums(), nil
}

func (s *imapConn) FetchRaw(id uint32) ([]byte, error) {
	// Peek so fetching doesn't mark the message as read.
	section := &imap.FetchItemBodySection{Peek: true}
	msgs, err := s.c.Fetch(imap.SeqSetNum(id), &imap.FetchOptions{
		BodySection: []*imap.FetchItemBodySection{section},
	}).Collect()
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("message %d not found", id)
	}
	raw := msgs[0].FindBodySection(section)
	if raw == nil {
		return nil, fmt.Errorf("message %d has no content", id)
	}
	return raw, nil
}

func (s *imapConn) Logout() error {
	return s.c.Logout().Wait()
}
