package email

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	gomessage "github.com/emersion/go-message"

	"github.com/mailtool/cli/pkgs/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Email:      "me@example.com",
		Password:   "secret",
		IMAPServer: "imap.example.com",
		IMAPPort:   993,
		SMTPServer: "smtp.example.com",
		SMTPPort:   587,
		RetryCount: 3,
		RetryDelay: 2,
	}
}

// newTestClient wires a Client to the given dialer with a recording
// sleep so retry tests never block.
func newTestClient(d Dialer) (*Client, *[]time.Duration) {
	sleeps := &[]time.Duration{}
	c := NewClientWithDialer(testConfig(), d, discardLogger())
	c.sleep = func(d time.Duration) { *sleeps = append(*sleeps, d) }
	return c, sleeps
}

// ---------------------------------------------------------------------------
// In-memory protocol fakes
// ---------------------------------------------------------------------------

// fakeIMAP implements IMAPSession over folders of raw messages, oldest
// first. Sequence numbers are 1-based positions.
type fakeIMAP struct {
	folders   map[string][]string
	selected  string
	fetchErrs map[uint32]error
	loggedOut bool
}

func (f *fakeIMAP) Select(folder string) error {
	if _, ok := f.folders[folder]; !ok {
		return fmt.Errorf("no such mailbox: %s", folder)
	}
	f.selected = folder
	return nil
}

func (f *fakeIMAP) SearchAll() ([]uint32, error) {
	msgs := f.folders[f.selected]
	ids := make([]uint32, len(msgs))
	for i := range msgs {
		ids[i] = uint32(i + 1)
	}
	return ids, nil
}

func (f *fakeIMAP) FetchRaw(id uint32) ([]byte, error) {
	if err := f.fetchErrs[id]; err != nil {
		return nil, err
	}
	msgs := f.folders[f.selected]
	if id == 0 || int(id) > len(msgs) {
		return nil, fmt.Errorf("message %d not found", id)
	}
	return []byte(msgs[id-1]), nil
}

func (f *fakeIMAP) Logout() error {
	f.loggedOut = true
	return nil
}

type sentMail struct {
	from string
	to   []string
	raw  []byte
}

// fakeSMTP implements SMTPSession, recording sent mail.
type fakeSMTP struct {
	sendErr error
	sent    []sentMail
	quit    bool
}

func (f *fakeSMTP) Send(from string, to []string, raw []byte) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMail{from: from, to: to, raw: raw})
	return nil
}

func (f *fakeSMTP) Quit() error {
	f.quit = true
	return nil
}

// fakeDialer hands out the fakes, counting dials. The first failIMAP /
// failSMTP dials of each protocol fail with dialErr.
type fakeDialer struct {
	imap IMAPSession
	smtp SMTPSession

	failIMAP, failSMTP   int
	imapDials, smtpDials int
	dialErr              error
}

func (d *fakeDialer) err() error {
	if d.dialErr != nil {
		return d.dialErr
	}
	return &OpError{Kind: KindNetworkError, Err: fmt.Errorf("connection refused")}
}

func (d *fakeDialer) DialIMAP() (IMAPSession, error) {
	d.imapDials++
	if d.imapDials <= d.failIMAP {
		return nil, d.err()
	}
	if d.imap == nil {
		return nil, d.err()
	}
	return d.imap, nil
}

func (d *fakeDialer) DialSMTP() (SMTPSession, error) {
	d.smtpDials++
	if d.smtpDials <= d.failSMTP {
		return nil, d.err()
	}
	if d.smtp == nil {
		return nil, d.err()
	}
	return d.smtp, nil
}

// ---------------------------------------------------------------------------
// Raw test messages
// ---------------------------------------------------------------------------

// mkTestMail renders a minimal plain-text message with the given
// subject and body.
func mkTestMail(subject, body string) string {
	return "MIME-Version: 1.0\r\n" +
		"From: sender@example.com\r\n" +
		"To: rcpt@example.com\r\n" +
		"Subject: " + subject + "\r\n" +
		"Date: Mon, 10 Feb 2026 08:00:00 +0000\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		body
}

// testMailAlternative carries both a plain and an HTML rendering.
const testMailAlternative = "MIME-Version: 1.0\r\n" +
	"From: Alice <alice@example.com>\r\n" +
	"To: bob@example.com\r\n" +
	"Subject: Alternative\r\n" +
	"Date: Mon, 10 Feb 2026 08:00:00 +0000\r\n" +
	"Content-Type: multipart/alternative; boundary=\"ALT\"\r\n" +
	"\r\n" +
	"--ALT\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"plain version\r\n" +
	"--ALT\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<b>html version</b>\r\n" +
	"--ALT--\r\n"

// testMailHTMLOnly has no plain-text rendering at all.
const testMailHTMLOnly = "MIME-Version: 1.0\r\n" +
	"From: alice@example.com\r\n" +
	"To: bob@example.com\r\n" +
	"Subject: HTML only\r\n" +
	"Date: Mon, 10 Feb 2026 08:00:00 +0000\r\n" +
	"Content-Type: multipart/mixed; boundary=\"HM\"\r\n" +
	"\r\n" +
	"--HM\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<html><body><p>Hello <b>there</b></p></body></html>\r\n" +
	"--HM--\r\n"

// testMailEncodedSubject carries an RFC 2047 encoded subject and an
// iso-8859-1 body.
const testMailEncodedSubject = "MIME-Version: 1.0\r\n" +
	"From: =?utf-8?B?QcOpcm9wb3N0YWxl?= <aero@example.com>\r\n" +
	"To: bob@example.com\r\n" +
	"Subject: =?utf-8?B?aMOpbGxv?=\r\n" +
	"Date: Mon, 10 Feb 2026 08:00:00 +0000\r\n" +
	"Content-Type: text/plain; charset=iso-8859-1\r\n" +
	"\r\n" +
	"caf\xe9"

func mustParse(t *testing.T, raw string) *gomessage.Entity {
	t.Helper()
	entity, err := parseMessage([]byte(raw))
	if err != nil {
		t.Fatalf("parseMessage: %v", err)
	}
	return entity
}
