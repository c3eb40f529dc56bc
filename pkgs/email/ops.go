package email

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Read lists the newest messages in folder as summaries, newest first.
// Messages that fail to fetch or parse are logged and skipped; Count
// reflects only survivors.
func (c *Client) Read(folder string, limit int) ReadResult {
	emails := []EmailSummary{}
	err := c.withRetry("read", c.sessions.InvalidateIMAP, func() error {
		sess, err := c.sessions.IMAP()
		if err != nil {
			return err
		}
		if err := sess.Select(folder); err != nil {
			return &OpError{Kind: KindFolderNotFound, Err: fmt.Errorf("cannot access folder %s: %w", folder, err)}
		}
		ids, err := sess.SearchAll()
		if err != nil {
			return fmt.Errorf("message search failed: %w", err)
		}

		emails = emails[:0]
		if len(ids) == 0 {
			return nil
		}
		if limit > 0 && len(ids) > limit {
			ids = ids[len(ids)-limit:]
		}
		// Newest first.
		for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
			ids[i], ids[j] = ids[j], ids[i]
		}

		for _, id := range ids {
			raw, err := sess.FetchRaw(id)
			if err != nil {
				c.logger.Warn("skipping message", "id", id, "error", err)
				continue
			}
			entity, err := parseMessage(raw)
			if err != nil {
				c.logger.Warn("skipping unparsable message", "id", id, "error", err)
				continue
			}
			emails = append(emails, EmailSummary{
				ID:          strconv.FormatUint(uint64(id), 10),
				Subject:     headerField(c.logger, entity, "Subject", unknownSubject),
				Sender:      headerField(c.logger, entity, "From", unknownSender),
				Date:        headerField(c.logger, entity, "Date", unknownDate),
				BodySummary: summaryBody(entity),
			})
		}
		return nil
	})
	if err != nil {
		return ReadResult{Error: err.Error(), Emails: []EmailSummary{}}
	}
	return ReadResult{Success: true, Emails: emails, Count: len(emails)}
}

// Send delivers a plain-text UTF-8 message to a single recipient. The
// recipient is validated before any network call.
func (c *Client) Send(to, subject, body string) SendResult {
	if !validRecipient(to) {
		oe := &OpError{Kind: KindInvalidEmailFormat, Err: errors.New("recipient address is not valid")}
		return SendResult{Error: oe.Error()}
	}

	err := c.withRetry("send", c.sessions.InvalidateSMTP, func() error {
		sess, err := c.sessions.SMTP()
		if err != nil {
			return err
		}
		raw, err := buildTextMessage(c.cfg.Email, to, subject, body)
		if err != nil {
			return fmt.Errorf("build message: %w", err)
		}
		return sess.Send(c.cfg.Email, []string{to}, raw)
	})

	ts := time.Now().Format(time.RFC3339)
	if err != nil {
		return SendResult{Error: err.Error(), Timestamp: ts}
	}
	return SendResult{Success: true, Message: "Email sent to " + to, Timestamp: ts}
}

// Get fetches one message by id and decodes its full content. The
// inbox is selected unconditionally, whatever folder a previous read
// used.
func (c *Client) Get(emailID string) GetResult {
	id64, perr := strconv.ParseUint(emailID, 10, 32)
	if perr != nil {
		oe := &OpError{Kind: KindEmailNotFound, Err: fmt.Errorf("email id %s does not exist", emailID)}
		return GetResult{Error: oe.Error()}
	}
	id := uint32(id64)

	var raw []byte
	err := c.withRetry("get", c.sessions.InvalidateIMAP, func() error {
		sess, err := c.sessions.IMAP()
		if err != nil {
			return err
		}
		if err := sess.Select("INBOX"); err != nil {
			return fmt.Errorf("select INBOX: %w", err)
		}
		raw, err = sess.FetchRaw(id)
		if err != nil {
			return &OpError{Kind: KindEmailNotFound, Err: fmt.Errorf("email id %s does not exist: %w", emailID, err)}
		}
		return nil
	})
	if err != nil {
		return GetResult{Error: err.Error()}
	}

	entity, perr2 := parseMessage(raw)
	if perr2 != nil {
		c.logger.Warn("message parse failed", "id", emailID, "error", perr2)
	}
	return GetResult{
		Success: true,
		ID:      emailID,
		Subject: headerField(c.logger, entity, "Subject", unknownSubject),
		Sender:  headerField(c.logger, entity, "From", unknownSender),
		To:      headerField(c.logger, entity, "To", unknownRecipient),
		Date:    headerField(c.logger, entity, "Date", unknownDate),
		Body:    fullBody(entity),
	}
}

// validRecipient is a deliberately shallow syntactic check: an @ with
// a dotted domain after it.
func validRecipient(to string) bool {
	at := strings.Index(to, "@")
	if at < 0 {
		return false
	}
	return strings.Contains(to[at+1:], ".")
}
