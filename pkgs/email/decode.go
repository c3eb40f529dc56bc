package email

import (
	"bytes"
	"io"
	"log/slog"
	"mime"
	"regexp"
	"strings"
	"unicode/utf8"

	gomessage "github.com/emersion/go-message"
	"github.com/emersion/go-message/charset"
)

const summaryMaxLen = 200

// Placeholders returned instead of empty or undecodable content, so a
// broken message never fails the whole operation.
const (
	noContentPlaceholder = "no content"
	parseFailPlaceholder = "body parse failed"

	unknownSubject   = "(no subject)"
	unknownSender    = "(unknown sender)"
	unknownRecipient = "(unknown recipient)"
	unknownDate      = "(unknown date)"
)

// wordDecoder decodes RFC 2047 encoded words. The go-message charset
// table handles non-UTF-8 charsets (windows-1252, iso-8859-*, gbk, ...).
var wordDecoder = mime.WordDecoder{CharsetReader: charset.Reader}

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// decodeMIMEWords normalizes a raw header value to readable text.
// Plain ASCII passes through unchanged. Any decode failure is logged
// and the raw value returned; header decoding never aborts the calling
// operation.
func decodeMIMEWords(logger *slog.Logger, raw string) string {
	decoded, err := wordDecoder.DecodeHeader(raw)
	if err != nil {
		logger.Warn("header decode failed", "header", raw, "error", err)
		return raw
	}
	return decoded
}

// parseMessage parses raw RFC 822 bytes. Unknown charsets and transfer
// encodings degrade to the raw payload instead of failing the parse.
func parseMessage(raw []byte) (*gomessage.Entity, error) {
	entity, err := gomessage.Read(bytes.NewReader(raw))
	if err != nil && !gomessage.IsUnknownCharset(err) && !gomessage.IsUnknownEncoding(err) {
		return nil, err
	}
	return entity, nil
}

// headerField returns the decoded header value, or fallback when the
// header is absent or the message could not be parsed at all.
func headerField(logger *slog.Logger, entity *gomessage.Entity, name, fallback string) string {
	if entity == nil {
		return fallback
	}
	v := entity.Header.Get(name)
	if v == "" {
		return fallback
	}
	return decodeMIMEWords(logger, v)
}

// bodyText walks entity and returns its preferred readable body: the
// first text/plain part, else the first text/html part with all <...>
// markup stripped (deliberately lossy, not an HTML parser), else the
// single-part payload as-is.
func bodyText(entity *gomessage.Entity) string {
	var plain, html string
	collectParts(entity, &plain, &html)
	if plain != "" {
		return plain
	}
	if html != "" {
		return htmlTagRe.ReplaceAllString(html, "")
	}
	return ""
}

func collectParts(entity *gomessage.Entity, plain, html *string) {
	mr := entity.MultipartReader()
	if mr == nil {
		if body, err := io.ReadAll(entity.Body); err == nil {
			*plain = string(body)
		}
		return
	}
	for *plain == "" {
		part, err := mr.NextPart()
		if err != nil {
			break
		}
		ct, _, _ := part.Header.ContentType()
		switch {
		case strings.HasPrefix(ct, "multipart/"):
			collectParts(part, plain, html)
		case strings.HasPrefix(ct, "text/plain"):
			if body, err := io.ReadAll(part.Body); err == nil {
				*plain = string(body)
			}
		case strings.HasPrefix(ct, "text/html") && *html == "":
			if body, err := io.ReadAll(part.Body); err == nil {
				*html = string(body)
			}
		}
	}
}

// summaryBody produces the one-line preview: CR/LF collapsed to
// spaces, trimmed, truncated to summaryMaxLen runes with a trailing
// ellipsis.
func summaryBody(entity *gomessage.Entity) string {
	if entity == nil {
		return parseFailPlaceholder
	}
	body := strings.NewReplacer("\r", " ", "\n", " ").Replace(bodyText(entity))
	body = truncate(strings.TrimSpace(body), summaryMaxLen)
	if body == "" {
		return noContentPlaceholder
	}
	return body
}

// fullBody produces the untruncated body with internal formatting
// preserved; only surrounding whitespace is trimmed.
func fullBody(entity *gomessage.Entity) string {
	if entity == nil {
		return parseFailPlaceholder
	}
	body := strings.TrimSpace(bodyText(entity))
	if body == "" {
		return noContentPlaceholder
	}
	return body
}

// truncate shortens s to max runes, preserving UTF-8 boundaries.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}
