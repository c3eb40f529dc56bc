package email

import (
	"errors"
	"fmt"
)

// Kind classifies operation failures. The tag is part of the CLI
// contract: it prefixes the error string carried in JSON results.
type Kind string

const (
	KindAuthenticationFailed Kind = "AUTHENTICATION_FAILED"
	KindIMAPConnectionFailed Kind = "IMAP_CONNECTION_FAILED"
	KindSMTPConnectionFailed Kind = "SMTP_CONNECTION_FAILED"
	KindNetworkError         Kind = "NETWORK_ERROR"
	KindFolderNotFound       Kind = "FOLDER_NOT_FOUND"
	KindEmailNotFound        Kind = "EMAIL_NOT_FOUND"
	KindInvalidEmailFormat   Kind = "INVALID_EMAIL_FORMAT"
)

// OpError tags an underlying failure with its Kind.
type OpError struct {
	Kind Kind
	Err  error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// KindOf returns the Kind attached to err, or "" for untagged errors.
func KindOf(err error) Kind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return ""
}
