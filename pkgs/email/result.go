package email

// EmailSummary is one entry in a read listing.
type EmailSummary struct {
	ID          string `json:"id"`
	Subject     string `json:"subject"`
	Sender      string `json:"sender"`
	Date        string `json:"date"`
	BodySummary string `json:"body_summary"`
}

// ReadResult is the JSON payload of the read command.
type ReadResult struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Emails  []EmailSummary `json:"emails"`
	Count   int            `json:"count"`
}

// SendResult is the JSON payload of the send command. Timestamp is
// empty only for the pre-validation failure, which never reaches the
// network.
type SendResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// GetResult is the JSON payload of the get command.
type GetResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	ID      string `json:"id,omitempty"`
	Subject string `json:"subject,omitempty"`
	Sender  string `json:"sender,omitempty"`
	To      string `json:"to,omitempty"`
	Date    string `json:"date,omitempty"`
	Body    string `json:"body,omitempty"`
}
