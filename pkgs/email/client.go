package email

import (
	"log/slog"
	"time"

	"github.com/mailtool/cli/pkgs/config"
)

// Client runs mailbox operations against one configured account.
// Operations never return Go errors past their boundary; each produces
// a result value carrying either the payload or the failure string.
type Client struct {
	cfg      *config.Config
	sessions *Sessions
	logger   *slog.Logger

	// sleep is swappable so retry tests don't block.
	sleep func(time.Duration)
}

func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return NewClientWithDialer(cfg, NewDialer(cfg), logger)
}

// NewClientWithDialer builds a Client on an alternate transport.
func NewClientWithDialer(cfg *config.Config, dialer Dialer, logger *slog.Logger) *Client {
	return &Client{
		cfg:      cfg,
		sessions: NewSessions(dialer, logger),
		logger:   logger,
		sleep:    time.Sleep,
	}
}

// Close releases both protocol sessions best-effort.
func (c *Client) Close() {
	c.sessions.Close()
}

// withRetry runs attempt up to retry_count times. Each failure is
// logged with its attempt number; between attempts it sleeps
// retry_delay seconds and calls reset so the operation redials instead
// of reusing a session in an unknown state. The last error is returned
// once attempts are exhausted.
func (c *Client) withRetry(op string, reset func(), attempt func() error) error {
	attempts := c.cfg.RetryCount
	if attempts < 1 {
		attempts = 1
	}
	delay := time.Duration(c.cfg.RetryDelay) * time.Second

	var lastErr error
	for i := 1; i <= attempts; i++ {
		lastErr = attempt()
		if lastErr == nil {
			return nil
		}
		c.logger.Error(op+" failed", "attempt", i, "attempts", attempts, "error", lastErr)
		if i < attempts {
			c.sleep(delay)
			reset()
		}
	}
	return lastErr
}
