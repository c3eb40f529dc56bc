package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// ErrTag prefixes every configuration error. It is part of the CLI
// contract: callers print it verbatim before any operation runs.
const ErrTag = "CONFIGURATION_ERROR"

// Config holds the single-account mailbox configuration.
//
// The JSON file must provide email, password, imap_server and
// smtp_server; everything else has a default.
type Config struct {
	Email      string `mapstructure:"email"`
	Password   string `mapstructure:"password"`
	IMAPServer string `mapstructure:"imap_server"`
	IMAPPort   int    `mapstructure:"imap_port"`
	SMTPServer string `mapstructure:"smtp_server"`
	SMTPPort   int    `mapstructure:"smtp_port"`

	// RetryCount is the total number of attempts per operation.
	RetryCount int `mapstructure:"retry_count"`
	// RetryDelay is the pause between attempts, in seconds.
	RetryDelay int `mapstructure:"retry_delay"`
}

// Load reads and validates the JSON configuration at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetDefault("imap_port", 993)
	v.SetDefault("smtp_port", 587)
	v.SetDefault("retry_count", 3)
	v.SetDefault("retry_delay", 2)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%s: reading %s: %w", ErrTag, path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%s: parsing %s: %w", ErrTag, path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrTag, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"email", c.Email},
		{"password", c.Password},
		{"imap_server", c.IMAPServer},
		{"smtp_server", c.SMTPServer},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("missing required field: %s", f.name)
		}
	}
	return nil
}
