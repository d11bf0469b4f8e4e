package fluentlogger

import (
	"fmt"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// Config holds the Fluent Bit forwarder settings.
type Config struct {
	Host      string // e.g. "127.0.0.1", or the service name in Docker
	Port      int    // e.g. 24224
	TagPrefix string // common tag prefix for all log entries of this service
}

// NewClient creates a Fluent Bit client. Creation succeeding does not
// guarantee a live connection; send errors surface on the first Post.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	if cfg.TagPrefix == "" {
		return nil, fmt.Errorf("fluentd tag prefix is required")
	}

	logger, err := fluent.New(fluent.Config{
		FluentHost: cfg.Host,
		FluentPort: cfg.Port,
		TagPrefix:  cfg.TagPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fluentd logger: %w", err)
	}

	return logger, nil
}
