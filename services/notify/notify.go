package notify

import (
	"context"

	"dealscout/internal/deal"
)

// Notifier announces newly seen deals to an out-of-band channel. The
// published artifact set is the source of truth; notification failures are
// warnings, never run failures.
type Notifier interface {
	// Announce publishes one newly seen deal
	Announce(ctx context.Context, d deal.Deal) error

	// Trim bounds the announcement backlog
	Trim(ctx context.Context) error

	// Close closes the notifier connection
	Close() error
}
