package telegram

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"turntable/internal/logging"
)

const pollRetryDelay = 3 * time.Second

// UpdateHandler processes one inbound update. Handlers run on their own
// goroutine so a slow chat never stalls the poll loop.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update Update)
}

// Poller drives the getUpdates long-poll loop.
type Poller struct {
	client  *Client
	handler UpdateHandler
	timeout int
	logger  *slog.Logger
}

// NewPoller wires a poller to a client and handler.
func NewPoller(client *Client, handler UpdateHandler, timeoutSeconds int, logger *slog.Logger) *Poller {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	return &Poller{
		client:  client,
		handler: handler,
		timeout: timeoutSeconds,
		logger:  logging.NewComponentLogger(logger, "poller"),
	}
}

// Run polls until ctx is canceled. Transient poll failures are logged and
// retried after a short delay; they never terminate the loop.
func (p *Poller) Run(ctx context.Context) error {
	var offset int64

	for {
		updates, err := p.client.GetUpdates(ctx, offset, p.timeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				// The long poll simply expired without events.
				continue
			}
			p.logger.Warn("poll failed, retrying",
				logging.Error(err),
				logging.Duration("delay", pollRetryDelay))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			go p.handler.HandleUpdate(ctx, update)
		}
	}
}
