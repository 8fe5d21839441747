package delivery

import (
	"context"
	"log/slog"
)

// LogChannel only records what would have been pushed. Used when no transport is configured.
type LogChannel struct {
	logger *slog.Logger
}

func NewLogChannel(logger *slog.Logger) *LogChannel {
	return &LogChannel{logger: logger}
}

func (c *LogChannel) Publish(ctx context.Context, topic string, payload []byte) error {
	c.logger.DebugContext(ctx, "push", slog.String("topic", topic), slog.Int("bytes", len(payload)))
	return nil
}
