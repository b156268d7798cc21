package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
)

// InitializeStreams creates every stream in subjects (stream name to subject filter).
func InitializeStreams(ctx context.Context, bus EventBus, subjects map[string]string, logger *slog.Logger) error {
	for _, name := range slices.Sorted(maps.Keys(subjects)) {
		if err := bus.CreateStream(ctx, name, subjects[name]); err != nil {
			logger.ErrorContext(ctx, "Failed to create JetStream stream", slog.String("stream", name), slog.Any("error", err))
			return fmt.Errorf("stream %s: %w", name, err)
		}
	}
	return nil
}
