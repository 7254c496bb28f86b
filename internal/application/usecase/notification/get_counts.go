package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fleet-console/backend/internal/application/adapter"
	"github.com/fleet-console/backend/internal/domain/entity"
)

// GetCountsUseCase returns the latest notification counters.
type GetCountsUseCase struct {
	store  adapter.NotificationStore
	poller *Poller
}

// NewGetCountsUseCase creates a new GetCountsUseCase instance.
func NewGetCountsUseCase(store adapter.NotificationStore, poller *Poller) *GetCountsUseCase {
	return &GetCountsUseCase{
		store:  store,
		poller: poller,
	}
}

// Execute serves the cached snapshot, fetching through to upstream on a miss.
func (uc *GetCountsUseCase) Execute(ctx context.Context) (*entity.NotificationCounts, error) {
	counts, err := uc.store.Latest(ctx)
	if err != nil {
		slog.Warn("Failed to read cached notification counts", "error", err)
	}
	if counts != nil {
		return counts, nil
	}

	counts, err = uc.poller.source.FetchNotificationCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notification counts: %w", err)
	}

	if err := uc.store.Save(ctx, counts, uc.poller.cacheTTL); err != nil {
		slog.Warn("Failed to cache notification counts", "error", err)
	}
	return counts, nil
}
