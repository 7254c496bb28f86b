package chart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fleet-console/backend/internal/domain/entity"
	"github.com/fleet-console/backend/internal/domain/valueobject"
)

// GetOverviewInput represents the input for getting the dashboard overview.
type GetOverviewInput struct {
	OrganizationID uuid.UUID
	Timeframe      string
}

// GetOverviewUseCase assembles every visible chart for one timeframe.
type GetOverviewUseCase struct {
	assembler *Assembler
}

// NewGetOverviewUseCase creates a new GetOverviewUseCase instance.
func NewGetOverviewUseCase(assembler *Assembler) *GetOverviewUseCase {
	return &GetOverviewUseCase{
		assembler: assembler,
	}
}

// Execute assembles the overview. Each chart fetches its own data concurrently.
func (uc *GetOverviewUseCase) Execute(ctx context.Context, input GetOverviewInput) (*Overview, error) {
	profile := uc.assembler.ResolveProfile(ctx, input.OrganizationID)
	timeframe := resolveTimeframe(input.Timeframe, profile)

	return uc.assemble(ctx, timeframe, profile)
}

// ExecuteTimeframe assembles the overview for an already parsed timeframe.
func (uc *GetOverviewUseCase) ExecuteTimeframe(
	ctx context.Context,
	orgID uuid.UUID,
	timeframe valueobject.Timeframe,
) (*Overview, error) {
	profile := uc.assembler.ResolveProfile(ctx, orgID)
	return uc.assemble(ctx, timeframe.Normalize(), profile)
}

// ResolveTimeframe parses a raw timeframe, selecting the organization default when raw is empty.
func (uc *GetOverviewUseCase) ResolveTimeframe(ctx context.Context, orgID uuid.UUID, raw string) valueobject.Timeframe {
	return resolveTimeframe(raw, uc.assembler.ResolveProfile(ctx, orgID))
}

func (uc *GetOverviewUseCase) assemble(
	ctx context.Context,
	timeframe valueobject.Timeframe,
	profile Profile,
) (*Overview, error) {
	kinds := make([]entity.ChartKind, 0, len(entity.AllChartKinds))
	for _, kind := range entity.AllChartKinds {
		if !profile.Settings.IsHidden(kind) {
			kinds = append(kinds, kind)
		}
	}

	charts := make([]*Chart, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			chart, err := uc.assembler.Assemble(gctx, kind, timeframe, profile)
			if err != nil {
				return err
			}
			charts[i] = chart
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to assemble overview: %w", err)
	}

	overview := &Overview{
		Timeframe: timeframe,
		Charts:    charts,
	}
	if len(charts) > 0 {
		overview.GeneratedAt = charts[0].GeneratedAt
	} else {
		overview.GeneratedAt = uc.assembler.clock.Now()
	}
	return overview, nil
}
