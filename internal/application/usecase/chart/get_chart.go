package chart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fleet-console/backend/internal/domain/entity"
	domainerror "github.com/fleet-console/backend/internal/domain/error"
	"github.com/fleet-console/backend/internal/domain/valueobject"
)

// GetChartInput represents the input for getting a single chart.
type GetChartInput struct {
	OrganizationID uuid.UUID
	Kind           entity.ChartKind
	// Timeframe is the raw query value. Empty selects the organization
	// default; unrecognized values fall back to daily.
	Timeframe string
}

// GetChartUseCase handles getting one chart.
type GetChartUseCase struct {
	assembler *Assembler
}

// NewGetChartUseCase creates a new GetChartUseCase instance.
func NewGetChartUseCase(assembler *Assembler) *GetChartUseCase {
	return &GetChartUseCase{
		assembler: assembler,
	}
}

// Execute assembles the requested chart.
func (uc *GetChartUseCase) Execute(ctx context.Context, input GetChartInput) (*Chart, error) {
	if !input.Kind.IsValid() {
		return nil, domainerror.NewChartError(
			domainerror.ErrCodeUnknownChart,
			fmt.Sprintf("unknown chart %q", input.Kind),
			domainerror.ErrUnknownChart,
		)
	}

	profile := uc.assembler.ResolveProfile(ctx, input.OrganizationID)
	timeframe := resolveTimeframe(input.Timeframe, profile)

	chart, err := uc.assembler.Assemble(ctx, input.Kind, timeframe, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble %s chart: %w", input.Kind, err)
	}
	return chart, nil
}

func resolveTimeframe(raw string, profile Profile) valueobject.Timeframe {
	if raw == "" {
		return profile.DefaultTimeframe.Normalize()
	}
	return valueobject.ParseTimeframe(raw)
}
