package device

import (
	"context"

	"github.com/civicai/civic-client/internal/domain"
	"github.com/civicai/civic-client/internal/geo"
)

// StaticProvider reports a fixed position from configuration. A zero
// position marks the capability as absent, which exercises both resolver
// policies without hardware.
type StaticProvider struct {
	pos domain.Position
}

// NewStaticProvider creates a provider pinned to the given coordinates
func NewStaticProvider(lat, long float64) *StaticProvider {
	return &StaticProvider{pos: domain.Position{Latitude: lat, Longitude: long}}
}

// Supported reports whether coordinates were configured
func (p *StaticProvider) Supported() bool {
	return !p.pos.IsSentinel()
}

// CurrentPosition returns the configured position
func (p *StaticProvider) CurrentPosition(ctx context.Context, opts geo.Options) (domain.Position, error) {
	if err := ctx.Err(); err != nil {
		return domain.Position{}, err
	}
	if !p.Supported() {
		return domain.Position{}, geo.ErrPositionUnavailable
	}
	return p.pos, nil
}
