package geo

import (
	"context"
	"errors"
	"time"

	"github.com/civicai/civic-client/internal/domain"
	"github.com/civicai/civic-client/pkg/config"
	apperrors "github.com/civicai/civic-client/pkg/errors"
	"github.com/civicai/civic-client/pkg/logger"
)

// Provider-level failures, mirroring the geolocation API's error codes.
// The resolver maps them onto the workflow error taxonomy.
var (
	ErrPermissionDenied    = errors.New("geo: permission denied")
	ErrPositionUnavailable = errors.New("geo: position unavailable")
	ErrTimeout             = errors.New("geo: timeout")
)

// Options bound one position request
type Options struct {
	Timeout      time.Duration
	MaximumAge   time.Duration
	HighAccuracy bool
}

// Provider abstracts the device's geolocation capability
type Provider interface {
	// Supported reports whether the capability exists at all
	Supported() bool
	// CurrentPosition requests the device position within the given bounds
	CurrentPosition(ctx context.Context, opts Options) (domain.Position, error)
}

// Resolver obtains device coordinates under one of two policies:
//
//   - lenient: any failure substitutes the sentinel position and proceeds,
//     never blocking submission;
//   - strict: failures are terminal for the attempt, each with a distinct
//     reason, and analysis must not proceed.
type Resolver struct {
	provider Provider
	policy   string
	opts     Options
	log      *logger.Logger
}

// NewResolver creates a resolver from the geolocation configuration
func NewResolver(provider Provider, cfg config.GeoConfig, log *logger.Logger) *Resolver {
	return &Resolver{
		provider: provider,
		policy:   cfg.Policy,
		opts: Options{
			Timeout:      cfg.Timeout,
			MaximumAge:   cfg.MaximumAge,
			HighAccuracy: cfg.HighAccuracy,
		},
		log: log.WithComponent("geo"),
	}
}

// Policy returns the configured policy variant
func (r *Resolver) Policy() string {
	return r.policy
}

// Resolve obtains the device position. Called at most once per analysis
// attempt; the analyze stage's in-flight guard prevents concurrent calls.
func (r *Resolver) Resolve(ctx context.Context) (domain.Position, error) {
	if r.policy == config.GeoPolicyLenient {
		return r.resolveLenient(ctx), nil
	}
	return r.resolveStrict(ctx)
}

func (r *Resolver) resolveLenient(ctx context.Context) domain.Position {
	if !r.provider.Supported() {
		r.log.Warn().Msg("geolocation unsupported, substituting sentinel position")
		return domain.SentinelPosition
	}

	pos, err := r.provider.CurrentPosition(ctx, r.opts)
	if err != nil {
		r.log.Warn().Err(err).Msg("geolocation failed, substituting sentinel position")
		return domain.SentinelPosition
	}
	return pos
}

func (r *Resolver) resolveStrict(ctx context.Context) (domain.Position, error) {
	if !r.provider.Supported() {
		return domain.Position{}, apperrors.CapabilityMissing("geolocation")
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	pos, err := r.provider.CurrentPosition(ctx, r.opts)
	if err != nil {
		switch {
		case errors.Is(err, ErrPermissionDenied):
			return domain.Position{}, apperrors.PermissionDenied("geolocation")
		case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
			return domain.Position{}, apperrors.TimedOut("geolocation")
		default:
			return domain.Position{}, apperrors.Unavailable("geolocation")
		}
	}
	return pos, nil
}
