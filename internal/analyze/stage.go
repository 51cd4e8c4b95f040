package analyze

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/civicai/civic-client/internal/domain"
	apperrors "github.com/civicai/civic-client/pkg/errors"
	"github.com/civicai/civic-client/pkg/logger"
)

// Phase names the visible step of an in-flight analysis. The call can take
// several seconds, so the user is told which step is running.
type Phase string

const (
	PhaseIdle               Phase = "idle"
	PhaseRequestingLocation Phase = "requesting location"
	PhaseAnalyzing          Phase = "analyzing image"
)

// PhaseFunc receives phase transitions for display
type PhaseFunc func(Phase)

// Resolver obtains the device position for the attempt
type Resolver interface {
	Resolve(ctx context.Context) (domain.Position, error)
}

// Predictor sends the image for analysis and returns the tagged verdict
type Predictor interface {
	PredictImage(ctx context.Context, image domain.CapturedImage, pos domain.Position) (domain.Verdict, error)
}

// ReviewState is the state carried into the review/submit stage after an
// accepted verdict: the verdict, the original image, and a display-only
// preview handle.
type ReviewState struct {
	Verdict domain.Accepted
	Image   domain.CapturedImage
	Preview string
}

// Outcome is the result of one analysis attempt. Exactly one field is set:
// Review on an accepted verdict, Rejection on a service-level rejection.
// A rejection is a valid terminal verdict for the attempt, not an error.
type Outcome struct {
	Review    *ReviewState
	Rejection *domain.Rejected
}

// Stage sends a captured image plus coordinates to the analysis service.
// Any failure leaves the stage retryable with the image still held upstream;
// no retake is required.
type Stage struct {
	resolver  Resolver
	predictor Predictor
	phase     PhaseFunc
	busy      bool
	log       *logger.Logger
}

// NewStage creates an analyze stage. phase may be nil.
func NewStage(resolver Resolver, predictor Predictor, phase PhaseFunc, log *logger.Logger) *Stage {
	if phase == nil {
		phase = func(Phase) {}
	}
	return &Stage{
		resolver:  resolver,
		predictor: predictor,
		phase:     phase,
		log:       log.WithComponent("analyze"),
	}
}

// Busy reports whether an analysis is outstanding
func (s *Stage) Busy() bool {
	return s.busy
}

// Analyze resolves the position once and submits the image for analysis.
// Re-entrant triggering while an attempt is outstanding is refused; geo
// resolution happens at most once per attempt, and under the strict policy
// a resolution failure means no analysis request is issued at all.
func (s *Stage) Analyze(ctx context.Context, image domain.CapturedImage) (Outcome, error) {
	if s.busy {
		return Outcome{}, apperrors.InvalidState("analysis already in progress")
	}
	s.busy = true
	defer func() {
		s.busy = false
		s.phase(PhaseIdle)
	}()

	s.phase(PhaseRequestingLocation)
	pos, err := s.resolver.Resolve(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("position resolution failed, analysis not issued")
		return Outcome{}, err
	}

	s.phase(PhaseAnalyzing)
	verdict, err := s.predictor.PredictImage(ctx, image, pos)
	if err != nil {
		s.log.Warn().Err(err).Msg("analysis request failed")
		return Outcome{}, err
	}

	switch v := verdict.(type) {
	case domain.Rejected:
		s.log.Info().Str("reason", v.Reason).Msg("image rejected by analysis service")
		return Outcome{Rejection: &v}, nil
	case domain.Accepted:
		s.log.Info().
			Str("department", v.Department).
			Str("issue_type", v.IssueType).
			Msg("image accepted, letter drafted")
		return Outcome{Review: &ReviewState{
			Verdict: v,
			Image:   image,
			Preview: previewHandle(image),
		}}, nil
	default:
		return Outcome{}, fmt.Errorf("analyze: unexpected verdict type %T", verdict)
	}
}

// previewHandle builds the display-only data URL for the review screen
func previewHandle(image domain.CapturedImage) string {
	return "data:" + image.MIME + ";base64," + base64.StdEncoding.EncodeToString(image.Data)
}
