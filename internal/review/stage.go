package review

import (
	"context"

	"github.com/civicai/civic-client/internal/analyze"
	"github.com/civicai/civic-client/internal/api"
	"github.com/civicai/civic-client/internal/domain"
	apperrors "github.com/civicai/civic-client/pkg/errors"
	"github.com/civicai/civic-client/pkg/logger"
)

// Fixed defaults substituted for fields the verdict left empty. Applied at
// submit time, consistently for every submission.
const (
	defaultTitle       = "No Subject"
	defaultDescription = "No description provided"
	defaultIssueType   = "General"
	defaultDepartment  = "General Administration"
	defaultAddress     = "Location not provided"
	defaultUsername    = "Anonymous"
	defaultEmail       = "No Email"
)

// Submitter sends the assembled complaint to the backend
type Submitter interface {
	CreateComplaint(ctx context.Context, sub api.Submission) error
}

// Stage presents the drafted letter for confirmation and performs the final
// submission. It never exists without a prior accepted verdict and a held
// image; entry without both is refused so the caller can redirect to capture.
type Stage struct {
	submitter Submitter
	state     *analyze.ReviewState
	busy      bool
	log       *logger.Logger
}

// NewStage creates a review stage with nothing held
func NewStage(submitter Submitter, log *logger.Logger) *Stage {
	return &Stage{
		submitter: submitter,
		log:       log.WithComponent("review"),
	}
}

// Enter installs the carried state. Returns false when the verdict or image
// is missing (e.g. direct navigation); the caller must then redirect to the
// capture screen.
func (s *Stage) Enter(state *analyze.ReviewState) bool {
	if state == nil || len(state.Image.Data) == 0 {
		s.log.Debug().Msg("review entered without verdict and image, refusing")
		s.state = nil
		return false
	}
	s.state = state
	return true
}

// State returns the held review state, if any
func (s *Stage) State() (analyze.ReviewState, bool) {
	if s.state == nil {
		return analyze.ReviewState{}, false
	}
	return *s.state, true
}

// Busy reports whether a submission is outstanding
func (s *Stage) Busy() bool {
	return s.busy
}

// Submit assembles the multipart payload from the verdict, the held image
// and the identity's author fields, and sends it. On success all held state
// is cleared; on failure the state stays intact so the user can retry
// without re-analyzing.
func (s *Stage) Submit(ctx context.Context, ident domain.Identity) error {
	if s.state == nil {
		return apperrors.InvalidState("nothing to submit")
	}
	if s.busy {
		return apperrors.InvalidState("submission already in progress")
	}
	s.busy = true
	defer func() { s.busy = false }()

	sub := s.buildSubmission(ident)
	if err := s.submitter.CreateComplaint(ctx, sub); err != nil {
		s.log.Warn().Err(err).Msg("submission failed, state kept for retry")
		return err
	}

	s.log.Info().
		Str("department", sub.Department).
		Str("title", sub.Title).
		Msg("complaint submitted")
	s.state = nil
	return nil
}

// Cancel discards all held state unconditionally
func (s *Stage) Cancel() {
	s.state = nil
}

func (s *Stage) buildSubmission(ident domain.Identity) api.Submission {
	v := s.state.Verdict
	return api.Submission{
		Image:       s.state.Image,
		Username:    orDefault(ident.Name, defaultUsername),
		Email:       orDefault(ident.Email, defaultEmail),
		Title:       orDefault(v.Subject, defaultTitle),
		Description: orDefault(v.Body, defaultDescription),
		Department:  orDefault(v.Department, defaultDepartment),
		IssueType:   orDefault(v.IssueType, defaultIssueType),
		Address:     orDefault(v.Address, defaultAddress),
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
