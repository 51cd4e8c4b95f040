// Package workflow wires the submission stages into the ordered flow
// capture → geolocate → analyze → review → submit. All work is triggered by
// user actions and runs to completion before the next event; the only
// suspension points are the geolocation wait and the two backend calls.
package workflow

import (
	"context"

	"github.com/civicai/civic-client/internal/analyze"
	"github.com/civicai/civic-client/internal/capture"
	"github.com/civicai/civic-client/internal/domain"
	"github.com/civicai/civic-client/internal/notify"
	"github.com/civicai/civic-client/internal/review"
	"github.com/civicai/civic-client/internal/routes"
	"github.com/civicai/civic-client/internal/session"
	apperrors "github.com/civicai/civic-client/pkg/errors"
	"github.com/civicai/civic-client/pkg/logger"
)

// Controller owns the carried state between stages and enforces the flow's
// ordering guarantees. Every failure returns the workflow to the nearest
// safe state; retries are always explicit user actions.
type Controller struct {
	session  *session.Store
	router   *routes.Router
	capture  *capture.Stage
	analyze  *analyze.Stage
	review   *review.Stage
	notifier notify.Notifier
	log      *logger.Logger
}

// NewController wires the stages together
func NewController(
	sess *session.Store,
	router *routes.Router,
	captureStage *capture.Stage,
	analyzeStage *analyze.Stage,
	reviewStage *review.Stage,
	notifier notify.Notifier,
	log *logger.Logger,
) *Controller {
	return &Controller{
		session:  sess,
		router:   router,
		capture:  captureStage,
		analyze:  analyzeStage,
		review:   reviewStage,
		notifier: notifier,
		log:      log.WithComponent("workflow"),
	}
}

// Router exposes the guarded router for screen queries
func (c *Controller) Router() *routes.Router {
	return c.router
}

// Capture exposes the capture stage for state queries
func (c *Controller) Capture() *capture.Stage {
	return c.capture
}

// Review exposes the review stage for state queries
func (c *Controller) Review() *review.Stage {
	return c.review
}

// SignIn caches the identity returned by the login collaborator and lands on
// the role's home screen.
func (c *Controller) SignIn(ident domain.Identity) (routes.Screen, error) {
	if err := c.session.Login(ident); err != nil {
		return c.router.Current(), err
	}
	c.notifier.Success("Welcome back, " + ident.Name + "!")
	return c.Navigate(routes.Home(ident)), nil
}

// SignOut clears the identity and every held workflow state, then returns to
// the unauthenticated entry screen.
func (c *Controller) SignOut() (routes.Screen, error) {
	c.capture.Close()
	c.review.Cancel()
	if err := c.session.Logout(); err != nil {
		return c.router.Current(), err
	}
	return c.router.Navigate(routes.ScreenLogin), nil
}

// Navigate moves between screens through the guard. Entry to review without
// both verdict and image is refused and lands back on capture.
func (c *Controller) Navigate(screen routes.Screen) routes.Screen {
	landed := c.router.Navigate(screen)

	if landed == routes.ScreenReviewComplaint {
		if _, ok := c.review.State(); !ok {
			c.log.Debug().Msg("review reached without carried state, redirecting to capture")
			return c.router.Navigate(routes.ScreenPostComplaint)
		}
	}

	if landed != routes.ScreenPostComplaint {
		// Leaving the capture screen releases the camera stream.
		c.capture.Close()
	}
	return landed
}

// OpenCamera acquires the camera feed on the capture screen
func (c *Controller) OpenCamera(ctx context.Context) error {
	if err := c.capture.Open(ctx); err != nil {
		c.notifyError(err)
		return err
	}
	return nil
}

// CaptureImage reads one frame from the open feed
func (c *Controller) CaptureImage(ctx context.Context) error {
	if err := c.capture.Capture(ctx); err != nil {
		c.notifyError(err)
		return err
	}
	return nil
}

// Retake discards the held image and reopens the feed
func (c *Controller) Retake(ctx context.Context) error {
	if err := c.capture.Retake(ctx); err != nil {
		c.notifyError(err)
		return err
	}
	return nil
}

// Analyze runs one analysis attempt on the held image. On an accepted
// verdict the flow advances to review carrying the verdict, the image and
// the preview handle; on rejection or failure the image stays held and the
// attempt can be retried without recapturing.
func (c *Controller) Analyze(ctx context.Context) (routes.Screen, error) {
	image, ok := c.capture.Image()
	if !ok {
		err := apperrors.InvalidState("capture an image first")
		c.notifier.Error("Please capture an image first.")
		return c.router.Current(), err
	}

	outcome, err := c.analyze.Analyze(ctx, image)
	if err != nil {
		c.notifyError(err)
		return c.router.Current(), err
	}

	if outcome.Rejection != nil {
		c.notifier.Error(outcome.Rejection.Reason)
		return c.router.Current(), nil
	}

	c.review.Enter(outcome.Review)
	return c.Navigate(routes.ScreenReviewComplaint), nil
}

// SubmitComplaint performs the final submission. Success clears all held
// state and re-enters capture; failure keeps the review state intact so the
// user can retry without re-analyzing.
func (c *Controller) SubmitComplaint(ctx context.Context) (routes.Screen, error) {
	ident, ok := c.session.Current()
	if !ok {
		return c.router.Navigate(routes.ScreenLogin), apperrors.InvalidState("not signed in")
	}

	if err := c.review.Submit(ctx, ident); err != nil {
		c.notifier.Error("Submission Failed. Please try again.")
		return c.router.Current(), err
	}

	c.notifier.Success("Complaint Letter Sent Successfully!")
	return c.Navigate(routes.ScreenPostComplaint), nil
}

// CancelReview discards the draft and returns to capture unconditionally
func (c *Controller) CancelReview() routes.Screen {
	c.review.Cancel()
	return c.Navigate(routes.ScreenPostComplaint)
}

// notifyError maps taxonomy errors onto the transient messages shown to the
// user. None of them is fatal; the workflow stays resumable.
func (c *Controller) notifyError(err error) {
	switch apperrors.CodeOf(err) {
	case "BACKEND_UNREACHABLE":
		c.notifier.Error("Backend is not reachable.")
	case "PERMISSION_DENIED":
		c.notifier.Error("Location permission was denied. Please retry.")
	case "TIMED_OUT":
		c.notifier.Error("Location request timed out. Please retry.")
	case "UNAVAILABLE":
		c.notifier.Error("Location is unavailable. Please retry.")
	case "CAPABILITY_MISSING":
		var appErr *apperrors.AppError
		if apperrors.As(err, &appErr) {
			c.notifier.Error(appErr.Message)
			return
		}
		c.notifier.Error(err.Error())
	default:
		c.notifier.Error(err.Error())
	}
}
