package capture

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/civicai/civic-client/internal/domain"
	apperrors "github.com/civicai/civic-client/pkg/errors"
	"github.com/civicai/civic-client/pkg/logger"
)

// State is the capture stage's position in its lifecycle
type State string

const (
	StateIdle       State = "idle"
	StateCameraOpen State = "camera_open"
	StateCaptured   State = "captured"
)

// ErrNoDeviceFeed is returned by Open when no camera stream is available.
// It is surfaced to the user, never retried automatically.
var ErrNoDeviceFeed = apperrors.CapabilityMissing("camera")

// Frame is one raw still read from the device feed
type Frame struct {
	Data []byte
	MIME string
}

// FrameStream is a live camera feed. It is exclusively owned by the stage
// while the camera is open and must be released on every exit path.
type FrameStream interface {
	ReadFrame(ctx context.Context) (Frame, error)
	Close() error
}

// FrameSource abstracts the camera device
type FrameSource interface {
	Open(ctx context.Context) (FrameStream, error)
}

// Stage acquires one still image from the device feed.
// Lifecycle: Idle → CameraOpen → Captured, with Captured → CameraOpen on
// retake. The held image is never mutated, only replaced.
type Stage struct {
	source FrameSource
	stream FrameStream
	state  State
	image  *domain.CapturedImage
	log    *logger.Logger
}

// NewStage creates a capture stage in the Idle state
func NewStage(source FrameSource, log *logger.Logger) *Stage {
	return &Stage{
		source: source,
		state:  StateIdle,
		log:    log.WithComponent("capture"),
	}
}

// State returns the stage's current lifecycle state
func (s *Stage) State() State {
	return s.state
}

// Image returns the held captured image, if any
func (s *Stage) Image() (domain.CapturedImage, bool) {
	if s.image == nil {
		return domain.CapturedImage{}, false
	}
	return *s.image, true
}

// Open acquires the camera stream and transitions Idle → CameraOpen.
// Fails with ErrNoDeviceFeed when no stream is available.
func (s *Stage) Open(ctx context.Context) error {
	if s.state != StateIdle {
		return apperrors.InvalidState(fmt.Sprintf("cannot open camera in state %q", s.state))
	}
	return s.acquireStream(ctx)
}

// Capture reads one frame, decodes it into a CapturedImage and transitions
// CameraOpen → Captured. The stream is released on leaving CameraOpen,
// whether the read succeeded or not.
func (s *Stage) Capture(ctx context.Context) error {
	if s.state != StateCameraOpen {
		return apperrors.InvalidState(fmt.Sprintf("cannot capture in state %q", s.state))
	}

	frame, err := s.stream.ReadFrame(ctx)
	s.releaseStream()
	if err != nil {
		s.state = StateIdle
		return apperrors.Wrap(err, "CAPTURE_FAILED", "could not read a frame from the camera")
	}

	s.image = &domain.CapturedImage{
		Data:     frame.Data,
		MIME:     frame.MIME,
		Filename: syntheticFilename(frame.MIME),
	}
	s.state = StateCaptured

	s.log.Debug().
		Str("filename", s.image.Filename).
		Int("bytes", len(s.image.Data)).
		Msg("frame captured")
	return nil
}

// Retake discards the held image and returns to CameraOpen. If the stream
// cannot be reacquired the stage falls back to Idle with nothing held.
func (s *Stage) Retake(ctx context.Context) error {
	if s.state != StateCaptured {
		return apperrors.InvalidState(fmt.Sprintf("cannot retake in state %q", s.state))
	}
	s.image = nil
	s.state = StateIdle
	return s.acquireStream(ctx)
}

// Close tears the stage down, releasing the stream and discarding any held
// image. Safe to call in any state; used when navigating away mid-capture.
func (s *Stage) Close() {
	s.releaseStream()
	s.image = nil
	s.state = StateIdle
}

func (s *Stage) acquireStream(ctx context.Context) error {
	stream, err := s.source.Open(ctx)
	if err != nil || stream == nil {
		s.log.Warn().Err(err).Msg("no camera stream available")
		return ErrNoDeviceFeed
	}
	s.stream = stream
	s.state = StateCameraOpen
	return nil
}

func (s *Stage) releaseStream() {
	if s.stream == nil {
		return
	}
	if err := s.stream.Close(); err != nil {
		s.log.Warn().Err(err).Msg("failed to release camera stream")
	}
	s.stream = nil
}

// syntheticFilename names the in-memory artifact for multipart uploads
func syntheticFilename(mime string) string {
	ext := ".bin"
	switch mime {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	}
	return "captured_" + uuid.NewString() + ext
}
