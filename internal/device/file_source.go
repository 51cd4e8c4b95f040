// Package device provides headless adapters for the capture and geolocation
// interfaces, backed by files and configuration. Real deployments plug in
// hardware-backed implementations of the same interfaces.
package device

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/civicai/civic-client/internal/capture"
)

// JPEG and PNG magic bytes for image detection
var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47}
)

// FileSource serves camera frames from an image file on disk
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed frame source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Open verifies the backing file exists and returns a stream over it.
// A missing or unreadable file means there is no device feed.
func (s *FileSource) Open(ctx context.Context) (capture.FrameStream, error) {
	if s.path == "" {
		return nil, fmt.Errorf("device: no frame file configured")
	}
	if _, err := os.Stat(s.path); err != nil {
		return nil, fmt.Errorf("device: frame file unavailable: %w", err)
	}
	return &fileStream{path: s.path}, nil
}

type fileStream struct {
	path   string
	closed bool
}

// ReadFrame reads the backing file as one still frame
func (s *fileStream) ReadFrame(ctx context.Context) (capture.Frame, error) {
	if s.closed {
		return capture.Frame{}, fmt.Errorf("device: stream is closed")
	}
	if err := ctx.Err(); err != nil {
		return capture.Frame{}, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return capture.Frame{}, fmt.Errorf("device: read frame: %w", err)
	}

	mime, ok := sniffImage(data)
	if !ok {
		return capture.Frame{}, fmt.Errorf("device: %s is not a JPEG or PNG image", s.path)
	}
	return capture.Frame{Data: data, MIME: mime}, nil
}

func (s *fileStream) Close() error {
	s.closed = true
	return nil
}

// sniffImage detects JPEG or PNG content by magic bytes
func sniffImage(data []byte) (string, bool) {
	switch {
	case bytes.HasPrefix(data, jpegMagic):
		return "image/jpeg", true
	case bytes.HasPrefix(data, pngMagic):
		return "image/png", true
	default:
		return "", false
	}
}
