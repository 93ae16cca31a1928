// Package media wraps audio recording as a two-state capability.
package media

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amishk599/prepkit/internal/model"
)

// Source acquires an audio input device.
type Source interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream is an acquired input device.
type Stream interface {
	// Record begins capturing until the returned Recording is stopped.
	Record() (Recording, error)
	// Close releases the device, stopping any active recording.
	Close() error
}

// Recording is an in-flight capture.
type Recording interface {
	// Stop ends the capture and returns the finalized audio.
	Stop() ([]byte, error)
}

// Capture owns the single audio stream of an interview. It is idle or
// recording; at most one recording is open at a time. Not safe for
// concurrent use.
type Capture struct {
	source Source
	logger *slog.Logger

	stream Stream
	active Recording
	blob   []byte
}

// NewCapture returns an idle capture over source.
func NewCapture(source Source, logger *slog.Logger) *Capture {
	return &Capture{source: source, logger: logger}
}

// RequestAccess acquires the input stream. It reports false when access is
// denied, in which case the caller switches to text input. It never fails.
func (c *Capture) RequestAccess(ctx context.Context) bool {
	if c.stream != nil {
		return true
	}
	stream, err := c.source.Open(ctx)
	if err != nil {
		c.logger.Warn("microphone access denied, using text input", "error", err)
		return false
	}
	c.stream = stream
	return true
}

// HasAccess reports whether a stream is held.
func (c *Capture) HasAccess() bool {
	return c.stream != nil
}

// IsRecording reports whether a capture is in flight.
func (c *Capture) IsRecording() bool {
	return c.active != nil
}

// Start begins a recording and clears the previous blob. It is a no-op while
// already recording.
func (c *Capture) Start() error {
	if c.active != nil {
		return nil
	}
	if c.stream == nil {
		return model.ErrPermissionDenied
	}
	rec, err := c.stream.Record()
	if err != nil {
		return fmt.Errorf("start recording: %w", err)
	}
	c.blob = nil
	c.active = rec
	c.logger.Debug("recording started")
	return nil
}

// Stop finalizes the active recording into the blob. It is a no-op when idle.
func (c *Capture) Stop() error {
	if c.active == nil {
		return nil
	}
	rec := c.active
	c.active = nil
	data, err := rec.Stop()
	if err != nil {
		return fmt.Errorf("stop recording: %w", err)
	}
	c.blob = data
	c.logger.Debug("recording stopped", "bytes", len(data))
	return nil
}

// Blob returns the last finalized recording, nil when there is none.
func (c *Capture) Blob() []byte {
	return c.blob
}

// ClearBlob drops the finalized recording after it has been submitted.
func (c *Capture) ClearBlob() {
	c.blob = nil
}

// Release stops any recording and releases the stream.
func (c *Capture) Release() {
	if c.active != nil {
		if _, err := c.active.Stop(); err != nil {
			c.logger.Debug("discarding recording on release", "error", err)
		}
		c.active = nil
	}
	if c.stream != nil {
		if err := c.stream.Close(); err != nil {
			c.logger.Warn("release audio stream", "error", err)
		}
		c.stream = nil
	}
	c.blob = nil
}

// DeniedSource never grants access. It is used when audio is disabled.
type DeniedSource struct{}

// Open always returns ErrPermissionDenied.
func (DeniedSource) Open(context.Context) (Stream, error) {
	return nil, model.ErrPermissionDenied
}
