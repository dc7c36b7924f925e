package vp9parser

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by all packages. Callers match with errors.Is.
var (
	// ErrInvalidContainer reports a structural IVF problem. Fatal to the stream.
	ErrInvalidContainer = errors.New("invalid container")
	// ErrTruncatedContainer reports a chunk cut short by the end of input. Fatal to the stream.
	ErrTruncatedContainer = errors.New("truncated container")
	// ErrInvalidHeader reports a malformed uncompressed or compressed header. Fatal to the frame.
	ErrInvalidHeader = errors.New("invalid header")
	// ErrUnsupportedProfile reports a profile, bit depth or color combination that is not allowed.
	ErrUnsupportedProfile = errors.New("unsupported profile")
	// ErrOutOfData reports a read past the end of a bit buffer.
	ErrOutOfData = errors.New("out of data")
)

// HeaderError converts a low-level read failure into an ErrInvalidHeader while keeping
// the original cause reachable through errors.Is. Errors that already belong to the
// frame-level taxonomy are returned unchanged.
func HeaderError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidHeader) || errors.Is(err, ErrUnsupportedProfile) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidHeader, err)
}

// IsFrameError reports whether err only invalidates the current frame, leaving the stream usable.
func IsFrameError(err error) bool {
	return errors.Is(err, ErrInvalidHeader) || errors.Is(err, ErrUnsupportedProfile)
}

// IsStreamError reports whether err is fatal to the whole stream.
func IsStreamError(err error) bool {
	return errors.Is(err, ErrInvalidContainer) || errors.Is(err, ErrTruncatedContainer)
}
