package asset

import (
	"errors"
	"fmt"
)

// Validation failures. Use errors.Is to test for a specific kind; the error
// returned by Validate is always a *ValidationError wrapping one of these.
var (
	// ErrInvalidAssetKeys means the asset did not carry exactly target, type and value.
	ErrInvalidAssetKeys = errors.New("each asset should only contain the keys: target, type, and value")

	// ErrInvalidAssetType means the type is not text, image or video.
	ErrInvalidAssetType = errors.New("invalid asset type, available choices are: text, image and video")

	// ErrBadAssetValueURL means the URL value did not answer the liveness probe with 200.
	ErrBadAssetValueURL = errors.New("asset value must be a valid, working URL")

	// ErrInvalidImageValue means an image asset's value is not an http(s) URL.
	ErrInvalidImageValue = errors.New("assets with an image type should have an image URL as the value")

	// ErrInvalidVideoValue means a video asset's value is not an http(s) URL.
	ErrInvalidVideoValue = errors.New("assets with a video type should have a video URL as the value")
)

// ValidationError reports which asset in a batch failed and why.
type ValidationError struct {
	// Index is the position of the failing asset in the input.
	Index int

	// Target is the failing asset's target, if it had one.
	Target string

	// Err is one of the package sentinels, possibly wrapped with detail.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("asset %d (%s): %v", e.Index, e.Target, e.Err)
	}
	return fmt.Sprintf("asset %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError returns true if err came from asset validation.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
