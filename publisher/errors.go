package publisher

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAuthentication is returned by New when the credential probe fails.
	ErrAuthentication = errors.New("could not authenticate, ensure that your credentials are correct")

	// ErrUnauthorized means the service answered 401 while publishing.
	ErrUnauthorized = errors.New("could not authenticate with the asset service, ensure that your credentials are correct")

	// ErrBadAssetData means the service answered 400: the entry was rejected.
	ErrBadAssetData = errors.New("bad asset value formatting, please reformat and try again")

	// ErrUnexpectedStatus covers every other non-success status.
	ErrUnexpectedStatus = errors.New("unexpected response from the asset service")
)

// ResponseError reports the first entry the service refused. Entries before
// Index were accepted and stay published: the service has no way to undo them.
type ResponseError struct {
	// StatusCode is the HTTP status of the refused entry.
	StatusCode int

	// Index is the position of the refused asset in the batch.
	Index int

	// Target is the refused asset's target.
	Target string

	// RecordID is the record the batch was published under.
	RecordID string

	// Posted is how many entries were accepted before the failure.
	Posted int

	// Detail is the service's own error message, when it sent one.
	Detail string
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	msg := fmt.Sprintf("publish asset %d (%s): HTTP %d: %v", e.Index, e.Target, e.StatusCode, e.Unwrap())
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap returns the sentinel matching the status code.
func (e *ResponseError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusBadRequest:
		return ErrBadAssetData
	default:
		return ErrUnexpectedStatus
	}
}

// IsResponseError returns true if err is a *ResponseError, meaning some
// network side effects may already have happened.
func IsResponseError(err error) bool {
	var r *ResponseError
	return errors.As(err, &r)
}
