package deploy_service

import (
	"errors"
	"fmt"
)

var (
	// ErrMethodNotAllowed deploy endpoint only accepts POST
	ErrMethodNotAllowed = errors.New("Method not allowed")

	// ErrNoFileUploaded multipart body carried no file
	ErrNoFileUploaded = errors.New("No file uploaded")

	// ErrTooManyFiles more than one file in the upload field
	ErrTooManyFiles = errors.New("only one file may be uploaded")

	// ErrUploadTooLarge request body exceeded the configured limit
	ErrUploadTooLarge = errors.New("uploaded file is too large")

	// ErrArchiveFormat upload is not a readable zip archive
	ErrArchiveFormat = errors.New("invalid zip archive")

	// ErrMissingIndex no index.html at the archive root
	ErrMissingIndex = errors.New("index.html not found in root of zip file")

	// ErrDuplicateEntry two archive entries share a path
	ErrDuplicateEntry = errors.New("duplicate file in zip archive")

	// ErrMissingCredential deployment token is not configured
	ErrMissingCredential = errors.New("VERCEL_TOKEN is not configured. Set SNAPSHIP_VERCEL_TOKEN or VERCEL_TOKEN, " +
		"tokens are issued at https://vercel.com/account/tokens")

	// ErrUpstream provider rejected or failed the deployment
	ErrUpstream = errors.New(GenericUpstreamMessage)
)

// GenericUpstreamMessage used when the provider gives no message of its own
const GenericUpstreamMessage = "Vercel deployment failed"

// UpstreamError the provider call failed; Message is what the caller sees.
type UpstreamError struct {
	StatusCode int // 0 when no response was received
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

// ErrorKind classifies failures for the request boundary.
type ErrorKind string

const (
	KindBadRequest       ErrorKind = "bad_request"
	KindMethodNotAllowed ErrorKind = "method_not_allowed"
	KindArchiveFormat    ErrorKind = "archive_format"
	KindConfiguration    ErrorKind = "configuration"
	KindUpstream         ErrorKind = "upstream"
	KindInternal         ErrorKind = "internal"
)

// KindOf maps an error from any stage to its kind.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMethodNotAllowed):
		return KindMethodNotAllowed
	case errors.Is(err, ErrNoFileUploaded),
		errors.Is(err, ErrTooManyFiles),
		errors.Is(err, ErrUploadTooLarge),
		errors.Is(err, ErrMissingIndex),
		errors.Is(err, ErrDuplicateEntry):
		return KindBadRequest
	case errors.Is(err, ErrArchiveFormat):
		return KindArchiveFormat
	case errors.Is(err, ErrMissingCredential):
		return KindConfiguration
	case errors.Is(err, ErrUpstream):
		return KindUpstream
	default:
		return KindInternal
	}
}

// StageError records the pipeline stage a failure happened in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func archiveError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrArchiveFormat, fmt.Sprintf(format, args...))
}
