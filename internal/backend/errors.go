package backend

import "errors"

// missingArtifactError signals that a file required to start the backend
// (helper script, checkpoint, python binary) is absent.
type missingArtifactError struct{ path string }

func (e missingArtifactError) Error() string { return "missing backend artifact: " + e.path }

// ErrMissingArtifact constructs a missingArtifactError for the given path.
func ErrMissingArtifact(path string) error { return missingArtifactError{path: path} }

// IsMissingArtifact reports whether err indicates absent backend files.
func IsMissingArtifact(err error) bool {
	var t missingArtifactError
	return errors.As(err, &t)
}

// backendFailureError signals that the backend process failed during
// initialization, encoding or inference.
type backendFailureError struct{ msg string }

func (e backendFailureError) Error() string { return e.msg }

// ErrBackendFailure constructs a backendFailureError.
func ErrBackendFailure(msg string) error { return backendFailureError{msg: msg} }

// IsBackendFailure reports whether err indicates a backend process fault.
func IsBackendFailure(err error) bool {
	var t backendFailureError
	return errors.As(err, &t)
}

// interruptedError signals that the caller was canceled while blocked on the
// backend.
type interruptedError struct{ cause error }

func (e interruptedError) Error() string { return "interrupted: " + e.cause.Error() }

func (e interruptedError) Unwrap() error { return e.cause }

// ErrInterrupted wraps a context cancellation as an interruption.
func ErrInterrupted(cause error) error { return interruptedError{cause: cause} }

// IsInterrupted reports whether err indicates the call was canceled.
func IsInterrupted(err error) bool {
	var t interruptedError
	return errors.As(err, &t)
}

// ErrSessionClosed is returned by inference calls on a closed session.
var ErrSessionClosed = errors.New("backend session is closed")
