package manager

// modelNotFoundError is returned when a requested family id is unknown.
type modelNotFoundError struct{ id string }

func (e modelNotFoundError) Error() string { return "model not found: " + e.id }

func ErrModelNotFound(id string) error { return modelNotFoundError{id: id} }

// IsModelNotFound reports whether the error indicates an unknown family id.
func IsModelNotFound(err error) bool {
	_, ok := err.(modelNotFoundError)
	return ok
}

// sessionNotFoundError is returned when a session id is unknown or already
// closed.
type sessionNotFoundError struct{ id string }

func (e sessionNotFoundError) Error() string { return "session not found: " + e.id }

func ErrSessionNotFound(id string) error { return sessionNotFoundError{id: id} }

// IsSessionNotFound reports whether the error indicates an unknown session.
func IsSessionNotFound(err error) bool {
	_, ok := err.(sessionNotFoundError)
	return ok
}
