package backend

// Event represents a backend process lifecycle event.
// Minimal and stable: name + image path and optional fields via key/values.
type Event struct {
	Name   string
	Image  string
	Fields map[string]any
}

// EventPublisher receives events from the session. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
