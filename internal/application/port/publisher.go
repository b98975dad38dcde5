package port

// Publisher pushes the latest reading to any connected live listeners.
// Fire and forget: no acknowledgment, no delivery guarantee, a no-op when
// nobody is connected. Never fails observably to the caller.
type Publisher interface {
	Broadcast(text string)
}
