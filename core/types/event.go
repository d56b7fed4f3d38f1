package types

// Event represents a structured state change emitted by the engine.
type Event struct {
	Type       string
	Attributes map[string]string
}
