package interfaces

// Service is implemented by every interface exposing the marketplace to the
// outside world.
type Service interface {
	// Start serves requests in background.
	Start() error
	// Stop gracefully shuts down the interface.
	Stop()
}
