package serviceiface

// Service is the unit managed by the app manager. Start must not block;
// long-running work belongs in the service's own goroutines.
type Service interface {
	Name() string
	Start() error
	Stop() error
}
