package runtime

import "os"

// ServiceOption customizes the service lifecycle before Run.
type ServiceOption func(*ServiceCtx)

// WithServiceTermination substitutes the signal channel that triggers
// shutdown, letting a harness stop the service programmatically.
func WithServiceTermination(ch chan os.Signal) ServiceOption {
	return func(s *ServiceCtx) {
		s.shutdownChannel = ch
	}
}

// WithWaitingForServer arms WaitForServer: callers can block until the
// listener is accepting connections.
func WithWaitingForServer() ServiceOption {
	return func(s *ServiceCtx) {
		s.serverReady = make(chan struct{})
	}
}
