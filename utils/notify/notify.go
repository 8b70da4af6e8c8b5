package notify

import "log"

// Notifier is the toast surface the UI layer plugs in. Every terminal and
// near-terminal checkout state is announced through it.
type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
}

// LogNotifier is the default Notifier when no UI surface is attached.
type LogNotifier struct{}

func (LogNotifier) Success(message string) {
	log.Printf("[Notify] success: %s", message)
}

func (LogNotifier) Error(message string) {
	log.Printf("[Notify] error: %s", message)
}

func (LogNotifier) Info(message string) {
	log.Printf("[Notify] info: %s", message)
}
