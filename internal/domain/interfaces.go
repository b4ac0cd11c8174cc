package domain

// Session exposes the current authentication state to services
type Session interface {
	IsAuthenticated() bool
	Username() string
}

// Level is the severity of a user notification
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Notification is a transient message for the user
type Notification struct {
	Level   Level
	Message string
}

// Notifier delivers user-visible notifications. Implementations must not block.
type Notifier interface {
	Notify(n Notification)
}

// NopNotifier discards notifications
type NopNotifier struct{}

func (NopNotifier) Notify(Notification) {}

// NotifyError is shorthand for an error-level notification
func NotifyError(n Notifier, msg string) {
	if n != nil {
		n.Notify(Notification{Level: LevelError, Message: msg})
	}
}

// NotifyInfo is shorthand for an info-level notification
func NotifyInfo(n Notifier, msg string) {
	if n != nil {
		n.Notify(Notification{Level: LevelInfo, Message: msg})
	}
}
