package submission

import "go.uber.org/zap"

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

const (
	SuccessMessage  = "Message sent! We will contact you soon."
	DispatchMessage = "Could not open the messaging app. Please try again."
)

// Notification is a transient toast shown to the user.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier surfaces notifications. The handler decides which message and
// when; rendering is up to the implementation.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (fn NotifierFunc) Notify(n Notification) {
	if fn != nil {
		fn(n)
	}
}

// LogNotifier writes notifications to a zap logger.
func LogNotifier(logger *zap.Logger) Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return NotifierFunc(func(n Notification) {
		switch n.Level {
		case LevelError:
			logger.Warn("contact notification", zap.String("level", string(n.Level)), zap.String("message", n.Message))
		default:
			logger.Info("contact notification", zap.String("level", string(n.Level)), zap.String("message", n.Message))
		}
	})
}
