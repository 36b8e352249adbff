// Package notify defines the transient toast notification shown after a
// state-mutating action, and the cancellable task that expires it.
package notify

// Level represents the severity of a toast.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Toast is the single active notification. A nil *Toast means none is shown.
type Toast struct {
	Message string `json:"message"`
	Level   Level  `json:"type"`
}

// Success returns a success-level toast.
func Success(msg string) *Toast {
	return &Toast{Message: msg, Level: LevelSuccess}
}

// Info returns an info-level toast.
func Info(msg string) *Toast {
	return &Toast{Message: msg, Level: LevelInfo}
}
