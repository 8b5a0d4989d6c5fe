package domain

// NotificationKind classifies a transient user-facing message.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyWarning NotificationKind = "warning"
	NotifyInfo    NotificationKind = "info"
)

// Notification is a transient message independent of any single screen.
// DurationMs of 0 means the notification persists until dismissed.
type Notification struct {
	ID         string           `json:"id"`
	Kind       NotificationKind `json:"kind"`
	Title      string           `json:"title,omitempty"`
	Message    string           `json:"message,omitempty"`
	DurationMs int              `json:"durationMs"`
}
