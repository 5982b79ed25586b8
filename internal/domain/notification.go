package domain

// NotificationKind distinguishes success banners from error banners.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is a transient status message shown on the user list screen.
// Seq identifies the notification so an expiry only clears the one it was
// armed for.
type Notification struct {
	Message string
	Kind    NotificationKind
	Seq     uint64
}
