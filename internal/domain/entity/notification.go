package entity

import "time"

// Notification kinds.
const (
	NotifyApplication  = "application"
	NotifyContact      = "contact"
	NotifyPostImported = "post_imported"
)

// NotificationField is one labelled line of a notification.
type NotificationField struct {
	Name  string
	Value string
}

// Notification is a message for the site team about something visitors or
// the importer did. Body is plain text.
type Notification struct {
	Kind       string
	Title      string
	Body       string
	URL        string
	Fields     []NotificationField
	OccurredAt time.Time
}
