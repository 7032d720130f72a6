// internal/models/notification.go
package models

import "time"

// Notification is a single entry in a recipient's stream. Streams are keyed
// "notifications:admin" for the moderation console and "notifications:<userID>"
// for buyers and sellers.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	Link      string           `json:"link,omitempty"`
	Metadata  Metadata         `json:"metadata,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
