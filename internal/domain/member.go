package domain

import "time"

// Member is a newsletter subscription. Unsubscribe flips IsActive rather
// than deleting the row, so resubscribes keep one record per email.
type Member struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	IsActive       bool       `json:"isActive"`
	SubscribedAt   time.Time  `json:"subscribedAt"`
	UnsubscribedAt *time.Time `json:"unsubscribedAt,omitempty"`
}
