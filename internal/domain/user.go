package domain

import "time"

// User owns entries.
type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}
