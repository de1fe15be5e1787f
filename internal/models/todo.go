package models

import "time"

type Todo struct {
	ID        string
	UserID    string
	Title     string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time

	// Populated only by the admin listing, which joins user identity.
	UserName  string
	UserEmail string
}

// Stats are the precomputed counters behind the admin dashboard.
type Stats struct {
	TotalUsers     int `json:"totalUsers"`
	TotalTodos     int `json:"totalTodos"`
	CompletedTodos int `json:"completedTodos"`
	PendingTodos   int `json:"pendingTodos"`
}
