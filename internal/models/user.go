package models

import "time"

type User struct {
	ID         string
	Username   string
	Email      string
	Password   string
	IsVerified bool
	// TaskIDs holds storage ids of owned tasks in the order they were added.
	TaskIDs   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
