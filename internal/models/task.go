package models

import "time"

const (
	StatusPending   = "pending"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

func IsValidStatus(status string) bool {
	return status == StatusPending ||
		status == StatusOngoing ||
		status == StatusCompleted
}

func IsValidPriority(priority string) bool {
	return priority == PriorityHigh ||
		priority == PriorityMedium ||
		priority == PriorityLow
}

type Task struct {
	// ID is the storage id. TaskID is the caller-supplied identifier.
	ID            string
	TaskID        string
	UserID        string
	Title         string
	Description   string
	Deadline      time.Time
	Priority      string
	CurrentStatus string
	History       StatusHistory
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// StatusHistory records, per status, the storage ids of tasks that were
// ever placed into it. Entries are never removed on later transitions.
type StatusHistory struct {
	Pending   []string
	Ongoing   []string
	Completed []string
}

func (h *StatusHistory) Add(status, taskID string) {
	var set *[]string
	switch status {
	case StatusPending:
		set = &h.Pending
	case StatusOngoing:
		set = &h.Ongoing
	case StatusCompleted:
		set = &h.Completed
	default:
		return
	}

	for _, id := range *set {
		if id == taskID {
			return
		}
	}
	*set = append(*set, taskID)
}

func (h *StatusHistory) Contains(status, taskID string) bool {
	var set []string
	switch status {
	case StatusPending:
		set = h.Pending
	case StatusOngoing:
		set = h.Ongoing
	case StatusCompleted:
		set = h.Completed
	}

	for _, id := range set {
		if id == taskID {
			return true
		}
	}
	return false
}
