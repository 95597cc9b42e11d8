package domain

import "time"

// Priority of an activity
type Priority string

// Priority levels
const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Valid reports whether the priority is one of the enumerated levels
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status is the two-valued activity lifecycle tag
type Status string

// Activity statuses
const (
	StatusToDo Status = "ToDo"
	StatusDone Status = "Done"
)

// Valid reports whether the status is one of the enumerated values
func (s Status) Valid() bool {
	return s == StatusToDo || s == StatusDone
}

// Activity Model
type Activity struct {
	ID          uint      `gorm:"primaryKey" json:"id"`             // Primary key
	Title       string    `gorm:"not null" json:"title"`            // Required title
	Description string    `json:"description"`                      // Optional description
	CreatedAt   time.Time `json:"createdAt"`                        // Set once at creation, immutable
	UpdatedAt   time.Time `json:"updatedAt"`                        // Stamped on every mutation
	Priority    Priority  `gorm:"type:varchar(16)" json:"priority"` // Low, Medium or High
	Status      Status    `gorm:"type:varchar(16)" json:"status"`   // ToDo or Done
	UserID      uint      `gorm:"not null;index" json:"userId"`     // Foreign key to the owning User
}
