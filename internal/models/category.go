package models

import "time"

// Category — раздел форума. Имя не уникально.
type Category struct {
	ID          string
	Name        string
	Description string
	Order       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
