package model

// Service is a bookable salon treatment. The booking engine treats it as
// read-only input; only active services can be booked.
type Service struct {
	Base
	Name            string  `db:"name" json:"name"`
	Category        string  `db:"category" json:"category"`
	Price           float64 `db:"price" json:"price"`
	DurationMinutes int     `db:"duration_minutes" json:"duration_minutes"`
	Description     string  `db:"description" json:"description,omitempty"`
	ImageURL        string  `db:"image_url" json:"image_url,omitempty"`
	Active          bool    `db:"active" json:"active"`
}
