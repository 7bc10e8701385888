package domain

import "time"

// Event is a dated listing published by an organizer.
type Event struct {
	ID          string    `json:"id" bson:"_id"`
	OrganizerID string    `json:"organizer_id" bson:"organizer_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Date        time.Time `json:"date" bson:"date"`
	Location    string    `json:"location" bson:"location"`
	Price       float64   `json:"price" bson:"price"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

