package models

import "time"

type Location struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

type Barber struct {
	ID       string   `json:"id" validate:"required"`
	Name     string   `json:"name" validate:"required,max=100"`
	Rating   float64  `json:"rating" validate:"gte=0,lte=5"`
	Distance string   `json:"distance"`
	Price    string   `json:"price"`
	Image    string   `json:"image"`
	Reviews  int      `json:"reviews" validate:"gte=0"`
	Location Location `json:"location"`
}

// Service is soft-deleted through IsActive so old bookings keep a valid
// description.
type Service struct {
	ID          string  `json:"id"`
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description,omitempty" validate:"max=255"`
	Price       float64 `json:"price" validate:"gte=0"`
	Duration    int     `json:"duration" validate:"gt=0"`
	Category    string  `json:"category" validate:"max=50"`
	IsActive    bool    `json:"isActive"`
	Version     int64   `json:"version"`
}

// Client is either created by a barber or derived from booking history
// (IsTemporary). Phone is the deduplication key.
type Client struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required,max=100"`
	Phone       string `json:"phone" validate:"required,max=20"`
	Email       string `json:"email,omitempty" validate:"omitempty,email,max=100"`
	IsTemporary bool   `json:"isTemporary"`
	Version     int64  `json:"version"`

	CreatedAt time.Time `json:"createdAt"`
}
