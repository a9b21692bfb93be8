package models

import "time"

// Booking is the one canonical record of an appointment, shared by the client
// and barber views.
type Booking struct {
	ID     string `json:"id"`
	UserID int64  `json:"userId,omitempty"`

	ClientID    string `json:"clientId,omitempty"`
	ClientName  string `json:"clientName,omitempty" validate:"max=100"`
	ClientPhone string `json:"clientPhone,omitempty" validate:"max=20"`

	BarberID    string `json:"barberId,omitempty"`
	BarberName  string `json:"barberName" validate:"required,max=100"`
	BarberImage string `json:"barberImage,omitempty"`

	Service string  `json:"service" validate:"required,max=100"`
	Date    string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time    string  `json:"time" validate:"required,max=20"`
	Price   float64 `json:"price" validate:"gte=0"`
	Status  string  `json:"status"`
	Address string  `json:"address,omitempty" validate:"max=255"`
	Phone   string  `json:"phone,omitempty" validate:"max=20"`

	Version int64              `json:"version"`
	History []StatusTransition `json:"history,omitempty"`

	CreatedAt   time.Time  `json:"createdAt"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// StatusTransition is one durable entry of a booking's status trail.
type StatusTransition struct {
	From  string    `json:"from"`
	To    string    `json:"to"`
	Actor string    `json:"actor"`
	At    time.Time `json:"at"`
}
