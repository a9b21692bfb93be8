package models

import "time"

// User is the full identity record. PasswordHash is persisted but never sent
// over HTTP.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name" validate:"required,max=100"`
	Email        string `json:"email" validate:"required,email,max=100"`
	Phone        string `json:"phone" validate:"max=20"`
	PasswordHash string `json:"passwordHash"`

	CreatedAt time.Time `json:"createdAt"`
}

// SessionUser is the current-user projection: the record minus the hash.
type SessionUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`

	LoggedInAt time.Time `json:"loggedInAt"`
}

func (u User) Session(at time.Time) SessionUser {
	return SessionUser{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		LoggedInAt: at,
	}
}
