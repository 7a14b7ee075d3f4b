package models

import "time"

type Profile struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Password  string     `json:"-"`
	Provider  string     `json:"provider"` // "local", "google", "facebook"
	Role      string     `json:"role"`     // "customer" ou "admin"
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
