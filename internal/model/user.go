package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone,omitempty"`
	Institution string    `json:"institution,omitempty"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

type Registration struct {
	Email       string `json:"email" validate:"required,emailx"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	Name        string `json:"name" validate:"required,max=120"`
	Phone       string `json:"phone" validate:"omitempty,phone"`
	Institution string `json:"institution" validate:"omitempty,max=160"`
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}
