package model

import "time"

type NetworkingParticipant struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name" validate:"required,max=120"`
	Email       string    `json:"email" validate:"required,emailx"`
	Phone       string    `json:"phone" validate:"required,phone"`
	Institution string    `json:"institution" validate:"required,max=160"`
	Motivation  string    `json:"motivation" validate:"max=1000"`
	CreatedAt   time.Time `json:"created_at"`
}

type BusinessStage string

const (
	BusinessStageIdea   BusinessStage = "idea"
	BusinessStageEarly  BusinessStage = "early"
	BusinessStageGrowth BusinessStage = "growth"
)

type BusinessClassParticipant struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	Name          string        `json:"name" validate:"required,max=120"`
	Email         string        `json:"email" validate:"required,emailx"`
	Phone         string        `json:"phone" validate:"required,phone"`
	Institution   string        `json:"institution" validate:"required,max=160"`
	BusinessName  string        `json:"business_name" validate:"max=120"`
	BusinessStage BusinessStage `json:"business_stage" validate:"required,oneof=idea early growth"`
	CreatedAt     time.Time     `json:"created_at"`
}

type RegistrationStatus struct {
	Registered bool `json:"registered"`
}
