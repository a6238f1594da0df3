package model

import "time"

type TeamStatus string

const (
	TeamStatusActive     TeamStatus = "active"
	TeamStatusEliminated TeamStatus = "eliminated"
	TeamStatusCompleted  TeamStatus = "completed"
)

const MaxTeamMembers = 2

type Team struct {
	ID            string       `json:"id"`
	CompetitionID string       `json:"competition_id"`
	LeaderID      string       `json:"leader_id"`
	Name          string       `json:"team_name"`
	Institution   string       `json:"institution"`
	Leader        TeamMember   `json:"leader"`
	Members       []TeamMember `json:"members"`
	Stage         Stage        `json:"stage"`
	Status        TeamStatus   `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
}

type TeamMember struct {
	Name      string `json:"name" validate:"required,max=120"`
	Email     string `json:"email" validate:"required,emailx"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	StudentID string `json:"student_id" validate:"omitempty,max=40"`
}

type TeamRegistration struct {
	Name        string       `json:"team_name" validate:"required,max=80"`
	Institution string       `json:"institution" validate:"required,max=160"`
	Leader      TeamMember   `json:"leader" validate:"required"`
	Members     []TeamMember `json:"members" validate:"max=2,dive"`
}

type TeamFilter struct {
	CompetitionSlug string
	Stage           Stage
	Status          TeamStatus
}

type SubmissionStatus string

const (
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusPassed    SubmissionStatus = "passed"
	SubmissionStatusFailed    SubmissionStatus = "failed"
)

type Submission struct {
	TeamID      string           `json:"team_id"`
	Stage       Stage            `json:"stage"`
	FileURL     string           `json:"file_url"`
	Note        string           `json:"note,omitempty"`
	Status      SubmissionStatus `json:"status"`
	SubmittedAt time.Time        `json:"submitted_at"`
	ReviewedAt  *time.Time       `json:"reviewed_at,omitempty"`
}
