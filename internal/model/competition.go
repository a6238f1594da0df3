package model

import "time"

type Stage string

const (
	StagePreliminary Stage = "preliminary"
	StageSemifinal   Stage = "semifinal"
	StageFinal       Stage = "final"
)

// Next returns the stage after s and false when s is the last one.
func (s Stage) Next() (Stage, bool) {
	switch s {
	case StagePreliminary:
		return StageSemifinal, true
	case StageSemifinal:
		return StageFinal, true
	default:
		return "", false
	}
}

func (s Stage) Valid() bool {
	switch s {
	case StagePreliminary, StageSemifinal, StageFinal:
		return true
	}
	return false
}

type StageSchedule struct {
	Stage    Stage     `json:"stage"`
	Fee      int64     `json:"fee"`
	OpensAt  time.Time `json:"opens_at"`
	ClosesAt time.Time `json:"closes_at"`
}

func (s *StageSchedule) Open(now time.Time) bool {
	return !now.Before(s.OpensAt) && now.Before(s.ClosesAt)
}

type Competition struct {
	ID                   string           `json:"id"`
	Slug                 string           `json:"slug"`
	Name                 string           `json:"name"`
	Description          string           `json:"description"`
	GuidebookURL         string           `json:"guidebook_url,omitempty"`
	RegistrationOpensAt  time.Time        `json:"registration_opens_at"`
	RegistrationClosesAt time.Time        `json:"registration_closes_at"`
	Stages               []*StageSchedule `json:"stages"`
}

func (c *Competition) RegistrationOpen(now time.Time) bool {
	return !now.Before(c.RegistrationOpensAt) && now.Before(c.RegistrationClosesAt)
}

func (c *Competition) Schedule(stage Stage) *StageSchedule {
	for _, s := range c.Stages {
		if s.Stage == stage {
			return s
		}
	}
	return nil
}
