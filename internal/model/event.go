package model

import "time"

type Event struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
}

type Countdown struct {
	Days     int64 `json:"days"`
	Hours    int64 `json:"hours"`
	Minutes  int64 `json:"minutes"`
	Seconds  int64 `json:"seconds"`
	Started  bool  `json:"started"`
	Finished bool  `json:"finished"`
}

// CountdownTo splits the time left until e starts. Partial seconds are truncated.
func (e *Event) CountdownTo(now time.Time) Countdown {
	c := Countdown{
		Started:  !now.Before(e.StartsAt),
		Finished: !e.EndsAt.IsZero() && !now.Before(e.EndsAt),
	}
	if c.Started {
		return c
	}

	left := int64(e.StartsAt.Sub(now) / time.Second)
	c.Days = left / 86400
	c.Hours = left % 86400 / 3600
	c.Minutes = left % 3600 / 60
	c.Seconds = left % 60
	return c
}
