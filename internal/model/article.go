package model

import "time"

type Article struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Content     string     `json:"content"`
	CoverURL    string     `json:"cover_url,omitempty"`
	Author      string     `json:"author"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ArticleInput struct {
	Title     string `json:"title" validate:"required,max=200"`
	Summary   string `json:"summary" validate:"max=500"`
	Content   string `json:"content" validate:"required"`
	Author    string `json:"author" validate:"required,max=120"`
	Published bool   `json:"published"`
}

// ArticlePatch holds the fields an admin may change; nil means untouched.
type ArticlePatch struct {
	Title     *string `json:"title" validate:"omitempty,max=200"`
	Summary   *string `json:"summary" validate:"omitempty,max=500"`
	Content   *string `json:"content"`
	Author    *string `json:"author" validate:"omitempty,max=120"`
	Published *bool   `json:"published"`
}
