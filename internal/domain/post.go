package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Post is a blog entry managed from the admin dashboard.
type Post struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreatePostRequest struct {
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func (r *CreatePostRequest) Normalize() {
	r.Slug = strings.ToLower(strings.TrimSpace(r.Slug))
	r.Title = strings.TrimSpace(r.Title)
}

func (r *CreatePostRequest) Validate() error {
	if !slugPattern.MatchString(r.Slug) {
		return fmt.Errorf("slug must be lowercase words separated by hyphens")
	}
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.Body == "" {
		return fmt.Errorf("body is required")
	}
	return nil
}

type UpdatePostRequest struct {
	Title     *string `json:"title,omitempty"`
	Body      *string `json:"body,omitempty"`
	Published *bool   `json:"published,omitempty"`
}
