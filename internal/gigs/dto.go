package gigs

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/gigboard-backend/pkg/db/models"
)

// GigDTO is the API representation of a gig.
type GigDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Payout      int64     `json:"payout"`
	Location    *string   `json:"location,omitempty"`
	Tags        []string  `json:"tags"`
	AuthorID    string    `json:"authorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateGigInput carries the fields a poster supplies.
type CreateGigInput struct {
	Title       string   `json:"title" validate:"notblank,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Payout      int64    `json:"payout" validate:"gt=0"`
	Location    *string  `json:"location,omitempty" validate:"omitempty,max=200"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=40"`
}

// ListFilter narrows the public gig listing.
type ListFilter struct {
	Tag       string
	Query     string
	MinPayout *int64
	MaxPayout *int64
	Limit     int
	Cursor    string
}

// ListResult is a page of gigs, newest first.
type ListResult struct {
	Gigs       []GigDTO `json:"gigs"`
	NextCursor string   `json:"nextCursor,omitempty"`
}

func FromModel(m *models.Gig) *GigDTO {
	if m == nil {
		return nil
	}
	return &GigDTO{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Payout:      m.Payout,
		Location:    m.Location,
		Tags:        m.TagNames(),
		AuthorID:    m.AuthorID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
