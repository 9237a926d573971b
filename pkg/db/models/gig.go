package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gig is a posting owned by its author.
type Gig struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Title       string    `gorm:"column:title;not null"`
	Description *string   `gorm:"column:description"`
	Payout      int64     `gorm:"column:payout;not null"`
	Location    *string   `gorm:"column:location"`
	AuthorID    string    `gorm:"column:author_id;not null;index"`
	Tags        []GigTag  `gorm:"foreignKey:GigID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (g *Gig) BeforeCreate(*gorm.DB) error {
	ensureID(&g.ID)
	return nil
}

// TagNames flattens the tag association.
func (g Gig) TagNames() []string {
	names := make([]string, 0, len(g.Tags))
	for _, t := range g.Tags {
		names = append(names, t.Tag)
	}
	return names
}

// GigTag is one normalised tag on a gig.
type GigTag struct {
	GigID uuid.UUID `gorm:"column:gig_id;type:uuid;primaryKey"`
	Tag   string    `gorm:"column:tag;primaryKey;index"`
}
