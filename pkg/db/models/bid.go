package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/gigboard-backend/pkg/enums"
)

// Bid is a proposal against a gig. GigID and BidderID never change after
// insert.
type Bid struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	GigID         uuid.UUID       `gorm:"column:gig_id;type:uuid;not null;index"`
	BidderID      string          `gorm:"column:bidder_id;not null;index"`
	Amount        int64           `gorm:"column:amount;not null"`
	Message       *string         `gorm:"column:message"`
	CounterAmount *int64          `gorm:"column:counter_amount"`
	Status        enums.BidStatus `gorm:"column:status;type:text;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (b *Bid) BeforeCreate(*gorm.DB) error {
	ensureID(&b.ID)
	return nil
}
