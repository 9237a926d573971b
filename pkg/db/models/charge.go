package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/gigboard-backend/pkg/enums"
	"github.com/angelmondragon/gigboard-backend/pkg/types"
)

// Charge tracks a payment attempt the provider reports back on by Reference.
// A bid opens at most one charge; claim charges carry no BidID.
type Charge struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Reference string             `gorm:"column:reference;not null;uniqueIndex"`
	Amount    int64              `gorm:"column:amount;not null"`
	Status    enums.ChargeStatus `gorm:"column:status;type:text;not null"`
	Metadata  types.Meta         `gorm:"column:metadata;type:jsonb;not null"`
	BidID     *uuid.UUID         `gorm:"column:bid_id;type:uuid;uniqueIndex"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Charge) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
