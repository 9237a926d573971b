package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/gigboard-backend/pkg/enums"
	"github.com/angelmondragon/gigboard-backend/pkg/types"
)

// LedgerEntry is an immutable accounting fact. Reference and BidID are lifted
// out of Meta so reconciliation lookups stay indexable.
type LedgerEntry struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Type      enums.LedgerEntryType `gorm:"column:type;type:text;not null;uniqueIndex:ux_ledger_entries_type_reference,priority:1"`
	Amount    int64                 `gorm:"column:amount;not null"`
	Meta      types.Meta            `gorm:"column:meta;type:jsonb;not null"`
	Reference *string               `gorm:"column:reference;uniqueIndex:ux_ledger_entries_type_reference,priority:2"`
	BidID     *uuid.UUID            `gorm:"column:bid_id;type:uuid;index"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

func (e *LedgerEntry) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}
