package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/gigboard-backend/pkg/db/models"
	"github.com/angelmondragon/gigboard-backend/pkg/enums"
)

// Filter narrows a lookup. Zero fields are ignored.
type Filter struct {
	Type      enums.LedgerEntryType
	Reference *string
	BidID     *uuid.UUID
}

func (f Filter) empty() bool {
	return f.Type == "" && f.Reference == nil && f.BidID == nil
}

// Repository manages persistence for ledger entries. It exposes no update or
// delete.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.LedgerEntry) error
	Find(ctx context.Context, filter Filter) (*models.LedgerEntry, error)
	ListByReference(ctx context.Context, reference string) ([]models.LedgerEntry, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Find returns the most recent entry matching filter, or nil.
func (r *repository) Find(ctx context.Context, filter Filter) (*models.LedgerEntry, error) {
	query := r.db.WithContext(ctx).Model(&models.LedgerEntry{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Reference != nil {
		query = query.Where("reference = ?", *filter.Reference)
	}
	if filter.BidID != nil {
		query = query.Where("bid_id = ?", *filter.BidID)
	}

	var entry models.LedgerEntry
	err := query.Order("created_at DESC").Order("id DESC").First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) ListByReference(ctx context.Context, reference string) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
