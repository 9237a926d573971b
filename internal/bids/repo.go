package bids

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/gigboard-backend/pkg/db/models"
	"github.com/angelmondragon/gigboard-backend/pkg/enums"
)

// Repository manages persistence for bids.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, bid *models.Bid) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Bid, error)
	FindForUpdate(ctx context.Context, id uuid.UUID) (*models.Bid, error)
	Transition(ctx context.Context, id uuid.UUID, from []enums.BidStatus, updates map[string]any) (int64, error)
	ListByGig(ctx context.Context, gigID uuid.UUID, bidderID *string, limit int) ([]models.Bid, error)
	ListByBidder(ctx context.Context, bidderID string, limit int) ([]models.Bid, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, bid *models.Bid) error {
	return r.db.WithContext(ctx).Create(bid).Error
}

// FindByID returns nil when the bid does not exist.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindForUpdate locks the bid row until the surrounding transaction ends.
func (r *repository) FindForUpdate(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *repository) find(query *gorm.DB, id uuid.UUID) (*models.Bid, error) {
	var bid models.Bid
	err := query.Where("id = ?", id).First(&bid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bid, nil
}

// Transition applies updates only while the bid is still in one of the from
// states and reports how many rows changed.
func (r *repository) Transition(ctx context.Context, id uuid.UUID, from []enums.BidStatus, updates map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Bid{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *repository) ListByGig(ctx context.Context, gigID uuid.UUID, bidderID *string, limit int) ([]models.Bid, error) {
	query := r.db.WithContext(ctx).Where("gig_id = ?", gigID)
	if bidderID != nil {
		query = query.Where("bidder_id = ?", *bidderID)
	}
	var rows []models.Bid
	if err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByBidder(ctx context.Context, bidderID string, limit int) ([]models.Bid, error) {
	var rows []models.Bid
	if err := r.db.WithContext(ctx).
		Where("bidder_id = ?", bidderID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
