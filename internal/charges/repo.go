package charges

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/gigboard-backend/pkg/db/models"
	"github.com/angelmondragon/gigboard-backend/pkg/enums"
)

// Repository manages persistence for charges.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, charge *models.Charge) error
	FindByReference(ctx context.Context, reference string, forUpdate bool) (*models.Charge, error)
	UpdateStatus(ctx context.Context, reference string, status enums.ChargeStatus) (int64, error)
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

func (r *repository) Create(ctx context.Context, charge *models.Charge) error {
	return r.db.WithContext(ctx).Create(charge).Error
}

func (r *repository) FindByReference(ctx context.Context, reference string, forUpdate bool) (*models.Charge, error) {
	query := r.db.WithContext(ctx)
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var charge models.Charge
	err := query.Where("reference = ?", reference).First(&charge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

func (r *repository) UpdateStatus(ctx context.Context, reference string, status enums.ChargeStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Charge{}).
		Where("reference = ?", reference).
		Update("status", status)
	return result.RowsAffected, result.Error
}
