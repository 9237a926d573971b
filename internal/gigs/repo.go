package gigs

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/gigboard-backend/pkg/db/models"
	"github.com/angelmondragon/gigboard-backend/pkg/pagination"
)

// ListQuery is the normalised form of ListFilter used by the repository.
type ListQuery struct {
	Tag       string
	Query     string
	MinPayout *int64
	MaxPayout *int64
	Limit     int
	Cursor    *pagination.Cursor
}

// Repository manages persistence for gigs and their tags.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, gig *models.Gig) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Gig, error)
	List(ctx context.Context, q ListQuery) ([]models.Gig, error)
	DistinctTags(ctx context.Context) ([]string, error)
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

func (r *repository) Create(ctx context.Context, gig *models.Gig) error {
	return r.db.WithContext(ctx).Create(gig).Error
}

// FindByID returns nil when the gig does not exist.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	var gig models.Gig
	err := r.db.WithContext(ctx).
		Preload("Tags", orderTags).
		Where("id = ?", id).
		First(&gig).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &gig, nil
}

// likeEscaper makes user text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *repository) List(ctx context.Context, q ListQuery) ([]models.Gig, error) {
	query := r.db.WithContext(ctx).Model(&models.Gig{}).Preload("Tags", orderTags)
	if q.Tag != "" {
		query = query.Where("id IN (?)", r.db.Model(&models.GigTag{}).Select("gig_id").Where("tag = ?", q.Tag))
	}
	if q.Query != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(q.Query)) + "%"
		query = query.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\')`, like, like)
	}
	if q.MinPayout != nil {
		query = query.Where("payout >= ?", *q.MinPayout)
	}
	if q.MaxPayout != nil {
		query = query.Where("payout <= ?", *q.MaxPayout)
	}
	if q.Cursor != nil {
		query = query.Where("(created_at < ? OR (created_at = ? AND id < ?))", q.Cursor.CreatedAt, q.Cursor.CreatedAt, q.Cursor.ID)
	}

	var gigs []models.Gig
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(q.Limit).
		Find(&gigs).Error; err != nil {
		return nil, err
	}
	return gigs, nil
}

func (r *repository) DistinctTags(ctx context.Context) ([]string, error) {
	var tags []string
	if err := r.db.WithContext(ctx).
		Model(&models.GigTag{}).
		Distinct("tag").
		Order("tag ASC").
		Pluck("tag", &tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func orderTags(db *gorm.DB) *gorm.DB {
	return db.Order("tag ASC")
}
