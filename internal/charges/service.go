package charges

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/gigboard-backend/pkg/db/models"
	"github.com/angelmondragon/gigboard-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/gigboard-backend/pkg/errors"
	"github.com/angelmondragon/gigboard-backend/pkg/types"
)

// Service creates charges and records provider outcomes.
type Service interface {
	WithTx(tx *gorm.DB) Service
	Create(ctx context.Context, input CreateInput) (*models.Charge, error)
	FindByReference(ctx context.Context, reference string) (*models.Charge, error)
	FindByReferenceForUpdate(ctx context.Context, reference string) (*models.Charge, error)
	UpdateStatus(ctx context.Context, reference string, status enums.ChargeStatus) (*models.Charge, error)
}

// CreateInput describes a new pending charge. BidID is set for charges opened
// by bid acceptance.
type CreateInput struct {
	Amount   int64
	Metadata types.Meta
	BidID    *uuid.UUID
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("charge repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) WithTx(tx *gorm.DB) Service {
	return &service{repo: s.repo.WithTx(tx), now: s.now}
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Charge, error) {
	if input.Amount < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "charge amount must not be negative")
	}
	metadata := input.Metadata
	if metadata == nil {
		metadata = types.Meta{}
	}
	if err := metadata.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidPayload, err, "invalid charge metadata")
	}

	charge := &models.Charge{
		Reference: NewReference(s.now()),
		Amount:    input.Amount,
		Status:    enums.ChargeStatusPending,
		Metadata:  metadata,
		BidID:     input.BidID,
	}
	if err := s.repo.Create(ctx, charge); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "create charge")
	}
	return charge, nil
}

func (s *service) FindByReference(ctx context.Context, reference string) (*models.Charge, error) {
	return s.find(ctx, reference, false)
}

// FindByReferenceForUpdate locks the row for the rest of the transaction.
func (s *service) FindByReferenceForUpdate(ctx context.Context, reference string) (*models.Charge, error) {
	return s.find(ctx, reference, true)
}

func (s *service) find(ctx context.Context, reference string, forUpdate bool) (*models.Charge, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference is required")
	}
	charge, err := s.repo.FindByReference(ctx, reference, forUpdate)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "find charge")
	}
	return charge, nil
}

func (s *service) UpdateStatus(ctx context.Context, reference string, status enums.ChargeStatus) (*models.Charge, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid charge status %q", status))
	}
	rows, err := s.repo.UpdateStatus(ctx, reference, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "update charge status")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "charge not found")
	}
	charge, err := s.repo.FindByReference(ctx, reference, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "reload charge")
	}
	if charge == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "charge not found")
	}
	return charge, nil
}
