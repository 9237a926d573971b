package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/gigboard-backend/pkg/db"
	"github.com/angelmondragon/gigboard-backend/pkg/db/models"
	"github.com/angelmondragon/gigboard-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/gigboard-backend/pkg/errors"
	"github.com/angelmondragon/gigboard-backend/pkg/types"
)

// Meta keys lifted into indexed columns.
const (
	MetaReference = "reference"
	MetaBidID     = "bidId"
)

// ErrDuplicateEntry is returned when an entry of the same type already exists
// for a charge reference.
var ErrDuplicateEntry = errors.New("ledger entry already recorded for reference")

// Service records immutable ledger entries.
type Service interface {
	WithTx(tx *gorm.DB) Service
	Append(ctx context.Context, input AppendInput) (*models.LedgerEntry, error)
	Find(ctx context.Context, filter Filter) (*models.LedgerEntry, error)
	ListByReference(ctx context.Context, reference string) ([]models.LedgerEntry, error)
}

// AppendInput is the data an entry is created from.
type AppendInput struct {
	Type   enums.LedgerEntryType
	Amount int64
	Meta   types.Meta
}

type service struct {
	repo Repository
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) WithTx(tx *gorm.DB) Service {
	return &service{repo: s.repo.WithTx(tx)}
}

func (s *service) Append(ctx context.Context, input AppendInput) (*models.LedgerEntry, error) {
	if strings.TrimSpace(string(input.Type)) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidPayload, "ledger entry type is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidPayload, fmt.Sprintf("invalid ledger entry type %q", input.Type))
	}
	meta := input.Meta
	if meta == nil {
		meta = types.Meta{}
	}
	if err := meta.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidPayload, err, "invalid ledger meta")
	}

	entry := &models.LedgerEntry{
		Type:   input.Type,
		Amount: input.Amount,
		Meta:   meta,
	}
	if ref, ok := meta.String(MetaReference); ok {
		entry.Reference = &ref
	}
	if raw, ok := meta.String(MetaBidID); ok {
		bidID, err := uuid.Parse(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidPayload, err, "invalid bidId in ledger meta")
		}
		entry.BidID = &bidID
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		if entry.Reference != nil && db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, ErrDuplicateEntry, "ledger entry already recorded")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "append ledger entry")
	}
	return entry, nil
}

func (s *service) Find(ctx context.Context, filter Filter) (*models.LedgerEntry, error) {
	if filter.empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ledger filter requires at least one field")
	}
	entry, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "find ledger entry")
	}
	return entry, nil
}

func (s *service) ListByReference(ctx context.Context, reference string) ([]models.LedgerEntry, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference is required")
	}
	entries, err := s.repo.ListByReference(ctx, reference)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list ledger entries")
	}
	return entries, nil
}
