// Package claims opens a charge for a gig's payout outside bid acceptance.
package claims

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/gigboard-backend/internal/charges"
	"github.com/angelmondragon/gigboard-backend/internal/gigs"
	"github.com/angelmondragon/gigboard-backend/internal/ledger"
	"github.com/angelmondragon/gigboard-backend/pkg/db/models"
	"github.com/angelmondragon/gigboard-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/gigboard-backend/pkg/errors"
	"github.com/angelmondragon/gigboard-backend/pkg/logger"
	"github.com/angelmondragon/gigboard-backend/pkg/outbox"
	"github.com/angelmondragon/gigboard-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/gigboard-backend/pkg/types"
)

// CreateClaimInput is the body of a claim request. Amount defaults to the
// gig payout.
type CreateClaimInput struct {
	GigID  uuid.UUID `json:"gigId" validate:"required"`
	Amount *int64    `json:"amount,omitempty" validate:"omitempty,gt=0"`
}

type Service interface {
	Create(ctx context.Context, claimant string, input CreateClaimInput) (*charges.ChargeDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	db      txRunner
	gigs    gigs.Repository
	ledger  ledger.Service
	charges charges.Service
	outbox  outbox.Emitter
	logg    *logger.Logger
}

func NewService(db txRunner, gigRepo gigs.Repository, ledgerSvc ledger.Service, chargeSvc charges.Service, emitter outbox.Emitter, logg *logger.Logger) (Service, error) {
	switch {
	case db == nil:
		return nil, fmt.Errorf("transaction runner required")
	case gigRepo == nil:
		return nil, fmt.Errorf("gig repository required")
	case ledgerSvc == nil:
		return nil, fmt.Errorf("ledger service required")
	case chargeSvc == nil:
		return nil, fmt.Errorf("charge service required")
	case emitter == nil:
		return nil, fmt.Errorf("outbox emitter required")
	case logg == nil:
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		db:      db,
		gigs:    gigRepo,
		ledger:  ledgerSvc,
		charges: chargeSvc,
		outbox:  emitter,
		logg:    logg,
	}, nil
}

func (s *service) Create(ctx context.Context, claimant string, input CreateClaimInput) (*charges.ChargeDTO, error) {
	claimant = strings.TrimSpace(claimant)
	if claimant == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthenticated, "authentication required")
	}
	if input.GigID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gigId is required")
	}
	if input.Amount != nil && *input.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}

	var charge *models.Charge
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		gig, err := s.gigs.WithTx(tx).FindByID(ctx, input.GigID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load gig")
		}
		if gig == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "gig not found")
		}

		amount := gig.Payout
		if input.Amount != nil {
			amount = *input.Amount
		}

		charge, err = s.charges.WithTx(tx).Create(ctx, charges.CreateInput{
			Amount: amount,
			Metadata: types.Meta{
				"gigId":    gig.ID.String(),
				"claimant": claimant,
			},
		})
		if err != nil {
			return err
		}

		if _, err := s.ledger.WithTx(tx).Append(ctx, ledger.AppendInput{
			Type:   enums.LedgerEntryHold,
			Amount: amount,
			Meta: types.Meta{
				"gigId":     gig.ID.String(),
				"reference": charge.Reference,
			},
		}); err != nil {
			return err
		}

		err = s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventChargeOpened,
			AggregateType: enums.AggregateCharge,
			AggregateID:   charge.ID,
			Actor:         &outbox.ActorRef{UserID: claimant},
			Data: payloads.ChargeOpenedEvent{
				ChargeID:  charge.ID,
				Reference: charge.Reference,
				GigID:     gig.ID,
				Claimant:  claimant,
				Amount:    amount,
			},
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "queue charge event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithReference(ctx, charge.Reference)
	ctx = s.logg.WithFields(ctx, map[string]any{
		"gig_id":   input.GigID.String(),
		"claimant": claimant,
		"amount":   charge.Amount,
	})
	s.logg.Info(ctx, "claim.charge_opened")
	return charges.FromModel(charge), nil
}
