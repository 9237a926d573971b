package bids

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/gigboard-backend/internal/charges"
	"github.com/angelmondragon/gigboard-backend/internal/gigs"
	"github.com/angelmondragon/gigboard-backend/internal/ledger"
	"github.com/angelmondragon/gigboard-backend/pkg/config"
	"github.com/angelmondragon/gigboard-backend/pkg/db/models"
	"github.com/angelmondragon/gigboard-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/gigboard-backend/pkg/errors"
	"github.com/angelmondragon/gigboard-backend/pkg/logger"
	"github.com/angelmondragon/gigboard-backend/pkg/outbox"
	"github.com/angelmondragon/gigboard-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/gigboard-backend/pkg/types"
)

const (
	listByGigLimit  = 100
	listByUserLimit = 200
)

// openStatuses are the states a bid can still move out of.
var openStatuses = []enums.BidStatus{enums.BidStatusPending, enums.BidStatusCountered}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type transitionMetrics interface {
	IncBidTransition(status string)
}

// Service owns the bid lifecycle.
type Service interface {
	Create(ctx context.Context, gigID uuid.UUID, bidderID string, input CreateBidInput) (*BidDTO, error)
	Get(ctx context.Context, bidID uuid.UUID, callerID string) (*BidDTO, error)
	Update(ctx context.Context, bidID uuid.UUID, callerID string, input UpdateBidInput) (*BidDTO, error)
	Counter(ctx context.Context, bidID uuid.UUID, callerID string, input CounterBidInput) (*BidDTO, error)
	Reject(ctx context.Context, bidID uuid.UUID, callerID string) (*BidDTO, error)
	Accept(ctx context.Context, bidID uuid.UUID, callerID string) (*BidDTO, error)
	ListByGig(ctx context.Context, gigID uuid.UUID, callerID string) ([]BidDTO, error)
	ListByUser(ctx context.Context, callerID string) ([]BidDTO, error)
}

type ServiceParams struct {
	Config  config.BidsConfig
	Logger  *logger.Logger
	DB      txRunner
	Repo    Repository
	Gigs    gigs.Repository
	Ledger  ledger.Service
	Charges charges.Service
	Outbox  outbox.Emitter
	Metrics transitionMetrics
}

type service struct {
	cfg     config.BidsConfig
	logg    *logger.Logger
	db      txRunner
	repo    Repository
	gigs    gigs.Repository
	ledger  ledger.Service
	charges charges.Service
	outbox  outbox.Emitter
	metrics transitionMetrics
}

func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Logger == nil:
		return nil, fmt.Errorf("logger required")
	case params.DB == nil:
		return nil, fmt.Errorf("transaction runner required")
	case params.Repo == nil:
		return nil, fmt.Errorf("bid repository required")
	case params.Gigs == nil:
		return nil, fmt.Errorf("gig repository required")
	case params.Ledger == nil:
		return nil, fmt.Errorf("ledger service required")
	case params.Charges == nil:
		return nil, fmt.Errorf("charge service required")
	case params.Outbox == nil:
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &service{
		cfg:     params.Config,
		logg:    params.Logger,
		db:      params.DB,
		repo:    params.Repo,
		gigs:    params.Gigs,
		ledger:  params.Ledger,
		charges: params.Charges,
		outbox:  params.Outbox,
		metrics: params.Metrics,
	}, nil
}

func (s *service) Create(ctx context.Context, gigID uuid.UUID, bidderID string, input CreateBidInput) (*BidDTO, error) {
	bidderID, err := requireCaller(bidderID)
	if err != nil {
		return nil, err
	}
	if input.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}

	var created *models.Bid
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		gig, err := s.loadGig(ctx, tx, gigID)
		if err != nil {
			return err
		}
		if gig.AuthorID == bidderID && !s.cfg.AllowSelfBid {
			return pkgerrors.New(pkgerrors.CodeForbidden, "cannot bid on your own gig")
		}

		bid := &models.Bid{
			GigID:    gig.ID,
			BidderID: bidderID,
			Amount:   input.Amount,
			Message:  input.Message,
			Status:   enums.BidStatusPending,
		}
		if err := s.repo.WithTx(tx).Create(ctx, bid); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "create bid")
		}
		if err := s.emit(ctx, tx, enums.EventBidCreated, bidderID, bidEvent(bid)); err != nil {
			return err
		}
		created = bid
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordTransition(ctx, created, "bid.created")
	return FromModel(created), nil
}

func (s *service) Get(ctx context.Context, bidID uuid.UUID, callerID string) (*BidDTO, error) {
	callerID, err := requireCaller(callerID)
	if err != nil {
		return nil, err
	}
	bid, err := s.repo.FindByID(ctx, bidID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load bid")
	}
	if bid == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bid not found")
	}
	if bid.BidderID == callerID {
		return FromModel(bid), nil
	}
	gig, err := s.gigs.FindByID(ctx, bid.GigID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load gig")
	}
	if gig == nil || gig.AuthorID != callerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to view this bid")
	}
	return FromModel(bid), nil
}

func (s *service) Update(ctx context.Context, bidID uuid.UUID, callerID string, input UpdateBidInput) (*BidDTO, error) {
	callerID, err := requireCaller(callerID)
	if err != nil {
		return nil, err
	}
	if input.Amount == nil && input.Message == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount or message is required")
	}
	if input.Amount != nil && *input.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}

	var updated *models.Bid
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		bid, err := s.lockBid(ctx, repo, bidID)
		if err != nil {
			return err
		}
		if bid.BidderID != callerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the bidder can update this bid")
		}
		if bid.Status.IsTerminal() {
			return invalidState(bid.Status, "update")
		}

		changes := map[string]any{}
		if input.Amount != nil {
			changes["amount"] = *input.Amount
		}
		if input.Message != nil {
			changes["message"] = *input.Message
		}
		updated, err = s.transition(ctx, repo, bid, changes, "update")
		if err != nil {
			return err
		}
		return s.emit(ctx, tx, enums.EventBidUpdated, callerID, bidEvent(updated))
	})
	if err != nil {
		return nil, err
	}

	s.recordTransition(ctx, updated, "bid.updated")
	return FromModel(updated), nil
}

func (s *service) Counter(ctx context.Context, bidID uuid.UUID, callerID string, input CounterBidInput) (*BidDTO, error) {
	callerID, err := requireCaller(callerID)
	if err != nil {
		return nil, err
	}
	if input.CounterAmount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "counterAmount must be greater than zero")
	}

	var updated *models.Bid
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		bid, err := s.authorizePoster(ctx, tx, bidID, callerID, "counter")
		if err != nil {
			return err
		}
		changes := map[string]any{
			"status":         enums.BidStatusCountered,
			"counter_amount": input.CounterAmount,
		}
		if input.Message != nil {
			changes["message"] = *input.Message
		}
		updated, err = s.transition(ctx, s.repo.WithTx(tx), bid, changes, "counter")
		if err != nil {
			return err
		}
		return s.emit(ctx, tx, enums.EventBidCountered, callerID, bidEvent(updated))
	})
	if err != nil {
		return nil, err
	}

	s.recordTransition(ctx, updated, "bid.countered")
	return FromModel(updated), nil
}

func (s *service) Reject(ctx context.Context, bidID uuid.UUID, callerID string) (*BidDTO, error) {
	callerID, err := requireCaller(callerID)
	if err != nil {
		return nil, err
	}

	var updated *models.Bid
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		bid, err := s.authorizePoster(ctx, tx, bidID, callerID, "reject")
		if err != nil {
			return err
		}
		updated, err = s.transition(ctx, s.repo.WithTx(tx), bid, map[string]any{"status": enums.BidStatusRejected}, "reject")
		if err != nil {
			return err
		}
		return s.emit(ctx, tx, enums.EventBidRejected, callerID, bidEvent(updated))
	})
	if err != nil {
		return nil, err
	}

	s.recordTransition(ctx, updated, "bid.rejected")
	return FromModel(updated), nil
}

// Accept marks the bid accepted and, in the same transaction, records the
// acceptance and hold entries and opens the pending charge.
func (s *service) Accept(ctx context.Context, bidID uuid.UUID, callerID string) (*BidDTO, error) {
	callerID, err := requireCaller(callerID)
	if err != nil {
		return nil, err
	}

	var (
		accepted *models.Bid
		charge   *models.Charge
	)
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		bid, err := s.lockBid(ctx, repo, bidID)
		if err != nil {
			return err
		}
		if bid.Status.IsTerminal() {
			return invalidState(bid.Status, "accept")
		}
		gig, err := s.loadGig(ctx, tx, bid.GigID)
		if err != nil {
			return err
		}
		if gig.AuthorID != callerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the gig author can accept bids")
		}

		accepted, err = s.transition(ctx, repo, bid, map[string]any{"status": enums.BidStatusAccepted}, "accept")
		if err != nil {
			return err
		}

		entries := s.ledger.WithTx(tx)
		if _, err := entries.Append(ctx, ledger.AppendInput{
			Type:   enums.LedgerEntryBidAccepted,
			Amount: bid.Amount,
			Meta: types.Meta{
				"bidId":    bid.ID.String(),
				"gigId":    gig.ID.String(),
				"posterId": gig.AuthorID,
				"bidderId": bid.BidderID,
			},
		}); err != nil {
			return err
		}

		charge, err = s.charges.WithTx(tx).Create(ctx, charges.CreateInput{
			Amount: bid.Amount,
			Metadata: types.Meta{
				"bidId": bid.ID.String(),
				"gigId": gig.ID.String(),
			},
			BidID: &bid.ID,
		})
		if err != nil {
			return err
		}

		if _, err := entries.Append(ctx, ledger.AppendInput{
			Type:   enums.LedgerEntryHold,
			Amount: bid.Amount,
			Meta: types.Meta{
				"bidId":     bid.ID.String(),
				"reference": charge.Reference,
			},
		}); err != nil {
			return err
		}

		return s.emit(ctx, tx, enums.EventBidAccepted, callerID, payloads.BidAcceptedEvent{
			BidEvent:        bidEvent(accepted),
			PosterID:        gig.AuthorID,
			ChargeID:        charge.ID,
			ChargeReference: charge.Reference,
		})
	})
	if err != nil {
		return nil, err
	}

	s.recordTransition(s.logg.WithReference(ctx, charge.Reference), accepted, "bid.accepted")
	return FromModel(accepted), nil
}

// ListByGig returns every bid to the gig author and only the caller's own
// bids to anyone else. An unknown gig yields an empty list.
func (s *service) ListByGig(ctx context.Context, gigID uuid.UUID, callerID string) ([]BidDTO, error) {
	callerID, err := requireCaller(callerID)
	if err != nil {
		return nil, err
	}
	gig, err := s.gigs.FindByID(ctx, gigID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load gig")
	}
	if gig == nil {
		return []BidDTO{}, nil
	}

	var bidder *string
	if gig.AuthorID != callerID {
		bidder = &callerID
	}
	rows, err := s.repo.ListByGig(ctx, gigID, bidder, listByGigLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list bids")
	}
	return fromModels(rows), nil
}

func (s *service) ListByUser(ctx context.Context, callerID string) ([]BidDTO, error) {
	callerID, err := requireCaller(callerID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByBidder(ctx, callerID, listByUserLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list bids")
	}
	return fromModels(rows), nil
}

// authorizePoster loads and locks the bid, then checks the caller authored
// the gig and the bid is still open.
func (s *service) authorizePoster(ctx context.Context, tx *gorm.DB, bidID uuid.UUID, callerID, action string) (*models.Bid, error) {
	bid, err := s.lockBid(ctx, s.repo.WithTx(tx), bidID)
	if err != nil {
		return nil, err
	}
	gig, err := s.loadGig(ctx, tx, bid.GigID)
	if err != nil {
		return nil, err
	}
	if gig.AuthorID != callerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, fmt.Sprintf("only the gig author can %s bids", action))
	}
	if bid.Status.IsTerminal() {
		return nil, invalidState(bid.Status, action)
	}
	return bid, nil
}

func (s *service) lockBid(ctx context.Context, repo Repository, bidID uuid.UUID) (*models.Bid, error) {
	bid, err := repo.FindForUpdate(ctx, bidID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load bid")
	}
	if bid == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bid not found")
	}
	return bid, nil
}

func (s *service) loadGig(ctx context.Context, tx *gorm.DB, gigID uuid.UUID) (*models.Gig, error) {
	gig, err := s.gigs.WithTx(tx).FindByID(ctx, gigID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load gig")
	}
	if gig == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "gig not found")
	}
	return gig, nil
}

// transition commits changes with a compare-and-set on the open statuses and
// returns the reloaded bid.
func (s *service) transition(ctx context.Context, repo Repository, bid *models.Bid, changes map[string]any, action string) (*models.Bid, error) {
	rows, err := repo.Transition(ctx, bid.ID, openStatuses, changes)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "update bid")
	}
	if rows == 0 {
		return nil, invalidState(bid.Status, action)
	}
	updated, err := repo.FindByID(ctx, bid.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "reload bid")
	}
	if updated == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bid not found")
	}
	return updated, nil
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, eventType enums.OutboxEventType, actorID string, data any) error {
	aggregateID := uuid.Nil
	switch payload := data.(type) {
	case payloads.BidEvent:
		aggregateID = payload.BidID
	case payloads.BidAcceptedEvent:
		aggregateID = payload.BidID
	}
	err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateBid,
		AggregateID:   aggregateID,
		Actor:         &outbox.ActorRef{UserID: actorID},
		Data:          data,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "queue bid event")
	}
	return nil
}

func (s *service) recordTransition(ctx context.Context, bid *models.Bid, msg string) {
	if s.metrics != nil {
		s.metrics.IncBidTransition(string(bid.Status))
	}
	ctx = s.logg.WithBidID(ctx, bid.ID.String())
	ctx = s.logg.WithFields(ctx, map[string]any{
		"gig_id": bid.GigID.String(),
		"status": string(bid.Status),
	})
	s.logg.Info(ctx, msg)
}

func bidEvent(bid *models.Bid) payloads.BidEvent {
	return payloads.BidEvent{
		BidID:         bid.ID,
		GigID:         bid.GigID,
		BidderID:      bid.BidderID,
		Status:        string(bid.Status),
		Amount:        bid.Amount,
		CounterAmount: bid.CounterAmount,
	}
}

func requireCaller(callerID string) (string, error) {
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthenticated, "authentication required")
	}
	return callerID, nil
}

func invalidState(status enums.BidStatus, action string) error {
	return pkgerrors.New(pkgerrors.CodeInvalidState, fmt.Sprintf("cannot %s a bid that is %s", action, status)).
		WithDetails(map[string]any{"status": string(status)})
}
