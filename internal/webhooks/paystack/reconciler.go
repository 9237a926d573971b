package paystack

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/gigboard-backend/internal/charges"
	"github.com/angelmondragon/gigboard-backend/internal/ledger"
	"github.com/angelmondragon/gigboard-backend/pkg/db/models"
	"github.com/angelmondragon/gigboard-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/gigboard-backend/pkg/errors"
	"github.com/angelmondragon/gigboard-backend/pkg/logger"
	"github.com/angelmondragon/gigboard-backend/pkg/outbox"
	"github.com/angelmondragon/gigboard-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/gigboard-backend/pkg/types"
)

// Result is the outcome reported back for one webhook.
type Result string

const (
	ResultIgnored      Result = "ignored"
	ResultDuplicate    Result = "duplicate"
	ResultReconciled   Result = "reconciled"
	ResultUncorrelated Result = "uncorrelated"

	resultError = "error"
)

var (
	errAlreadyRecorded = errors.New("event already recorded")
	// errStillUnmatched marks a replay whose reference still has no charge.
	errStillUnmatched = errors.New("event already recorded without a charge")
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type guard interface {
	CheckAndMark(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

type webhookMetrics interface {
	IncWebhook(event, result string)
	ObserveWebhook(event string, duration time.Duration)
}

type ReconcilerParams struct {
	DB      txRunner
	Ledger  ledger.Service
	Charges charges.Service
	Outbox  outbox.Emitter
	Guard   guard
	Metrics webhookMetrics
	Logger  *logger.Logger
}

// Reconciler applies authenticated payment events to charges and the ledger.
type Reconciler struct {
	db      txRunner
	ledger  ledger.Service
	charges charges.Service
	outbox  outbox.Emitter
	guard   guard
	metrics webhookMetrics
	logg    *logger.Logger
	now     func() time.Time
}

func NewReconciler(params ReconcilerParams) (*Reconciler, error) {
	switch {
	case params.DB == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	case params.Ledger == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ledger service required")
	case params.Charges == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "charge service required")
	case params.Outbox == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "outbox emitter required")
	case params.Logger == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Reconciler{
		db:      params.DB,
		ledger:  params.Ledger,
		charges: params.Charges,
		outbox:  params.Outbox,
		guard:   params.Guard,
		metrics: params.Metrics,
		logg:    params.Logger,
		now:     time.Now,
	}, nil
}

// Reconcile records event against its charge. Replays of an (event,
// reference) pair are reported as duplicates and have no effect.
func (r *Reconciler) Reconcile(ctx context.Context, event Event) (Result, error) {
	started := r.now()
	result, err := r.reconcile(ctx, event)
	if r.metrics != nil {
		label := string(result)
		if err != nil {
			label = resultError
		}
		r.metrics.IncWebhook(event.Event, label)
		r.metrics.ObserveWebhook(event.Event, r.now().Sub(started))
	}
	return result, err
}

func (r *Reconciler) reconcile(ctx context.Context, event Event) (Result, error) {
	reference := event.Data.Reference
	if reference == "" {
		return "", pkgerrors.New(pkgerrors.CodeInvalidPayload, "data.reference is required")
	}
	ctx = r.logg.WithReference(ctx, reference)
	ctx = r.logg.WithField(ctx, "event", event.Event)

	status, handled := outcomeFor(event.Event)
	if !handled {
		r.logg.Info(ctx, "paystack.event.ignored")
		return ResultIgnored, nil
	}
	reported, hasAmount, err := event.Data.amount()
	if err != nil {
		return "", err
	}

	key := guardKey(event.Event, reference)
	if r.guard != nil {
		seen, err := r.guard.CheckAndMark(ctx, key)
		switch {
		case err != nil:
			// The ledger check below still catches replays.
			r.logg.Error(ctx, "paystack.guard.unavailable", err)
		case seen:
			r.logg.Info(ctx, "paystack.event.duplicate")
			return ResultDuplicate, nil
		}
	}

	var (
		result Result
		entry  *models.LedgerEntry
	)
	err = r.db.WithTx(ctx, func(tx *gorm.DB) error {
		entries := r.ledger.WithTx(tx)
		entryType := enums.LedgerEntryType(event.Event)

		existing, err := entries.Find(ctx, ledger.Filter{Type: entryType, Reference: &reference})
		if err != nil {
			return err
		}
		if existing != nil {
			return errAlreadyRecorded
		}

		chargeSvc := r.charges.WithTx(tx)
		charge, err := chargeSvc.FindByReferenceForUpdate(ctx, reference)
		if err != nil {
			return err
		}

		meta := types.Meta{ledger.MetaReference: reference}
		if event.Data.Status != "" {
			meta["providerStatus"] = event.Data.Status
		}
		amount := reported
		transitioned := false

		if charge == nil {
			// Kept apart from entryType so a retry can still settle the
			// charge once it exists.
			entryType = entryType.Unmatched()
			meta["uncorrelated"] = "true"
			result = ResultUncorrelated
			r.logg.Warn(ctx, "paystack.charge.unknown_reference")
		} else {
			amount = charge.Amount
			meta["chargeId"] = charge.ID.String()
			if bidID := chargeBidID(charge); bidID != "" {
				meta[ledger.MetaBidID] = bidID
			}
			if gigID, ok := charge.Metadata.String("gigId"); ok {
				meta["gigId"] = gigID
			}
			if hasAmount && reported != charge.Amount {
				meta["reportedAmount"] = reported
				r.logg.Warn(r.logg.WithFields(ctx, map[string]any{
					"charge_amount":   majorUnits(charge.Amount),
					"reported_amount": majorUnits(reported),
				}), "paystack.charge.amount_mismatch")
			}

			switch {
			case charge.Status == enums.ChargeStatusPending:
				charge, err = chargeSvc.UpdateStatus(ctx, reference, status)
				if err != nil {
					return err
				}
				transitioned = true
			case charge.Status != status:
				r.logg.Warn(r.logg.WithField(ctx, "charge_status", string(charge.Status)), "paystack.charge.conflicting_outcome")
			}
			result = ResultReconciled
		}

		entry, err = entries.Append(ctx, ledger.AppendInput{Type: entryType, Amount: amount, Meta: meta})
		switch {
		case errors.Is(err, ledger.ErrDuplicateEntry) && charge == nil:
			return errStillUnmatched
		case errors.Is(err, ledger.ErrDuplicateEntry):
			return errAlreadyRecorded
		case err != nil:
			return err
		}

		return r.emit(ctx, tx, event.Event, entry, charge, transitioned)
	})

	switch {
	case errors.Is(err, errAlreadyRecorded):
		r.logg.Info(ctx, "paystack.event.duplicate")
		return ResultDuplicate, nil
	case errors.Is(err, errStillUnmatched):
		r.releaseGuard(ctx, key)
		r.logg.Info(ctx, "paystack.event.duplicate")
		return ResultDuplicate, nil
	case err != nil:
		r.releaseGuard(ctx, key)
		return "", err
	}
	if result == ResultUncorrelated {
		// Provider retries must reach the database to settle a charge
		// created after this delivery.
		r.releaseGuard(ctx, key)
	}

	r.logg.Info(r.logg.WithFields(ctx, map[string]any{
		"result":   string(result),
		"entry_id": entry.ID.String(),
		"amount":   majorUnits(entry.Amount),
	}), "paystack.event.reconciled")
	return result, nil
}

func (r *Reconciler) releaseGuard(ctx context.Context, key string) {
	if r.guard == nil {
		return
	}
	if err := r.guard.Delete(ctx, key); err != nil {
		r.logg.Error(ctx, "paystack.guard.release_failed", err)
	}
}

func (r *Reconciler) emit(ctx context.Context, tx *gorm.DB, eventType string, entry *models.LedgerEntry, charge *models.Charge, transitioned bool) error {
	data := payloads.ChargeReconciledEvent{
		Reference:    *entry.Reference,
		Event:        eventType,
		Amount:       entry.Amount,
		BidID:        entry.BidID,
		Uncorrelated: charge == nil,
	}
	if charge != nil {
		if !transitioned {
			return nil
		}
		data.ChargeID = &charge.ID
		data.Status = string(charge.Status)
	}
	err := r.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventChargeReconciled,
		AggregateType: enums.AggregateLedgerEntry,
		AggregateID:   entry.ID,
		Data:          data,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, fmt.Sprintf("queue %s event", enums.EventChargeReconciled))
	}
	return nil
}

func chargeBidID(charge *models.Charge) string {
	if charge.BidID != nil && *charge.BidID != uuid.Nil {
		return charge.BidID.String()
	}
	if bidID, ok := charge.Metadata.String(ledger.MetaBidID); ok {
		return bidID
	}
	return ""
}
