package enums

// OutboxAggregateType names the record an outbox event describes.
type OutboxAggregateType string

const (
	AggregateBid         OutboxAggregateType = "bid"
	AggregateCharge      OutboxAggregateType = "charge"
	AggregateLedgerEntry OutboxAggregateType = "ledger_entry"
)

var aggregateTypes = []OutboxAggregateType{AggregateBid, AggregateCharge, AggregateLedgerEntry}

func (a OutboxAggregateType) IsValid() bool { return known(aggregateTypes, a) }

func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	return parse("aggregate type", aggregateTypes, value)
}

// OutboxEventType names a domain event relayed through the outbox.
type OutboxEventType string

const (
	EventBidCreated       OutboxEventType = "bid_created"
	EventBidUpdated       OutboxEventType = "bid_updated"
	EventBidCountered     OutboxEventType = "bid_countered"
	EventBidRejected      OutboxEventType = "bid_rejected"
	EventBidAccepted      OutboxEventType = "bid_accepted"
	EventChargeOpened     OutboxEventType = "charge_opened"
	EventChargeReconciled OutboxEventType = "charge_reconciled"
)

var eventTypes = []OutboxEventType{
	EventBidCreated,
	EventBidUpdated,
	EventBidCountered,
	EventBidRejected,
	EventBidAccepted,
	EventChargeOpened,
	EventChargeReconciled,
}

func (e OutboxEventType) IsValid() bool { return known(eventTypes, e) }

func ParseOutboxEventType(value string) (OutboxEventType, error) {
	return parse("event type", eventTypes, value)
}
