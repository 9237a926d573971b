package payloads

import "github.com/google/uuid"

// BidEvent describes a bid after a lifecycle transition.
type BidEvent struct {
	BidID         uuid.UUID `json:"bidId"`
	GigID         uuid.UUID `json:"gigId"`
	BidderID      string    `json:"bidderId"`
	Status        string    `json:"status"`
	Amount        int64     `json:"amount"`
	CounterAmount *int64    `json:"counterAmount,omitempty"`
}

// BidAcceptedEvent carries the charge opened when a bid is accepted.
type BidAcceptedEvent struct {
	BidEvent
	PosterID        string    `json:"posterId"`
	ChargeID        uuid.UUID `json:"chargeId"`
	ChargeReference string    `json:"chargeReference"`
}

// ChargeOpenedEvent is emitted for charges opened by a claim.
type ChargeOpenedEvent struct {
	ChargeID  uuid.UUID `json:"chargeId"`
	Reference string    `json:"reference"`
	GigID     uuid.UUID `json:"gigId"`
	Claimant  string    `json:"claimant"`
	Amount    int64     `json:"amount"`
}

// ChargeReconciledEvent is emitted after a provider webhook settles a reference.
type ChargeReconciledEvent struct {
	Reference    string     `json:"reference"`
	Event        string     `json:"event"`
	ChargeID     *uuid.UUID `json:"chargeId,omitempty"`
	Status       string     `json:"status,omitempty"`
	Amount       int64      `json:"amount"`
	BidID        *uuid.UUID `json:"bidId,omitempty"`
	Uncorrelated bool       `json:"uncorrelated,omitempty"`
}
