package bids

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/gigboard-backend/pkg/db/models"
	"github.com/angelmondragon/gigboard-backend/pkg/enums"
)

// BidDTO is the API representation of a bid.
type BidDTO struct {
	ID            uuid.UUID       `json:"id"`
	GigID         uuid.UUID       `json:"gigId"`
	BidderID      string          `json:"bidderId"`
	Amount        int64           `json:"amount"`
	Message       *string         `json:"message,omitempty"`
	CounterAmount *int64          `json:"counterAmount,omitempty"`
	Status        enums.BidStatus `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// CreateBidInput is the body of a new bid.
type CreateBidInput struct {
	Amount  int64   `json:"amount" validate:"gt=0"`
	Message *string `json:"message,omitempty" validate:"omitempty,max=2000"`
}

// UpdateBidInput changes a bid's terms. Absent fields are left untouched.
type UpdateBidInput struct {
	Amount  *int64  `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Message *string `json:"message,omitempty" validate:"omitempty,max=2000"`
}

// CounterBidInput is the poster's counter-offer.
type CounterBidInput struct {
	CounterAmount int64   `json:"counterAmount" validate:"gt=0"`
	Message       *string `json:"message,omitempty" validate:"omitempty,max=2000"`
}

func FromModel(m *models.Bid) *BidDTO {
	if m == nil {
		return nil
	}
	return &BidDTO{
		ID:            m.ID,
		GigID:         m.GigID,
		BidderID:      m.BidderID,
		Amount:        m.Amount,
		Message:       m.Message,
		CounterAmount: m.CounterAmount,
		Status:        m.Status,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func fromModels(rows []models.Bid) []BidDTO {
	out := make([]BidDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
