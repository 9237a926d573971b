package charges

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/gigboard-backend/pkg/db/models"
	"github.com/angelmondragon/gigboard-backend/pkg/enums"
	"github.com/angelmondragon/gigboard-backend/pkg/types"
)

// ChargeDTO is the API representation of a charge.
type ChargeDTO struct {
	ID        uuid.UUID          `json:"id"`
	Reference string             `json:"reference"`
	Amount    int64              `json:"amount"`
	Status    enums.ChargeStatus `json:"status"`
	Metadata  types.Meta         `json:"metadata"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func FromModel(m *models.Charge) *ChargeDTO {
	if m == nil {
		return nil
	}
	return &ChargeDTO{
		ID:        m.ID,
		Reference: m.Reference,
		Amount:    m.Amount,
		Status:    m.Status,
		Metadata:  m.Metadata,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
