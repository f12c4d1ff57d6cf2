package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Elevator is one equipment line item on a maintenance contract. It has no
// lifecycle of its own: rows are created and destroyed only through contract
// create, update and purge.
type Elevator struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Weight        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"weight"`
	NumberOfStops int             `gorm:"not null" json:"numberOfStops"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (Elevator) TableName() string {
	return "elevators"
}
