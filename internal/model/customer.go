package model

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID                     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerName           string     `gorm:"size:200;not null" json:"customerName"`
	CompanyName            string     `gorm:"size:200" json:"companyName"`
	Address                string     `gorm:"size:500;not null" json:"address"`
	ContractSigningDate    *time.Time `json:"contractSigningDate"`
	InspectionDate         *time.Time `json:"inspectionDate"`
	AcceptanceSigningDate  *time.Time `json:"acceptanceSigningDate"`
	WarrantyExpirationDate *time.Time `json:"warrantyExpirationDate"`
	Notes                  StringList `gorm:"type:text" json:"notes"`
	IsDeleted              bool       `gorm:"not null;default:false;index" json:"isDeleted"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

func (Customer) TableName() string {
	return "customers"
}

// CustomerContract is the ordered reference list Customer → MaintenanceContract.
// A cascade-deleted contract keeps its row so restore can find it; an
// individually deleted contract loses it.
type CustomerContract struct {
	CustomerID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ContractID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position   int       `gorm:"not null"`
}

func (CustomerContract) TableName() string {
	return "customer_contracts"
}

// CustomerHistory is the ordered reference list Customer → WarrantyHistoryEntry.
type CustomerHistory struct {
	CustomerID uuid.UUID `gorm:"type:uuid;primaryKey"`
	EntryID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position   int       `gorm:"not null"`
}

func (CustomerHistory) TableName() string {
	return "customer_history"
}
