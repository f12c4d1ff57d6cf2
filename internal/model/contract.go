package model

import (
	"time"

	"github.com/google/uuid"
)

type MaintenanceContract struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ContractNumber  *string    `gorm:"size:64;uniqueIndex" json:"contractNumber"`
	StartDate       time.Time  `gorm:"not null" json:"startDate"`
	EndDate         time.Time  `gorm:"not null" json:"endDate"`
	WarrantyOnly    bool       `gorm:"not null;default:false" json:"isWarrantyOnly"`
	IsDeleted       bool       `gorm:"not null;default:false;index" json:"isDeleted"`
	DeletedByParent *uuid.UUID `gorm:"type:uuid;index" json:"deletedByParent"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	EquipmentItems []Elevator `gorm:"-" json:"equipmentItems,omitempty"`
}

func (MaintenanceContract) TableName() string {
	return "maintenance_contracts"
}

// ContractEquipment is the ordered reference list MaintenanceContract → Elevator.
// Equipment is exclusively owned: no two contracts share an elevator row.
type ContractEquipment struct {
	ContractID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ElevatorID uuid.UUID `gorm:"type:uuid;primaryKey;uniqueIndex"`
	Position   int       `gorm:"not null"`
}

func (ContractEquipment) TableName() string {
	return "contract_equipment"
}
