package model

import (
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskTypeMaintenance             TaskType = "maintenance"
	TaskTypeWarranty                TaskType = "warranty"
	TaskTypeCustomerRequestedRepair TaskType = "customer_requested_repair"
	TaskTypeCompanyRequestedRepair  TaskType = "company_requested_repair"
	TaskTypeOther                   TaskType = "other"
)

func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeMaintenance, TaskTypeWarranty, TaskTypeCustomerRequestedRepair,
		TaskTypeCompanyRequestedRepair, TaskTypeOther:
		return true
	}
	return false
}

// WarrantyHistoryEntry records one warranty or maintenance visit. Sequence
// numbers are per customer and assigned by the service, never by the caller.
type WarrantyHistoryEntry struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SequenceNumber      int        `gorm:"not null" json:"sequenceNumber"`
	ContractID          *uuid.UUID `gorm:"type:uuid" json:"contractId"`
	Date                time.Time  `gorm:"not null" json:"date"`
	TaskType            TaskType   `gorm:"size:40;not null" json:"taskType"`
	MaintenanceContents StringList `gorm:"type:text" json:"maintenanceContents"`
	Notes               string     `gorm:"type:text" json:"notes"`
	IsDeleted           bool       `gorm:"not null;default:false;index" json:"isDeleted"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

func (WarrantyHistoryEntry) TableName() string {
	return "warranty_history"
}
