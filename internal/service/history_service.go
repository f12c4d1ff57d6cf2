package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hieuld/liftcare/internal/model"
	"github.com/hieuld/liftcare/internal/repository"
)

type HistoryService struct {
	db        *gorm.DB
	customers *repository.CustomerRepository
	history   *repository.HistoryRepository
}

func NewHistoryService(
	db *gorm.DB,
	customers *repository.CustomerRepository,
	history *repository.HistoryRepository,
) *HistoryService {
	return &HistoryService{db: db, customers: customers, history: history}
}

type CreateHistoryInput struct {
	CustomerID          uuid.UUID      `json:"-"`
	ContractID          *uuid.UUID     `json:"contractId"`
	Date                time.Time      `json:"-"`
	TaskType            model.TaskType `json:"taskType"`
	MaintenanceContents []string       `json:"maintenanceContents"`
	Notes               string         `json:"notes"`
}

type UpdateHistoryInput struct {
	ContractID          UUIDPatch       `json:"contractId"`
	Date                DatePatch       `json:"date"`
	TaskType            *model.TaskType `json:"taskType"`
	MaintenanceContents StringListPatch `json:"maintenanceContents"`
	Notes               StringPatch     `json:"notes"`
}

// Create appends a visit record to the customer. The sequence number is
// assigned here as count of non-deleted entries plus one; caller-supplied
// numbers are ignored so monotonicity cannot be broken from outside.
func (s *HistoryService) Create(ctx context.Context, input CreateHistoryInput) (*model.WarrantyHistoryEntry, error) {
	if input.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if !input.TaskType.Valid() {
		return nil, fmt.Errorf("%w: unknown task type %q", ErrInvalidInput, input.TaskType)
	}
	if _, err := s.customers.GetActive(ctx, input.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	entry := &model.WarrantyHistoryEntry{
		ContractID:          input.ContractID,
		Date:                input.Date,
		TaskType:            input.TaskType,
		MaintenanceContents: model.StringList(input.MaintenanceContents),
		Notes:               input.Notes,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customers := s.customers.WithTx(tx)
		history := s.history.WithTx(tx)

		ids, err := customers.HistoryIDs(ctx, input.CustomerID)
		if err != nil {
			return err
		}
		count, err := history.CountActiveIn(ctx, ids)
		if err != nil {
			return err
		}
		entry.SequenceNumber = int(count) + 1

		if err := history.Create(ctx, entry); err != nil {
			return err
		}
		return customers.AppendHistory(ctx, input.CustomerID, entry.ID)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *HistoryService) Update(ctx context.Context, id uuid.UUID, input UpdateHistoryInput) (*model.WarrantyHistoryEntry, error) {
	fields := map[string]interface{}{}
	if input.ContractID.Set {
		fields["contract_id"] = input.ContractID.Value
	}
	if input.Date.Set {
		if input.Date.Value == nil {
			return nil, fmt.Errorf("%w: date cannot be null", ErrInvalidInput)
		}
		fields["date"] = *input.Date.Value
	}
	if input.TaskType != nil {
		if !input.TaskType.Valid() {
			return nil, fmt.Errorf("%w: unknown task type %q", ErrInvalidInput, *input.TaskType)
		}
		fields["task_type"] = *input.TaskType
	}
	if input.MaintenanceContents.Set {
		contents := model.StringList(input.MaintenanceContents.Value)
		if contents == nil {
			contents = model.StringList{}
		}
		fields["maintenance_contents"] = contents
	}
	if input.Notes.Set {
		value := ""
		if input.Notes.Value != nil {
			value = *input.Notes.Value
		}
		fields["notes"] = value
	}

	if len(fields) > 0 {
		if err := s.history.Update(ctx, id, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

func (s *HistoryService) Get(ctx context.Context, id uuid.UUID) (*model.WarrantyHistoryEntry, error) {
	entry, err := s.history.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (s *HistoryService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.WarrantyHistoryEntry, error) {
	if _, err := s.customers.GetActive(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	ids, err := s.customers.HistoryIDs(ctx, customerID)
	if err != nil {
		return nil, err
	}
	entries, err := s.history.ListActiveByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.WarrantyHistoryEntry{}
	}
	return entries, nil
}

// Delete soft-deletes the entry and detaches it from the customer's list.
func (s *HistoryService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customers := s.customers.WithTx(tx)
		history := s.history.WithTx(tx)

		if err := history.MarkDeleted(ctx, id); err != nil {
			return err
		}
		return customers.DetachHistory(ctx, id)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
