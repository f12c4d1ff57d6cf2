package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hieuld/liftcare/internal/model"
	"github.com/hieuld/liftcare/internal/repository"
)

type ContractService struct {
	db        *gorm.DB
	customers *repository.CustomerRepository
	contracts *repository.ContractRepository
}

func NewContractService(
	db *gorm.DB,
	customers *repository.CustomerRepository,
	contracts *repository.ContractRepository,
) *ContractService {
	return &ContractService{db: db, customers: customers, contracts: contracts}
}

type EquipmentItemInput struct {
	Weight        decimal.Decimal `json:"weight"`
	NumberOfStops int             `json:"numberOfStops"`
	Quantity      int             `json:"quantity"`
}

type CreateContractInput struct {
	CustomerID     uuid.UUID            `json:"-"`
	ContractNumber string               `json:"contractNumber"`
	StartDate      time.Time            `json:"-"`
	EndDate        time.Time            `json:"-"`
	EquipmentItems []EquipmentItemInput `json:"equipmentItems"`
}

type UpdateContractInput struct {
	ContractNumber StringPatch           `json:"contractNumber"`
	StartDate      DatePatch             `json:"startDate"`
	EndDate        DatePatch             `json:"endDate"`
	EquipmentItems *[]EquipmentItemInput `json:"equipmentItems"`
}

// Create stores the contract together with its equipment line items in one
// transaction and appends the reference to the owning customer.
func (s *ContractService) Create(ctx context.Context, input CreateContractInput) (*model.MaintenanceContract, error) {
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, fmt.Errorf("%w: endDate before startDate", ErrInvalidInput)
	}
	if err := validateEquipment(input.EquipmentItems); err != nil {
		return nil, err
	}

	number := normalizeContractNumber(input.ContractNumber)

	if _, err := s.customers.GetActive(ctx, input.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	contract := &model.MaintenanceContract{
		ContractNumber: number,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customers := s.customers.WithTx(tx)
		contracts := s.contracts.WithTx(tx)

		if number != nil {
			count, err := contracts.CountByNumber(ctx, *number, uuid.Nil)
			if err != nil {
				return err
			}
			if count > 0 {
				return ErrDuplicateContractNumber
			}
		}

		if err := contracts.Create(ctx, contract); err != nil {
			return err
		}
		elevators, err := createEquipment(ctx, contracts, contract.ID, input.EquipmentItems)
		if err != nil {
			return err
		}
		contract.EquipmentItems = elevators

		return customers.AppendContract(ctx, input.CustomerID, contract.ID)
	})
	if err != nil {
		return nil, err
	}
	return contract, nil
}

// Update applies the partial field updates. A present equipmentItems list,
// even an empty one, fully replaces the owned set: the previous elevators are
// deleted, never orphaned.
func (s *ContractService) Update(ctx context.Context, id uuid.UUID, input UpdateContractInput) (*model.MaintenanceContract, error) {
	current, err := s.contracts.GetActive(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	start := current.StartDate
	end := current.EndDate
	if input.StartDate.Set {
		if input.StartDate.Value == nil {
			return nil, fmt.Errorf("%w: startDate cannot be null", ErrInvalidInput)
		}
		start = *input.StartDate.Value
	}
	if input.EndDate.Set {
		if input.EndDate.Value == nil {
			return nil, fmt.Errorf("%w: endDate cannot be null", ErrInvalidInput)
		}
		end = *input.EndDate.Value
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: endDate before startDate", ErrInvalidInput)
	}
	if input.EquipmentItems != nil {
		if err := validateEquipment(*input.EquipmentItems); err != nil {
			return nil, err
		}
	}

	fields := map[string]interface{}{}
	if input.ContractNumber.Set {
		fields["contract_number"] = normalizeContractNumberPatch(input.ContractNumber.Value)
	}
	if input.StartDate.Set {
		fields["start_date"] = start
	}
	if input.EndDate.Set {
		fields["end_date"] = end
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		contracts := s.contracts.WithTx(tx)

		if number, ok := fields["contract_number"].(*string); ok && number != nil {
			count, err := contracts.CountByNumber(ctx, *number, id)
			if err != nil {
				return err
			}
			if count > 0 {
				return ErrDuplicateContractNumber
			}
		}

		if len(fields) > 0 {
			if err := contracts.UpdateActive(ctx, id, fields); err != nil {
				return err
			}
		}

		if input.EquipmentItems != nil {
			if err := contracts.PurgeEquipment(ctx, id); err != nil {
				return err
			}
			if _, err := createEquipment(ctx, contracts, id, *input.EquipmentItems); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.Get(ctx, id)
}

// Get returns the contract with its equipment, regardless of delete state —
// the trash view reads through here too.
func (s *ContractService) Get(ctx context.Context, id uuid.UUID) (*model.MaintenanceContract, error) {
	contract, err := s.contracts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	equipment, err := s.contracts.Equipment(ctx, contract.ID)
	if err != nil {
		return nil, err
	}
	contract.EquipmentItems = equipment
	return contract, nil
}

func (s *ContractService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.MaintenanceContract, error) {
	if _, err := s.customers.GetActive(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	ids, err := s.customers.ContractIDs(ctx, customerID)
	if err != nil {
		return nil, err
	}
	contracts, err := s.contracts.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	result := make([]model.MaintenanceContract, 0, len(contracts))
	for _, contract := range contracts {
		if contract.IsDeleted {
			continue
		}
		equipment, err := s.contracts.Equipment(ctx, contract.ID)
		if err != nil {
			return nil, err
		}
		contract.EquipmentItems = equipment
		result = append(result, contract)
	}
	return result, nil
}

// Delete is the individual soft delete. The contract keeps its equipment so a
// later restore is lossless, but the reference is removed from every customer
// list so a stale link cannot resurface it.
func (s *ContractService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customers := s.customers.WithTx(tx)
		contracts := s.contracts.WithTx(tx)

		if err := contracts.MarkDeleted(ctx, id, nil); err != nil {
			return err
		}
		return customers.DetachContract(ctx, id)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func createEquipment(
	ctx context.Context,
	contracts *repository.ContractRepository,
	contractID uuid.UUID,
	items []EquipmentItemInput,
) ([]model.Elevator, error) {
	elevators := make([]model.Elevator, 0, len(items))
	for position, item := range items {
		elevator := model.Elevator{
			Weight:        item.Weight,
			NumberOfStops: item.NumberOfStops,
			Quantity:      item.Quantity,
		}
		if elevator.Quantity == 0 {
			elevator.Quantity = 1
		}
		if err := contracts.CreateElevator(ctx, &elevator); err != nil {
			return nil, err
		}
		if err := contracts.LinkEquipment(ctx, contractID, elevator.ID, position); err != nil {
			return nil, err
		}
		elevators = append(elevators, elevator)
	}
	return elevators, nil
}

func validateEquipment(items []EquipmentItemInput) error {
	for i, item := range items {
		if item.Weight.IsNegative() {
			return fmt.Errorf("%w: equipmentItems[%d].weight is negative", ErrInvalidInput, i)
		}
		if item.NumberOfStops < 0 {
			return fmt.Errorf("%w: equipmentItems[%d].numberOfStops is negative", ErrInvalidInput, i)
		}
		if item.Quantity < 0 {
			return fmt.Errorf("%w: equipmentItems[%d].quantity is negative", ErrInvalidInput, i)
		}
	}
	return nil
}

// normalizeContractNumber treats blank numbers as absent so the sparse
// uniqueness rule only applies to real values.
func normalizeContractNumber(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizeContractNumberPatch(value *string) *string {
	if value == nil {
		return nil
	}
	return normalizeContractNumber(*value)
}
