package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hieuld/liftcare/internal/model"
	"github.com/hieuld/liftcare/internal/repository"
)

type CustomerService struct {
	db        *gorm.DB
	customers *repository.CustomerRepository
	contracts *repository.ContractRepository
	history   *repository.HistoryRepository
}

func NewCustomerService(
	db *gorm.DB,
	customers *repository.CustomerRepository,
	contracts *repository.ContractRepository,
	history *repository.HistoryRepository,
) *CustomerService {
	return &CustomerService{
		db:        db,
		customers: customers,
		contracts: contracts,
		history:   history,
	}
}

type CreateCustomerInput struct {
	CustomerName           string     `json:"customerName"`
	CompanyName            string     `json:"companyName"`
	Address                string     `json:"address"`
	ContractSigningDate    *time.Time `json:"contractSigningDate"`
	InspectionDate         *time.Time `json:"inspectionDate"`
	AcceptanceSigningDate  *time.Time `json:"acceptanceSigningDate"`
	WarrantyExpirationDate *time.Time `json:"warrantyExpirationDate"`
	Notes                  string     `json:"notes"`
}

type UpdateCustomerInput struct {
	CustomerName           StringPatch     `json:"customerName"`
	CompanyName            StringPatch     `json:"companyName"`
	Address                StringPatch     `json:"address"`
	ContractSigningDate    DatePatch       `json:"contractSigningDate"`
	InspectionDate         DatePatch       `json:"inspectionDate"`
	AcceptanceSigningDate  DatePatch       `json:"acceptanceSigningDate"`
	WarrantyExpirationDate DatePatch       `json:"warrantyExpirationDate"`
	Notes                  StringListPatch `json:"notes"`
}

// CustomerOverview is the list read shape: customers with their active
// contracts populated, equipment left out.
type CustomerOverview struct {
	model.Customer
	MaintenanceContracts []model.MaintenanceContract `json:"maintenanceContracts"`
}

// CustomerDetail is the detail read shape: contracts carry their equipment and
// the warranty history rides along. Soft-deleted references are filtered.
type CustomerDetail struct {
	model.Customer
	MaintenanceContracts []model.MaintenanceContract  `json:"maintenanceContracts"`
	WarrantyHistory      []model.WarrantyHistoryEntry `json:"warrantyHistory"`
}

// Create stores the customer. When both the acceptance date and the warranty
// expiration date are supplied, a warranty-only contract covering that window
// is created and linked in the same transaction.
func (s *CustomerService) Create(ctx context.Context, input CreateCustomerInput) (*model.Customer, error) {
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Address) == "" {
		return nil, fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	if input.AcceptanceSigningDate != nil && input.WarrantyExpirationDate != nil &&
		input.WarrantyExpirationDate.Before(*input.AcceptanceSigningDate) {
		return nil, fmt.Errorf("%w: warrantyExpirationDate before acceptanceSigningDate", ErrInvalidInput)
	}

	notes := model.StringList{}
	if strings.TrimSpace(input.Notes) != "" {
		notes = model.StringList{input.Notes}
	}

	customer := &model.Customer{
		CustomerName:           input.CustomerName,
		CompanyName:            input.CompanyName,
		Address:                input.Address,
		ContractSigningDate:    input.ContractSigningDate,
		InspectionDate:         input.InspectionDate,
		AcceptanceSigningDate:  input.AcceptanceSigningDate,
		WarrantyExpirationDate: input.WarrantyExpirationDate,
		Notes:                  notes,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customers := s.customers.WithTx(tx)
		contracts := s.contracts.WithTx(tx)

		if err := customers.Create(ctx, customer); err != nil {
			return err
		}

		if input.AcceptanceSigningDate != nil && input.WarrantyExpirationDate != nil {
			warranty := &model.MaintenanceContract{
				StartDate:    *input.AcceptanceSigningDate,
				EndDate:      *input.WarrantyExpirationDate,
				WarrantyOnly: true,
			}
			if err := contracts.Create(ctx, warranty); err != nil {
				return err
			}
			if err := customers.AppendContract(ctx, customer.ID, warranty.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*model.Customer, error) {
	fields := map[string]interface{}{}
	if input.CustomerName.Set {
		if input.CustomerName.Value == nil || strings.TrimSpace(*input.CustomerName.Value) == "" {
			return nil, fmt.Errorf("%w: customerName cannot be empty", ErrInvalidInput)
		}
		fields["customer_name"] = *input.CustomerName.Value
	}
	if input.CompanyName.Set {
		value := ""
		if input.CompanyName.Value != nil {
			value = *input.CompanyName.Value
		}
		fields["company_name"] = value
	}
	if input.Address.Set {
		if input.Address.Value == nil || strings.TrimSpace(*input.Address.Value) == "" {
			return nil, fmt.Errorf("%w: address cannot be empty", ErrInvalidInput)
		}
		fields["address"] = *input.Address.Value
	}
	if input.ContractSigningDate.Set {
		fields["contract_signing_date"] = input.ContractSigningDate.Value
	}
	if input.InspectionDate.Set {
		fields["inspection_date"] = input.InspectionDate.Value
	}
	if input.AcceptanceSigningDate.Set {
		fields["acceptance_signing_date"] = input.AcceptanceSigningDate.Value
	}
	if input.WarrantyExpirationDate.Set {
		fields["warranty_expiration_date"] = input.WarrantyExpirationDate.Value
	}
	if input.Notes.Set {
		notes := model.StringList(input.Notes.Value)
		if notes == nil {
			notes = model.StringList{}
		}
		fields["notes"] = notes
	}

	if len(fields) > 0 {
		if err := s.customers.UpdateActive(ctx, id, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	customer, err := s.customers.GetActive(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) List(ctx context.Context) ([]CustomerOverview, error) {
	customers, err := s.customers.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]CustomerOverview, 0, len(customers))
	for _, customer := range customers {
		contracts, err := s.activeContracts(ctx, customer.ID, false)
		if err != nil {
			return nil, err
		}
		result = append(result, CustomerOverview{
			Customer:             customer,
			MaintenanceContracts: contracts,
		})
	}
	return result, nil
}

func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerDetail, error) {
	customer, err := s.customers.GetActive(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	contracts, err := s.activeContracts(ctx, id, true)
	if err != nil {
		return nil, err
	}

	historyIDs, err := s.customers.HistoryIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	entries, err := s.history.ListActiveByIDs(ctx, historyIDs)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.WarrantyHistoryEntry{}
	}

	return &CustomerDetail{
		Customer:             *customer,
		MaintenanceContracts: contracts,
		WarrantyHistory:      entries,
	}, nil
}

// Delete soft-deletes the customer and cascades to every currently-active
// contract it references, tagging each with this customer as the cause.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customers := s.customers.WithTx(tx)
		contracts := s.contracts.WithTx(tx)

		if err := customers.SetDeleted(ctx, id, true); err != nil {
			return err
		}
		contractIDs, err := customers.ContractIDs(ctx, id)
		if err != nil {
			return err
		}
		return contracts.MarkDeletedByCascade(ctx, contractIDs, id)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// activeContracts resolves the customer's contract references, drops
// soft-deleted ones, and optionally loads equipment.
func (s *CustomerService) activeContracts(ctx context.Context, customerID uuid.UUID, withEquipment bool) ([]model.MaintenanceContract, error) {
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
		if withEquipment {
			equipment, err := s.contracts.Equipment(ctx, contract.ID)
			if err != nil {
				return nil, err
			}
			contract.EquipmentItems = equipment
		}
		result = append(result, contract)
	}
	return result, nil
}
