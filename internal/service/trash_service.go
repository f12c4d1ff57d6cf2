package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hieuld/liftcare/internal/model"
	"github.com/hieuld/liftcare/internal/repository"
)

// TrashService owns the soft-delete / restore / purge state machine for
// customers and contracts.
type TrashService struct {
	db        *gorm.DB
	customers *repository.CustomerRepository
	contracts *repository.ContractRepository
}

func NewTrashService(
	db *gorm.DB,
	customers *repository.CustomerRepository,
	contracts *repository.ContractRepository,
) *TrashService {
	return &TrashService{db: db, customers: customers, contracts: contracts}
}

func (s *TrashService) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	customers, err := s.customers.ListDeleted(ctx)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []model.Customer{}
	}
	return customers, nil
}

// ListContracts returns only individually-deleted contracts. Cascade-deleted
// ones are represented by their customer and restored or purged with it.
func (s *TrashService) ListContracts(ctx context.Context) ([]model.MaintenanceContract, error) {
	contracts, err := s.contracts.ListDeletedIndividually(ctx)
	if err != nil {
		return nil, err
	}
	if contracts == nil {
		contracts = []model.MaintenanceContract{}
	}
	return contracts, nil
}

// RestoreCustomer brings the customer back and restores exactly the contracts
// this customer's cascade took down. Contracts the user had deleted
// individually before the cascade stay in the trash.
func (s *TrashService) RestoreCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customers := s.customers.WithTx(tx)
		contracts := s.contracts.WithTx(tx)

		if err := customers.SetDeleted(ctx, id, false); err != nil {
			return err
		}
		return contracts.RestoreByParent(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.customers.Get(ctx, id)
}

// RestoreContract only applies to individually-deleted contracts; a
// cascade-deleted contract cannot be restored while its customer stays
// deleted.
func (s *TrashService) RestoreContract(ctx context.Context, id uuid.UUID) (*model.MaintenanceContract, error) {
	if err := s.contracts.RestoreIndividuallyDeleted(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.contracts.Get(ctx, id)
}

// PurgeCustomer permanently removes a soft-deleted customer together with the
// contracts its cascade deleted and their equipment. Individually-deleted
// contracts survive even when still listed on the customer.
func (s *TrashService) PurgeCustomer(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customers := s.customers.WithTx(tx)
		contracts := s.contracts.WithTx(tx)

		cascaded, err := contracts.ListByParent(ctx, id)
		if err != nil {
			return err
		}
		if err := customers.Purge(ctx, id); err != nil {
			return err
		}
		for _, contract := range cascaded {
			if err := contracts.PurgeEquipment(ctx, contract.ID); err != nil {
				return err
			}
			if err := customers.DetachContract(ctx, contract.ID); err != nil {
				return err
			}
			if err := contracts.Purge(ctx, contract.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// PurgeContract permanently removes an individually-deleted contract and its
// equipment.
func (s *TrashService) PurgeContract(ctx context.Context, id uuid.UUID) error {
	contract, err := s.contracts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !contract.IsDeleted || contract.DeletedByParent != nil {
		return ErrNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customers := s.customers.WithTx(tx)
		contracts := s.contracts.WithTx(tx)

		if err := contracts.PurgeEquipment(ctx, id); err != nil {
			return err
		}
		if err := customers.DetachContract(ctx, id); err != nil {
			return err
		}
		return contracts.Purge(ctx, id)
	})
}

// EmptyTrash purges every soft-deleted contract with its equipment, then every
// soft-deleted customer. Terminal, no restore afterwards.
func (s *TrashService) EmptyTrash(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customers := s.customers.WithTx(tx)
		contracts := s.contracts.WithTx(tx)

		deleted, err := contracts.ListAllDeleted(ctx)
		if err != nil {
			return err
		}
		for _, contract := range deleted {
			if err := contracts.PurgeEquipment(ctx, contract.ID); err != nil {
				return err
			}
			if err := customers.DetachContract(ctx, contract.ID); err != nil {
				return err
			}
			if err := contracts.Purge(ctx, contract.ID); err != nil {
				return err
			}
		}

		deletedCustomers, err := customers.ListDeleted(ctx)
		if err != nil {
			return err
		}
		for _, customer := range deletedCustomers {
			if err := customers.Purge(ctx, customer.ID); err != nil {
				return err
			}
		}
		return nil
	})
}
