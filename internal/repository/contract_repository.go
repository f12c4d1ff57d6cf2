package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hieuld/liftcare/internal/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) WithTx(tx *gorm.DB) *ContractRepository {
	return &ContractRepository{db: tx}
}

func (r *ContractRepository) Create(ctx context.Context, contract *model.MaintenanceContract) error {
	if contract.ID == uuid.Nil {
		contract.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(contract).Error
}

func (r *ContractRepository) Get(ctx context.Context, id uuid.UUID) (*model.MaintenanceContract, error) {
	var contract model.MaintenanceContract
	err := r.db.WithContext(ctx).First(&contract, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepository) GetActive(ctx context.Context, id uuid.UUID) (*model.MaintenanceContract, error) {
	var contract model.MaintenanceContract
	err := r.db.WithContext(ctx).
		First(&contract, "id = ? AND is_deleted = ?", id, false).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// ListByIDs returns contracts in the order of the given reference list,
// silently dropping ids that no longer resolve.
func (r *ContractRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.MaintenanceContract, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var contracts []model.MaintenanceContract
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.MaintenanceContract, len(contracts))
	for _, contract := range contracts {
		byID[contract.ID] = contract
	}
	ordered := make([]model.MaintenanceContract, 0, len(contracts))
	for _, id := range ids {
		if contract, ok := byID[id]; ok {
			ordered = append(ordered, contract)
		}
	}
	return ordered, nil
}

// CountByNumber reports how many contracts already carry the number. Used for
// the sparse-uniqueness check before insert; the unique index is the backstop.
func (r *ContractRepository) CountByNumber(ctx context.Context, number string, exclude uuid.UUID) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&model.MaintenanceContract{}).
		Where("contract_number = ?", number)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ContractRepository) UpdateActive(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.MaintenanceContract{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkDeleted soft-deletes an active contract. A nil parent means the user
// deleted it individually; otherwise the delete came from the parent cascade.
func (r *ContractRepository) MarkDeleted(ctx context.Context, id uuid.UUID, parent *uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&model.MaintenanceContract{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"is_deleted":        true,
			"deleted_by_parent": parent,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkDeletedByCascade soft-deletes every active contract in the list on
// behalf of the given customer.
func (r *ContractRepository) MarkDeletedByCascade(ctx context.Context, ids []uuid.UUID, customerID uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.MaintenanceContract{}).
		Where("id IN ? AND is_deleted = ?", ids, false).
		Updates(map[string]interface{}{
			"is_deleted":        true,
			"deleted_by_parent": customerID,
		}).Error
}

// RestoreIndividuallyDeleted restores a contract the user deleted directly.
// Cascade-deleted contracts are only restorable through their customer.
func (r *ContractRepository) RestoreIndividuallyDeleted(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&model.MaintenanceContract{}).
		Where("id = ? AND is_deleted = ? AND deleted_by_parent IS NULL", id, true).
		Update("is_deleted", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RestoreByParent brings back exactly the contracts this customer's cascade
// took down, clearing the provenance tag.
func (r *ContractRepository) RestoreByParent(ctx context.Context, customerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.MaintenanceContract{}).
		Where("deleted_by_parent = ? AND is_deleted = ?", customerID, true).
		Updates(map[string]interface{}{
			"is_deleted":        false,
			"deleted_by_parent": nil,
		}).Error
}

// ListDeletedIndividually is the trash view for contracts. Cascade-deleted
// contracts are not listed; they ride along with their customer.
func (r *ContractRepository) ListDeletedIndividually(ctx context.Context) ([]model.MaintenanceContract, error) {
	var contracts []model.MaintenanceContract
	err := r.db.WithContext(ctx).
		Where("is_deleted = ? AND deleted_by_parent IS NULL", true).
		Order("updated_at DESC").
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *ContractRepository) ListByParent(ctx context.Context, customerID uuid.UUID) ([]model.MaintenanceContract, error) {
	var contracts []model.MaintenanceContract
	err := r.db.WithContext(ctx).
		Where("deleted_by_parent = ?", customerID).
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *ContractRepository) ListAllDeleted(ctx context.Context) ([]model.MaintenanceContract, error) {
	var contracts []model.MaintenanceContract
	err := r.db.WithContext(ctx).
		Where("is_deleted = ?", true).
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

// Purge removes the contract row itself. Equipment and reference lists are
// the caller's responsibility so cascade order stays visible at the call site.
func (r *ContractRepository) Purge(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.MaintenanceContract{}).Error
}

// --- equipment ownership ---

func (r *ContractRepository) CreateElevator(ctx context.Context, elevator *model.Elevator) error {
	if elevator.ID == uuid.Nil {
		elevator.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(elevator).Error
}

func (r *ContractRepository) LinkEquipment(ctx context.Context, contractID, elevatorID uuid.UUID, position int) error {
	link := model.ContractEquipment{
		ContractID: contractID,
		ElevatorID: elevatorID,
		Position:   position,
	}
	return r.db.WithContext(ctx).Create(&link).Error
}

func (r *ContractRepository) EquipmentIDs(ctx context.Context, contractID uuid.UUID) ([]uuid.UUID, error) {
	var links []model.ContractEquipment
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("position ASC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.ElevatorID)
	}
	return ids, nil
}

// Equipment returns the contract's elevators in list order.
func (r *ContractRepository) Equipment(ctx context.Context, contractID uuid.UUID) ([]model.Elevator, error) {
	ids, err := r.EquipmentIDs(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Elevator{}, nil
	}
	var elevators []model.Elevator
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&elevators).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.Elevator, len(elevators))
	for _, elevator := range elevators {
		byID[elevator.ID] = elevator
	}
	ordered := make([]model.Elevator, 0, len(elevators))
	for _, id := range ids {
		if elevator, ok := byID[id]; ok {
			ordered = append(ordered, elevator)
		}
	}
	return ordered, nil
}

// PurgeEquipment removes the elevators and the ownership rows.
func (r *ContractRepository) PurgeEquipment(ctx context.Context, contractID uuid.UUID) error {
	ids, err := r.EquipmentIDs(ctx, contractID)
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		if err := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Elevator{}).Error; err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Delete(&model.ContractEquipment{}).Error
}
