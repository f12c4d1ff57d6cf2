package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hieuld/liftcare/internal/model"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// WithTx returns a copy of the repository bound to a running transaction.
func (r *CustomerRepository) WithTx(tx *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: tx}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *model.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	if customer.Notes == nil {
		customer.Notes = model.StringList{}
	}
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *CustomerRepository) Get(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetActive looks up a customer that is not in the trash.
func (r *CustomerRepository) GetActive(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).
		First(&customer, "id = ? AND is_deleted = ?", id, false).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) ListActive(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("created_at ASC").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *CustomerRepository) ListDeleted(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).
		Where("is_deleted = ?", true).
		Order("updated_at DESC").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *CustomerRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Customer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var customers []model.Customer
	err := r.db.WithContext(ctx).
		Where("id IN ? AND is_deleted = ?", ids, false).
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

// UpdateActive applies field-level updates to a customer that is not deleted.
// Returns gorm.ErrRecordNotFound when no row matched.
func (r *CustomerRepository) UpdateActive(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.Customer{}).
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

// SetDeleted flips the soft-delete flag. The required prior state is part of
// the predicate so a wrong-state call surfaces as not found.
func (r *CustomerRepository) SetDeleted(ctx context.Context, id uuid.UUID, deleted bool) error {
	result := r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("id = ? AND is_deleted = ?", id, !deleted).
		Update("is_deleted", deleted)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Purge removes the customer row and both of its reference lists. Only valid
// for soft-deleted customers; the caller checks state first.
func (r *CustomerRepository) Purge(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, true).
		Delete(&model.Customer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", id).
		Delete(&model.CustomerContract{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("customer_id = ?", id).
		Delete(&model.CustomerHistory{}).Error
}

// --- maintenanceContracts reference list ---

func (r *CustomerRepository) AppendContract(ctx context.Context, customerID, contractID uuid.UUID) error {
	position, err := r.nextPosition(ctx, &model.CustomerContract{}, "customer_id", customerID)
	if err != nil {
		return err
	}
	link := model.CustomerContract{
		CustomerID: customerID,
		ContractID: contractID,
		Position:   position,
	}
	return r.db.WithContext(ctx).Create(&link).Error
}

// DetachContract removes the contract from every customer list it appears in.
func (r *CustomerRepository) DetachContract(ctx context.Context, contractID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Delete(&model.CustomerContract{}).Error
}

// ContractIDs returns the customer's contract references in list order.
func (r *CustomerRepository) ContractIDs(ctx context.Context, customerID uuid.UUID) ([]uuid.UUID, error) {
	var links []model.CustomerContract
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("position ASC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.ContractID)
	}
	return ids, nil
}

// --- warrantyHistory reference list ---

func (r *CustomerRepository) AppendHistory(ctx context.Context, customerID, entryID uuid.UUID) error {
	position, err := r.nextPosition(ctx, &model.CustomerHistory{}, "customer_id", customerID)
	if err != nil {
		return err
	}
	link := model.CustomerHistory{
		CustomerID: customerID,
		EntryID:    entryID,
		Position:   position,
	}
	return r.db.WithContext(ctx).Create(&link).Error
}

func (r *CustomerRepository) DetachHistory(ctx context.Context, entryID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("entry_id = ?", entryID).
		Delete(&model.CustomerHistory{}).Error
}

func (r *CustomerRepository) HistoryIDs(ctx context.Context, customerID uuid.UUID) ([]uuid.UUID, error) {
	var links []model.CustomerHistory
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("position ASC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.EntryID)
	}
	return ids, nil
}

func (r *CustomerRepository) nextPosition(ctx context.Context, table interface{}, column string, owner uuid.UUID) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(table).
		Where(column+" = ?", owner).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}
