package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hieuld/liftcare/internal/model"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) WithTx(tx *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: tx}
}

func (r *HistoryRepository) Create(ctx context.Context, entry *model.WarrantyHistoryEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.MaintenanceContents == nil {
		entry.MaintenanceContents = model.StringList{}
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *HistoryRepository) Get(ctx context.Context, id uuid.UUID) (*model.WarrantyHistoryEntry, error) {
	var entry model.WarrantyHistoryEntry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListActiveByIDs returns the non-deleted entries among the given references,
// keeping reference-list order.
func (r *HistoryRepository) ListActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]model.WarrantyHistoryEntry, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var entries []model.WarrantyHistoryEntry
	err := r.db.WithContext(ctx).
		Where("id IN ? AND is_deleted = ?", ids, false).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.WarrantyHistoryEntry, len(entries))
	for _, entry := range entries {
		byID[entry.ID] = entry
	}
	ordered := make([]model.WarrantyHistoryEntry, 0, len(entries))
	for _, id := range ids {
		if entry, ok := byID[id]; ok {
			ordered = append(ordered, entry)
		}
	}
	return ordered, nil
}

// CountActiveIn counts the non-deleted entries among the references. The next
// sequence number for a customer is this count plus one.
func (r *HistoryRepository) CountActiveIn(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.WarrantyHistoryEntry{}).
		Where("id IN ? AND is_deleted = ?", ids, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// LatestActiveIn returns the most recent entry by visit date among the
// references, or nil when the customer has no usable history.
func (r *HistoryRepository) LatestActiveIn(ctx context.Context, ids []uuid.UUID) (*model.WarrantyHistoryEntry, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var entry model.WarrantyHistoryEntry
	err := r.db.WithContext(ctx).
		Where("id IN ? AND is_deleted = ?", ids, false).
		Order("date DESC").
		First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *HistoryRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.WarrantyHistoryEntry{}).
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

func (r *HistoryRepository) MarkDeleted(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&model.WarrantyHistoryEntry{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
