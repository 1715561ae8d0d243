package repo

import (
	"Inventory/internal/model"
	"context"

	"gorm.io/gorm"
)

// DeviceRepository определяет контракт доступа к Device для слоя сервиса.
type DeviceRepository interface {
	// Create вставляет запись. Занятый id даёт ErrDuplicate.
	Create(ctx context.Context, d *model.Device) error
	// GetByID возвращает gorm.ErrRecordNotFound, если устройства нет.
	GetByID(ctx context.Context, id int64) (*model.Device, error)
	ListAll(ctx context.Context) ([]model.Device, error)
	ListByHolder(ctx context.Context, username string) ([]model.Device, error)

	// Update записывает только переданные колонки. Если записи нет, gorm.ErrRecordNotFound.
	Update(ctx context.Context, id int64, updates map[string]any) error
	// Delete удаляет запись. Если записи нет, gorm.ErrRecordNotFound.
	Delete(ctx context.Context, id int64) error

	// AssignHolder одним условным UPDATE переводит свободное устройство к существующему пользователю.
	// Возвращает false, если условие не выполнилось.
	AssignHolder(ctx context.Context, id int64, username string) (bool, error)
	// ReleaseHolder одним условным UPDATE освобождает устройство, если его держит username.
	ReleaseHolder(ctx context.Context, id int64, username string) (bool, error)
}

type deviceRepo struct {
	db *gorm.DB
}

// NewDeviceRepository создаёт реализацию репозитория для Device.
func NewDeviceRepository(db *gorm.DB) DeviceRepository {
	return &deviceRepo{db: db}
}

func (r *deviceRepo) Create(ctx context.Context, d *model.Device) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *deviceRepo) GetByID(ctx context.Context, id int64) (*model.Device, error) {
	var d model.Device
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *deviceRepo) ListAll(ctx context.Context) ([]model.Device, error) {
	list := make([]model.Device, 0)
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *deviceRepo) ListByHolder(ctx context.Context, username string) ([]model.Device, error) {
	list := make([]model.Device, 0)
	if err := r.db.WithContext(ctx).Where("username = ?", username).Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *deviceRepo) Update(ctx context.Context, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		// нечего менять: успех определяется только существованием записи
		var n int64
		if err := r.db.WithContext(ctx).Model(&model.Device{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}
	tx := r.db.WithContext(ctx).Model(&model.Device{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *deviceRepo) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Device{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *deviceRepo) AssignHolder(ctx context.Context, id int64, username string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&model.Device{}).
		Where("id = ? AND username IS NULL", id).
		Where("EXISTS (SELECT 1 FROM users WHERE users.username = ?)", username).
		Update("username", username)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *deviceRepo) ReleaseHolder(ctx context.Context, id int64, username string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&model.Device{}).
		Where("id = ? AND username = ?", id, username).
		Where("EXISTS (SELECT 1 FROM users WHERE users.username = ?)", username).
		Update("username", gorm.Expr("NULL"))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
