package service

import (
	"Inventory/internal/model"
	"Inventory/internal/repo"
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DeviceService инкапсулирует бизнес-логику каталога устройств.
type DeviceService struct {
	devices repo.DeviceRepository
	photos  repo.PhotoRepository
	logger  *zap.SugaredLogger
}

func NewDeviceService(d repo.DeviceRepository, p repo.PhotoRepository, logger *zap.SugaredLogger) *DeviceService {
	return &DeviceService{devices: d, photos: p, logger: logger}
}

// DeviceFields: описательные поля устройства. nil означает «не передано»:
// при обновлении такое поле не трогается.
type DeviceFields struct {
	DeviceName   *string
	Description  *string
	SerialNumber *string
	Manufacturer *string
}

// PhotoUpload: загруженный файл фото.
type PhotoUpload struct {
	Field    string
	Filename string
	Content  io.Reader
}

// Create сохраняет фото (если есть), затем вставляет запись.
// При ошибке вставки сохранённый файл удаляется.
func (s *DeviceService) Create(ctx context.Context, id int64, f DeviceFields, photo *PhotoUpload) (*model.Device, error) {
	d := &model.Device{
		ID:           id,
		DeviceName:   f.DeviceName,
		Description:  f.Description,
		SerialNumber: f.SerialNumber,
		Manufacturer: f.Manufacturer,
	}

	ref, err := s.savePhoto(ctx, photo)
	if err != nil {
		return nil, err
	}
	if ref != "" {
		d.PhotoPath = &ref
	}

	if err := s.devices.Create(ctx, d); err != nil {
		s.dropPhoto(ref)
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDeviceExists
		}
		return nil, fmt.Errorf("create device: %w", err)
	}
	return d, nil
}

// Update применяет только переданные поля. Успех определяется существованием записи,
// даже если значения не изменились.
func (s *DeviceService) Update(ctx context.Context, id int64, f DeviceFields, photo *PhotoUpload) (*model.Device, error) {
	// отсутствующее устройство проверяем до записи файла, чтобы не плодить сирот
	if _, err := s.devices.GetByID(ctx, id); err != nil {
		return nil, s.deviceErr(err)
	}

	updates := map[string]any{}
	if f.DeviceName != nil {
		updates["device_name"] = *f.DeviceName
	}
	if f.Description != nil {
		updates["description"] = *f.Description
	}
	if f.SerialNumber != nil {
		updates["serial_number"] = *f.SerialNumber
	}
	if f.Manufacturer != nil {
		updates["manufacturer"] = *f.Manufacturer
	}

	ref, err := s.savePhoto(ctx, photo)
	if err != nil {
		return nil, err
	}
	if ref != "" {
		updates["photo_path"] = ref
	}

	if err := s.devices.Update(ctx, id, updates); err != nil {
		s.dropPhoto(ref)
		return nil, s.deviceErr(err)
	}
	return s.Get(ctx, id)
}

// Get возвращает устройство с проверенной ссылкой на фото.
func (s *DeviceService) Get(ctx context.Context, id int64) (*model.Device, error) {
	d, err := s.devices.GetByID(ctx, id)
	if err != nil {
		return nil, s.deviceErr(err)
	}
	s.healPhoto(d)
	return d, nil
}

// List возвращает все устройства. Ссылка на отсутствующий файл отдаётся пустой строкой,
// хранимое значение не меняется.
func (s *DeviceService) List(ctx context.Context) ([]model.Device, error) {
	list, err := s.devices.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	for i := range list {
		s.healPhoto(&list[i])
	}
	return list, nil
}

// Delete удаляет устройство. Файл фото остаётся на диске.
func (s *DeviceService) Delete(ctx context.Context, id int64) error {
	if err := s.devices.Delete(ctx, id); err != nil {
		return s.deviceErr(err)
	}
	return nil
}

// PhotoFile возвращает абсолютный путь к фото устройства.
func (s *DeviceService) PhotoFile(ctx context.Context, id int64) (string, error) {
	d, err := s.devices.GetByID(ctx, id)
	if err != nil {
		return "", s.deviceErr(err)
	}
	if d.PhotoPath == nil || *d.PhotoPath == "" {
		return "", ErrPhotoNotFound
	}
	full, err := s.photos.Resolve(*d.PhotoPath)
	if err != nil {
		return "", ErrPhotoNotFound
	}
	return full, nil
}

func (s *DeviceService) healPhoto(d *model.Device) {
	if d.PhotoPath == nil || *d.PhotoPath == "" {
		return
	}
	if !s.photos.Exists(*d.PhotoPath) {
		empty := ""
		d.PhotoPath = &empty
	}
}

func (s *DeviceService) savePhoto(ctx context.Context, photo *PhotoUpload) (string, error) {
	if photo == nil || photo.Content == nil {
		return "", nil
	}
	ref, err := s.photos.Save(ctx, photo.Field, photo.Filename, photo.Content)
	if err != nil {
		return "", fmt.Errorf("save photo: %w", err)
	}
	return ref, nil
}

func (s *DeviceService) dropPhoto(ref string) {
	if ref == "" {
		return
	}
	if err := s.photos.Remove(ref); err != nil {
		s.logger.Warnw("failed to remove orphaned photo", "ref", ref, "error", err)
	}
}

func (s *DeviceService) deviceErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrDeviceNotFound
	}
	return fmt.Errorf("device storage: %w", err)
}
