package service

import (
	"Inventory/internal/model"
	"Inventory/internal/repo"
	"context"
	"errors"
	"fmt"
)

// CheckoutService: выдача и возврат устройств.
// Состояния: свободно (username IS NULL) и выдано (username задан).
type CheckoutService struct {
	devices repo.DeviceRepository
	users   *UserService
	catalog *DeviceService
}

func NewCheckoutService(d repo.DeviceRepository, users *UserService, catalog *DeviceService) *CheckoutService {
	return &CheckoutService{devices: d, users: users, catalog: catalog}
}

// Take выдаёт свободное устройство пользователю.
// Проверка доступности и запись выполняются одним условным UPDATE;
// при неудаче причина определяется последующим чтением.
func (s *CheckoutService) Take(ctx context.Context, id int64, username string) (*model.Device, error) {
	ok, err := s.devices.AssignHolder(ctx, id, username)
	if err != nil {
		return nil, fmt.Errorf("assign holder: %w", err)
	}
	if ok {
		return s.catalog.Get(ctx, id)
	}

	d, err := s.catalog.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.Available() {
		return nil, ErrDeviceUnavailable
	}
	if _, err := s.users.Get(ctx, username); err != nil {
		return nil, err
	}
	// состояние изменилось между UPDATE и чтением: считаем, что устройство перехватили
	return nil, ErrDeviceUnavailable
}

// Return возвращает устройство на склад. Вернуть может только текущий держатель.
func (s *CheckoutService) Return(ctx context.Context, id int64, username string) (*model.Device, error) {
	ok, err := s.devices.ReleaseHolder(ctx, id, username)
	if err != nil {
		return nil, fmt.Errorf("release holder: %w", err)
	}
	if ok {
		return s.catalog.Get(ctx, id)
	}

	d, err := s.catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrDeviceNotFound) {
			return nil, ErrDeviceNotHeld
		}
		return nil, err
	}
	if d.Available() {
		return nil, ErrDeviceNotHeld
	}
	if _, err := s.users.Get(ctx, username); err != nil {
		return nil, err
	}
	if *d.Username != username {
		return nil, ErrNotHolder
	}
	// держатель совпал, но UPDATE не прошёл: устройство уже вернули параллельно
	return nil, ErrDeviceNotHeld
}

// HeldBy возвращает устройства, выданные пользователю.
func (s *CheckoutService) HeldBy(ctx context.Context, username string) ([]model.Device, error) {
	if _, err := s.users.Get(ctx, username); err != nil {
		return nil, err
	}
	list, err := s.devices.ListByHolder(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list held devices: %w", err)
	}
	for i := range list {
		s.catalog.healPhoto(&list[i])
	}
	return list, nil
}
