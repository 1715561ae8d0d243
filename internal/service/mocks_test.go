package service

import (
	"Inventory/internal/model"
	"Inventory/internal/repo"
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// мок для repo.UserRepository
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]model.User); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

// мок для repo.DeviceRepository
type mockDeviceRepo struct{ mock.Mock }

func (m *mockDeviceRepo) Create(ctx context.Context, d *model.Device) error {
	return m.Called(ctx, d).Error(0)
}
func (m *mockDeviceRepo) GetByID(ctx context.Context, id int64) (*model.Device, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Device); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockDeviceRepo) ListAll(ctx context.Context) ([]model.Device, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]model.Device); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockDeviceRepo) ListByHolder(ctx context.Context, username string) ([]model.Device, error) {
	args := m.Called(ctx, username)
	if v, ok := args.Get(0).([]model.Device); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockDeviceRepo) Update(ctx context.Context, id int64, updates map[string]any) error {
	return m.Called(ctx, id, updates).Error(0)
}
func (m *mockDeviceRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockDeviceRepo) AssignHolder(ctx context.Context, id int64, username string) (bool, error) {
	args := m.Called(ctx, id, username)
	return args.Bool(0), args.Error(1)
}
func (m *mockDeviceRepo) ReleaseHolder(ctx context.Context, id int64, username string) (bool, error) {
	args := m.Called(ctx, id, username)
	return args.Bool(0), args.Error(1)
}

var _ repo.DeviceRepository = (*mockDeviceRepo)(nil)

// мок для repo.PhotoRepository
type mockPhotoRepo struct{ mock.Mock }

func (m *mockPhotoRepo) Save(ctx context.Context, field, originalName string, content io.Reader) (string, error) {
	args := m.Called(ctx, field, originalName, content)
	return args.String(0), args.Error(1)
}
func (m *mockPhotoRepo) Resolve(ref string) (string, error) {
	args := m.Called(ref)
	return args.String(0), args.Error(1)
}
func (m *mockPhotoRepo) Exists(ref string) bool {
	return m.Called(ref).Bool(0)
}
func (m *mockPhotoRepo) Remove(ref string) error {
	return m.Called(ref).Error(0)
}

var _ repo.PhotoRepository = (*mockPhotoRepo)(nil)

func strPtr(s string) *string { return &s }
