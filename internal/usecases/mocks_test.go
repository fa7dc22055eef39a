package usecases

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"whatsapp_crm/internal/entities"
)

type MockMessageStore struct {
	mock.Mock
}

func (m *MockMessageStore) Insert(ctx context.Context, msg *entities.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageStore) DueForFollowup(ctx context.Context, cutoff time.Time) ([]entities.Message, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Message), args.Error(1)
}

func (m *MockMessageStore) MarkFollowupSent(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMessageStore) ListByTenant(ctx context.Context, tenantID int64, interest entities.Interest) ([]entities.Message, error) {
	args := m.Called(ctx, tenantID, interest)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Message), args.Error(1)
}

func (m *MockMessageStore) CountByTenant(ctx context.Context, tenantID int64, interest entities.Interest) (int64, error) {
	args := m.Called(ctx, tenantID, interest)
	return args.Get(0).(int64), args.Error(1)
}

type MockStudentStore struct {
	mock.Mock
}

func (m *MockStudentStore) Create(ctx context.Context, s *entities.Student) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStudentStore) ListByTenant(ctx context.Context, tenantID int64) ([]entities.Student, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Student), args.Error(1)
}

func (m *MockStudentStore) CountByTenant(ctx context.Context, tenantID int64) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

type MockTenantStore struct {
	mock.Mock
}

func (m *MockTenantStore) Create(ctx context.Context, t *entities.Tenant) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTenantStore) GetByUsername(ctx context.Context, username string) (*entities.Tenant, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Tenant), args.Error(1)
}

func (m *MockTenantStore) GetByID(ctx context.Context, id int64) (*entities.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Tenant), args.Error(1)
}

func (m *MockTenantStore) GetByPhoneNumberID(ctx context.Context, phoneNumberID string) (*entities.Tenant, error) {
	args := m.Called(ctx, phoneNumberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Tenant), args.Error(1)
}

type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) SendText(ctx context.Context, to, body string) error {
	args := m.Called(ctx, to, body)
	return args.Error(0)
}

type MockTenantDirectory struct {
	mock.Mock
}

func (m *MockTenantDirectory) ResolveTenant(ctx context.Context, phoneNumberID string) (int64, error) {
	args := m.Called(ctx, phoneNumberID)
	return args.Get(0).(int64), args.Error(1)
}

type MockFallback struct {
	mock.Mock
}

func (m *MockFallback) GenerateFallback(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyLead(ctx context.Context, msg entities.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
