package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"cmrpai/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) RevokeSession(ctx context.Context, sessionID string, ttl time.Duration) error {
	args := m.Called(ctx, sessionID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsSessionRevoked(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

// MockNNARepository is a mock implementation of NNARepository.
type MockNNARepository struct {
	mock.Mock
}

func (m *MockNNARepository) Create(ctx context.Context, nna *model.NNA) error {
	args := m.Called(ctx, nna)
	return args.Error(0)
}

func (m *MockNNARepository) FindByID(ctx context.Context, id uint) (*model.NNA, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NNA), args.Error(1)
}

func (m *MockNNARepository) FindByNameAndNationalID(ctx context.Context, name, nationalID string) (*model.NNA, error) {
	args := m.Called(ctx, name, nationalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NNA), args.Error(1)
}

func (m *MockNNARepository) List(ctx context.Context) ([]model.NNA, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.NNA), args.Error(1)
}

func (m *MockNNARepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockAttentionRepository is a mock implementation of AttentionRepository.
type MockAttentionRepository struct {
	mock.Mock
}

func (m *MockAttentionRepository) Create(ctx context.Context, attention *model.Attention) error {
	args := m.Called(ctx, attention)
	return args.Error(0)
}

func (m *MockAttentionRepository) ListByNNA(ctx context.Context, nnaID uint) ([]model.Attention, error) {
	args := m.Called(ctx, nnaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Attention), args.Error(1)
}

func (m *MockAttentionRepository) CountSince(ctx context.Context, from time.Time) (int64, error) {
	args := m.Called(ctx, from)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAttentionRepository) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}
