package iocache

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/schema"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetDocumentStore implements the StoreManager interface.
func (m *MockStoreManager) GetDocumentStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetCreditStore implements the StoreManager interface.
func (m *MockStoreManager) GetCreditStore() contract.CreditStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CreditStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockCreditStore is a mock implementation of CreditStore for testing.
type MockCreditStore struct {
	mock.Mock
}

var _ contract.CreditStore = &MockCreditStore{} // Compile-time check

// Get implements the CreditStore interface.
func (m *MockCreditStore) Get(ctx context.Context, student, goalID string) (bool, error) {
	args := m.Called(ctx, student, goalID)
	return args.Bool(0), args.Error(1)
}

// Set implements the CreditStore interface.
func (m *MockCreditStore) Set(ctx context.Context, student, goalID string, credited bool) error {
	args := m.Called(ctx, student, goalID, credited)
	return args.Error(0)
}

// List implements the CreditStore interface.
func (m *MockCreditStore) List(ctx context.Context) ([]schema.CreditFlag, error) {
	args := m.Called(ctx)
	flags, _ := args.Get(0).([]schema.CreditFlag)
	return flags, args.Error(1)
}

// GetStatus implements the CreditStore interface.
func (m *MockCreditStore) GetStatus() (schema.CreditStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CreditStatus), args.Error(1)
}

// Close implements the CreditStore interface.
func (m *MockCreditStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
