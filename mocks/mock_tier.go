package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockTier is a mock implementation of port.Tier for failure-path tests;
// happy paths use storage.NewMemoryTier directly.
type MockTier struct {
	mock.Mock
}

func (m *MockTier) Get(key string) (string, bool) {
	args := m.Called(key)
	return args.String(0), args.Bool(1)
}

func (m *MockTier) Set(key, value string) error {
	args := m.Called(key, value)
	return args.Error(0)
}

func (m *MockTier) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}
