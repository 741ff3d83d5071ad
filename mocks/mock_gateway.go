package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockGateway is a mock implementation of port.Gateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Get(ctx context.Context, path string) (any, error) {
	args := m.Called(ctx, path)
	return args.Get(0), args.Error(1)
}

func (m *MockGateway) Post(ctx context.Context, path string, body any) (any, error) {
	args := m.Called(ctx, path, body)
	return args.Get(0), args.Error(1)
}

func (m *MockGateway) Put(ctx context.Context, path string, body any) (any, error) {
	args := m.Called(ctx, path, body)
	return args.Get(0), args.Error(1)
}
