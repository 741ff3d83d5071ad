package mocks

import (
	"github.com/stretchr/testify/mock"

	"nestboard/internal/domain"
)

// MockNavigator is a mock implementation of port.Navigator.
type MockNavigator struct {
	mock.Mock
}

func (m *MockNavigator) Navigate(to domain.Route) {
	m.Called(to)
}

func (m *MockNavigator) OpenExternal(rawURL string) {
	m.Called(rawURL)
}
