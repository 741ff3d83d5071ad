package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nestboard/internal/domain"
	"nestboard/internal/service"
	"nestboard/mocks"
)

func newRecoveryFixture() (service.RecoveryService, *mocks.MockGateway, *mocks.MockNavigator) {
	gw := new(mocks.MockGateway)
	nav := new(mocks.MockNavigator)
	nav.On("Navigate", mock.Anything).Maybe()
	return service.NewRecoveryService(gw, nav), gw, nav
}

func TestRecoveryService_FindUsername(t *testing.T) {
	svc, gw, _ := newRecoveryFixture()
	gw.On("Post", mock.Anything, "/api/auth/find-username", map[string]string{
		"email": "kim@example.com",
	}).Return(map[string]any{"data": map[string]any{"username": "kim"}}, nil)

	username, err := svc.FindUsername(context.Background(), "kim@example.com")
	require.NoError(t, err)
	assert.Equal(t, "kim", username)
}

func TestRecoveryService_VerifyUser_ReturnsResetToken(t *testing.T) {
	svc, gw, _ := newRecoveryFixture()
	gw.On("Post", mock.Anything, "/api/auth/verify-user", map[string]string{
		"username": "kim",
		"email":    "kim@example.com",
	}).Return(map[string]any{"resetToken": "reset-1"}, nil)

	token, err := svc.VerifyUser(context.Background(), "kim", "kim@example.com")
	require.NoError(t, err)
	assert.Equal(t, "reset-1", token)
}

func TestRecoveryService_VerifyUser_NoToken(t *testing.T) {
	svc, gw, _ := newRecoveryFixture()
	gw.On("Post", mock.Anything, "/api/auth/verify-user", mock.Anything).
		Return(map[string]any{"ok": true}, nil)

	_, err := svc.VerifyUser(context.Background(), "kim", "kim@example.com")
	assert.ErrorIs(t, err, domain.ErrNoTokenInResponse)
}

func TestRecoveryService_ResetPassword_NavigatesToLogin(t *testing.T) {
	svc, gw, nav := newRecoveryFixture()
	gw.On("Put", mock.Anything, "/api/auth/reset-password", map[string]string{
		"resetToken":  "reset-1",
		"newPassword": "new-pw",
	}).Return(map[string]any{"ok": true}, nil)

	err := svc.ResetPassword(context.Background(), "reset-1", "new-pw")
	require.NoError(t, err)

	nav.AssertCalled(t, "Navigate", domain.RouteLogin)
}

func TestRecoveryService_MissingInput(t *testing.T) {
	svc, _, _ := newRecoveryFixture()

	_, err := svc.FindUsername(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrMissingInput)

	err = svc.ResetPassword(context.Background(), "", "pw")
	assert.ErrorIs(t, err, domain.ErrMissingInput)
}
