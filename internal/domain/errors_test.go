package domain_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"nestboard/internal/domain"
)

func TestNewRateLimitError_DefaultsRetryAfter(t *testing.T) {
	err := domain.NewRateLimitError("AUTH_RATE_LIMITED", "slow down", 0, nil)
	assert.Equal(t, 60*time.Second, err.RetryAfter)
	assert.Equal(t, 429, err.Status)

	err = domain.NewRateLimitError("AUTH_RATE_LIMITED", "slow down", 30, nil)
	assert.Equal(t, 30*time.Second, err.RetryAfter)
}

func TestAPIError_KindHelpers(t *testing.T) {
	timeout := domain.NewTimeoutError()
	assert.True(t, domain.IsTimeout(timeout))
	assert.False(t, domain.IsNetwork(timeout))

	network := domain.NewNetworkError(fmt.Errorf("connection refused"))
	assert.True(t, domain.IsNetwork(network))
	assert.Contains(t, network.Error(), "connection refused")

	httpErr := domain.NewHTTPError(409, "USER_DUPLICATE_EMAIL", "taken", nil)
	assert.True(t, domain.IsHTTPStatus(httpErr, 409))
	assert.False(t, domain.IsHTTPStatus(httpErr, 401))
}

func TestAPIError_UnwrapsThroughWrapping(t *testing.T) {
	inner := domain.NewHTTPError(403, "FORBIDDEN", "no", nil)
	wrapped := fmt.Errorf("flow: %w", inner)

	apiErr, ok := domain.AsAPIError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, 403, apiErr.Status)
}
