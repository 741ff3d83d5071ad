package gateway_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nestboard/internal/domain"
	"nestboard/internal/gateway"
	"nestboard/internal/storage"
	"nestboard/mocks"
)

type fixture struct {
	client *gateway.Client
	tokens *storage.TokenStore
	flash  *storage.FlashNotice
	nav    *mocks.MockNavigator
	server *httptest.Server
}

func newFixture(t *testing.T, h http.HandlerFunc) *fixture {
	t.Helper()

	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	tokens := storage.NewTokenStore(storage.NewMemoryTier(), storage.NewMemoryTier())
	flash := storage.NewFlashNotice(storage.NewMemoryTier())
	nav := new(mocks.MockNavigator)
	nav.On("Navigate", mock.Anything).Maybe()

	return &fixture{
		client: gateway.NewClient(server.URL, 2*time.Second, tokens, flash, nav),
		tokens: tokens,
		flash:  flash,
		nav:    nav,
		server: server,
	}
}

func TestClient_Get_ParsesJSONBody(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"data":{"username":"kim"}}`))
	})

	body, err := f.client.Get(context.Background(), "/api/users/me")
	require.NoError(t, err)

	m, ok := body.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, m["ok"])
}

func TestClient_TextBodyThatIsJSONGetsPromoted(t *testing.T) {
	// Some proxies rewrite error bodies to text/plain; the server code inside
	// must still be readable.
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"USER_DUPLICATE_NAME","message":"taken"}`))
	})

	_, err := f.client.Post(context.Background(), "/api/auth/signup", map[string]string{})

	apiErr, ok := domain.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "USER_DUPLICATE_NAME", apiErr.Code)
	assert.Equal(t, "taken", apiErr.Message)
}

func TestClient_AttachesBearerOnlyWhenStored(t *testing.T) {
	var gotAuth string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	})

	_, err := f.client.Get(context.Background(), "/api/posts")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)

	require.NoError(t, f.tokens.Write(domain.Credential{Token: "tok-1"}, domain.TierDurable))
	_, err = f.client.Get(context.Background(), "/api/posts")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
}

func TestClient_SetsRequestID(t *testing.T) {
	var gotID string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusOK)
	})

	_, err := f.client.Get(context.Background(), "/api/posts")
	require.NoError(t, err)
	assert.NotEmpty(t, gotID)
}

func TestClient_LoginUnauthorized_NoRedirect(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"AUTH_UNAUTHORIZED","message":"bad credentials"}`))
	})
	// A stale credential from a previous session must not survive the failed
	// login attempt.
	require.NoError(t, f.tokens.Write(domain.Credential{Token: "stale"}, domain.TierDurable))

	_, err := f.client.Post(context.Background(), "/api/auth/login", map[string]string{"username": "kim"})

	assert.False(t, errors.Is(err, domain.ErrSessionEnded))
	assert.True(t, domain.IsHTTPStatus(err, http.StatusUnauthorized))

	_, ok := f.tokens.Read()
	assert.False(t, ok)
	_, hasFlash := f.flash.TakeIfPresent()
	assert.False(t, hasFlash)
	f.nav.AssertNotCalled(t, "Navigate", mock.Anything)
}

func TestClient_UnauthorizedElsewhere_EndsSession(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"AUTH_EXPIRED_TOKEN","message":"expired"}`))
	})
	require.NoError(t, f.tokens.Write(domain.Credential{Token: "tok"}, domain.TierDurable))

	_, err := f.client.Get(context.Background(), "/api/users/me")

	assert.ErrorIs(t, err, domain.ErrSessionEnded)
	_, ok := f.tokens.Read()
	assert.False(t, ok)

	code, ok := f.flash.TakeIfPresent()
	assert.True(t, ok)
	assert.Equal(t, domain.FlashSessionExpired, code)

	f.nav.AssertCalled(t, "Navigate", domain.RouteLogin)
	f.nav.AssertNumberOfCalls(t, "Navigate", 1)
}

func TestClient_UnauthorizedWithUnknownCode_FallbackFlash(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := f.client.Get(context.Background(), "/api/posts")

	assert.ErrorIs(t, err, domain.ErrSessionEnded)
	code, ok := f.flash.TakeIfPresent()
	assert.True(t, ok)
	assert.Equal(t, domain.FlashFallback, code)
}

func TestClient_ForbiddenWithTokenCode_EndsSession(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"code":"AUTH_INVALID_TOKEN","message":"bad token"}`))
	})
	require.NoError(t, f.tokens.Write(domain.Credential{Token: "tok"}, domain.TierSession))

	_, err := f.client.Get(context.Background(), "/api/posts")

	assert.ErrorIs(t, err, domain.ErrSessionEnded)
	code, ok := f.flash.TakeIfPresent()
	assert.True(t, ok)
	assert.Equal(t, domain.FlashSessionInvalid, code)
	f.nav.AssertCalled(t, "Navigate", domain.RouteLogin)
}

func TestClient_PlainForbidden_SurfacesToCaller(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"code":"POST_NOT_OWNER","message":"not yours"}`))
	})
	require.NoError(t, f.tokens.Write(domain.Credential{Token: "tok"}, domain.TierSession))

	_, err := f.client.Get(context.Background(), "/api/posts/7")

	assert.False(t, errors.Is(err, domain.ErrSessionEnded))
	apiErr, ok := domain.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "POST_NOT_OWNER", apiErr.Code)

	_, stillStored := f.tokens.Read()
	assert.True(t, stillStored)
	f.nav.AssertNotCalled(t, "Navigate", mock.Anything)
}

func TestClient_Conflict_NeverRedirects(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"USER_DUPLICATE_EMAIL","message":"taken"}`))
	})

	_, err := f.client.Post(context.Background(), "/api/auth/signup", map[string]string{})

	apiErr, ok := domain.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "USER_DUPLICATE_EMAIL", apiErr.Code)
	f.nav.AssertNotCalled(t, "Navigate", mock.Anything)
}

func TestClient_RateLimited_UsesRetryAfterHeader(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := f.client.Post(context.Background(), "/api/auth/email/send", map[string]string{})

	apiErr, ok := domain.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.Equal(t, 30*time.Second, apiErr.RetryAfter)
}

func TestClient_RateLimited_DefaultsWithoutHint(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := f.client.Post(context.Background(), "/api/auth/email/send", map[string]string{})

	apiErr, ok := domain.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 60*time.Second, apiErr.RetryAfter)
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	t.Cleanup(server.Close)

	tokens := storage.NewTokenStore(storage.NewMemoryTier(), storage.NewMemoryTier())
	flash := storage.NewFlashNotice(storage.NewMemoryTier())
	nav := new(mocks.MockNavigator)
	client := gateway.NewClient(server.URL, 50*time.Millisecond, tokens, flash, nav)

	_, err := client.Get(context.Background(), "/api/posts")
	assert.True(t, domain.IsTimeout(err))
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	tokens := storage.NewTokenStore(storage.NewMemoryTier(), storage.NewMemoryTier())
	flash := storage.NewFlashNotice(storage.NewMemoryTier())
	nav := new(mocks.MockNavigator)
	client := gateway.NewClient(url, time.Second, tokens, flash, nav)

	_, err := client.Get(context.Background(), "/api/posts")
	assert.True(t, domain.IsNetwork(err))
}

func TestExtractToken(t *testing.T) {
	token, ok := gateway.ExtractToken(map[string]any{"token": "t-1"})
	assert.True(t, ok)
	assert.Equal(t, "t-1", token)

	token, ok = gateway.ExtractToken(map[string]any{"data": map[string]any{"accessToken": "t-2"}})
	assert.True(t, ok)
	assert.Equal(t, "t-2", token)

	_, ok = gateway.ExtractToken(map[string]any{"ok": true})
	assert.False(t, ok)

	_, ok = gateway.ExtractToken(nil)
	assert.False(t, ok)
}
