package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nestboard/internal/domain"
	"nestboard/internal/storage"
	"nestboard/mocks"
)

func newStore() (*storage.TokenStore, *storage.MemoryTier, *storage.MemoryTier) {
	durable := storage.NewMemoryTier()
	session := storage.NewMemoryTier()
	return storage.NewTokenStore(durable, session), durable, session
}

func TestTokenStore_WriteAndRead(t *testing.T) {
	store, _, _ := newStore()

	cred := domain.Credential{Token: "tok-1", IssuedVia: domain.ProviderPassword}
	assert.NoError(t, store.Write(cred, domain.TierDurable))

	got, ok := store.Read()
	assert.True(t, ok)
	assert.Equal(t, cred, got)
}

func TestTokenStore_TierExclusivity(t *testing.T) {
	store, durable, session := newStore()

	first := domain.Credential{Token: "tok-durable", IssuedVia: domain.ProviderPassword}
	assert.NoError(t, store.Write(first, domain.TierDurable))

	// Writing the session tier must evict the durable copy, otherwise Read
	// (durable first) would resurrect the old session after a restart.
	second := domain.Credential{Token: "tok-session", IssuedVia: domain.ProviderGoogle}
	assert.NoError(t, store.Write(second, domain.TierSession))

	got, ok := store.Read()
	assert.True(t, ok)
	assert.Equal(t, second, got)

	_, inDurable := durable.Get("access_token")
	assert.False(t, inDurable)
	_, inSession := session.Get("access_token")
	assert.True(t, inSession)
}

func TestTokenStore_ClearRemovesBothTiersAndMarker(t *testing.T) {
	store, _, _ := newStore()

	assert.NoError(t, store.Write(domain.Credential{Token: "tok"}, domain.TierDurable))
	assert.NoError(t, store.WriteUsernameMarker("kim", domain.TierDurable))

	assert.NoError(t, store.Clear())

	_, ok := store.Read()
	assert.False(t, ok)
	_, ok = store.UsernameMarker()
	assert.False(t, ok)
}

func TestTokenStore_ClearKeepsSavedUsername(t *testing.T) {
	store, _, _ := newStore()

	assert.NoError(t, store.SaveUsername("kim"))
	assert.NoError(t, store.Write(domain.Credential{Token: "tok"}, domain.TierDurable))
	assert.NoError(t, store.Clear())

	saved, ok := store.SavedUsername()
	assert.True(t, ok)
	assert.Equal(t, "kim", saved)
}

func TestTokenStore_LinkTokenLifecycle(t *testing.T) {
	store, durable, _ := newStore()

	assert.NoError(t, store.WriteLinkToken("temp-1"))

	// Durable tier: the link flow must survive a restart.
	_, ok := durable.Get("social_temp_token")
	assert.True(t, ok)

	token, ok := store.LinkToken()
	assert.True(t, ok)
	assert.Equal(t, "temp-1", token)

	assert.NoError(t, store.DeleteLinkToken())
	_, ok = store.LinkToken()
	assert.False(t, ok)
}

func TestTokenStore_PendingConfirmation(t *testing.T) {
	store, _, _ := newStore()

	pending := domain.PendingConfirmation{
		Provider:    domain.ProviderNaver,
		DisplayName: "Kim",
		Email:       "kim@example.com",
	}
	assert.NoError(t, store.WritePendingConfirmation(pending))

	got, ok := store.PendingConfirmation()
	assert.True(t, ok)
	assert.Equal(t, pending, got)

	assert.NoError(t, store.DeletePendingConfirmation())
	_, ok = store.PendingConfirmation()
	assert.False(t, ok)
}

func TestTokenStore_WritePropagatesStorageError(t *testing.T) {
	durable := new(mocks.MockTier)
	durable.On("Set", "access_token", "tok").Return(assert.AnError)
	store := storage.NewTokenStore(durable, storage.NewMemoryTier())

	err := store.Write(domain.Credential{Token: "tok"}, domain.TierDurable)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestTokenStore_TakeReturnToIsOneShot(t *testing.T) {
	store, _, _ := newStore()

	assert.NoError(t, store.SetReturnTo(domain.RouteLinkAccount))

	route, ok := store.TakeReturnTo()
	assert.True(t, ok)
	assert.Equal(t, domain.RouteLinkAccount, route)

	_, ok = store.TakeReturnTo()
	assert.False(t, ok)
}

func TestTokenStore_TakeWelcomeNameIsOneShot(t *testing.T) {
	store, _, _ := newStore()

	assert.NoError(t, store.StashWelcomeName("Kim"))

	name, ok := store.TakeWelcomeName()
	assert.True(t, ok)
	assert.Equal(t, "Kim", name)

	_, ok = store.TakeWelcomeName()
	assert.False(t, ok)
}
