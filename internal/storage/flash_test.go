package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nestboard/internal/domain"
	"nestboard/internal/storage"
)

func TestFlashNotice_DeliveredAtMostOnce(t *testing.T) {
	flash := storage.NewFlashNotice(storage.NewMemoryTier())

	flash.Set(domain.FlashSessionExpired)

	code, ok := flash.TakeIfPresent()
	assert.True(t, ok)
	assert.Equal(t, domain.FlashSessionExpired, code)

	_, ok = flash.TakeIfPresent()
	assert.False(t, ok)
}

func TestFlashNotice_SetOverwrites(t *testing.T) {
	flash := storage.NewFlashNotice(storage.NewMemoryTier())

	flash.Set(domain.FlashLinkRequired)
	flash.Set(domain.FlashSessionInvalid)

	code, ok := flash.TakeIfPresent()
	assert.True(t, ok)
	assert.Equal(t, domain.FlashSessionInvalid, code)
}

func TestFlashNotice_EmptyCodeIgnored(t *testing.T) {
	flash := storage.NewFlashNotice(storage.NewMemoryTier())

	flash.Set("")

	_, ok := flash.TakeIfPresent()
	assert.False(t, ok)
}
