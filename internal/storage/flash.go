package storage

import (
	"sync"

	"nestboard/internal/domain"
	"nestboard/internal/port"
)

// FlashNotice is the one-shot cross-navigation mailbox: a single slot in the
// session tier holding at most one notice code. Set overwrites; TakeIfPresent
// is one atomic read-and-delete, so a notice is delivered at most once.
type FlashNotice struct {
	mu      sync.Mutex
	session port.Tier
}

// NewFlashNotice creates the mailbox over the session tier.
func NewFlashNotice(session port.Tier) *FlashNotice {
	return &FlashNotice{session: session}
}

// Set overwrites the slot with code. The producer must not be the consumer of
// its own write: a screen that sets a notice and then navigates leaves the
// read to the destination.
func (f *FlashNotice) Set(code domain.FlashCode) {
	if code == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_ = f.session.Set(keyFlash, string(code))
}

// TakeIfPresent returns the pending notice and empties the slot in the same
// operation. The second caller gets nothing.
func (f *FlashNotice) TakeIfPresent() (domain.FlashCode, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.session.Get(keyFlash)
	if !ok || v == "" {
		return "", false
	}
	_ = f.session.Delete(keyFlash)
	return domain.FlashCode(v), true
}
