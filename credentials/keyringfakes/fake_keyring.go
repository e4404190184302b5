package keyringfakes

import (
	"sync"

	"github.com/lmsdesk/go-admin-client/credentials"
)

var _ credentials.Keyring = (*FakeKeyring)(nil)

// FakeKeyring is an in-memory Keyring for tests.
type FakeKeyring struct {
	values map[string]string
	lock   sync.RWMutex

	// FailSets, when true, makes every Set return SetErr.
	FailSets bool
	SetErr   error
}

func NewFakeKeyring() *FakeKeyring {
	return &FakeKeyring{values: make(map[string]string)}
}

func (k *FakeKeyring) Get(key string) (string, bool, error) {
	k.lock.RLock()
	defer k.lock.RUnlock()
	v, ok := k.values[key]
	return v, ok, nil
}

func (k *FakeKeyring) Set(key, value string) error {
	k.lock.Lock()
	defer k.lock.Unlock()
	if k.FailSets {
		return k.SetErr
	}
	k.values[key] = value
	return nil
}

func (k *FakeKeyring) Delete(key string) error {
	k.lock.Lock()
	defer k.lock.Unlock()
	delete(k.values, key)
	return nil
}

// Len returns the number of stored keys.
func (k *FakeKeyring) Len() int {
	k.lock.RLock()
	defer k.lock.RUnlock()
	return len(k.values)
}
