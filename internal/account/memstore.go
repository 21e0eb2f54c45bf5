package account

import (
	"context"
	"sync"
)

// MemStore is an in-memory Store used by tests and local development.
type MemStore struct {
	mu       sync.Mutex
	accounts map[int64]Account
	nextID   int64
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{accounts: map[int64]Account{}, nextID: 1}
}

func (store *MemStore) Create(_ context.Context, account *Account) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if account.DateJoined.IsZero() {
		account.DateJoined = Today()
	}

	account.ID = store.nextID
	store.nextID++
	store.accounts[account.ID] = *account
	return nil
}

func (store *MemStore) List(context.Context) ([]Account, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	accounts := []Account{}
	for id := int64(1); id < store.nextID; id++ {
		if account, ok := store.accounts[id]; ok {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (store *MemStore) Get(_ context.Context, id int64) (*Account, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	account, ok := store.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &account, nil
}

func (store *MemStore) Update(_ context.Context, account *Account) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	current, ok := store.accounts[account.ID]
	if !ok {
		return ErrNotFound
	}

	account.DateJoined = current.DateJoined
	store.accounts[account.ID] = *account
	return nil
}

func (store *MemStore) Delete(_ context.Context, id int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.accounts, id)
	return nil
}
