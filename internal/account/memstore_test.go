package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	acct := Account{Name: "John Doe", Email: "john@example.com", Address: "123 Main St"}
	require.NoError(t, store.Create(ctx, &acct))
	require.EqualValues(t, 1, acct.ID)
	require.False(t, acct.DateJoined.IsZero())

	found, err := store.Get(ctx, acct.ID)
	require.NoError(t, err)
	require.Equal(t, acct, *found)

	acct.Name = "John Q. Doe"
	require.NoError(t, store.Update(ctx, &acct))

	found, err = store.Get(ctx, acct.ID)
	require.NoError(t, err)
	require.Equal(t, "John Q. Doe", found.Name)

	accounts, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)

	require.NoError(t, store.Delete(ctx, acct.ID))

	_, err = store.Get(ctx, acct.ID)
	require.ErrorIs(t, err, ErrNotFound)

	accounts, err = store.List(ctx)
	require.NoError(t, err)
	require.Empty(t, accounts)
}

func TestMemStoreUpdateUnknownID(t *testing.T) {
	store := NewMemStore()
	err := store.Update(context.Background(), &Account{ID: 42, Name: "ghost"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemStoreDeleteIsIdempotent(t *testing.T) {
	store := NewMemStore()
	require.NoError(t, store.Delete(context.Background(), 42))
}

func TestMemStoreListIsOrderedByID(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	for _, name := range []string{"a", "b", "c"} {
		acct := Account{Name: name, Email: name + "@example.com", Address: "x"}
		require.NoError(t, store.Create(ctx, &acct))
	}
	require.NoError(t, store.Delete(ctx, 2))

	accounts, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	require.Equal(t, "a", accounts[0].Name)
	require.Equal(t, "c", accounts[1].Name)
}
