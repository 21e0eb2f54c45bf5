package account

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("account not found")

type Store interface {
	Create(ctx context.Context, account *Account) error
	List(ctx context.Context) ([]Account, error)
	Get(ctx context.Context, id int64) (*Account, error)
	Update(ctx context.Context, account *Account) error
	Delete(ctx context.Context, id int64) error
}
