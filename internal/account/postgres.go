package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists accounts in the database the deployment's env
// contract points at. The connection string is the DATABASE_URI the
// container runtime composes at pod start.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(ctx context.Context, uri string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (store *PostgresStore) Close() { store.pool.Close() }

func (store *PostgresStore) Init(ctx context.Context) error {
	_, err := store.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS accounts (
			id           BIGSERIAL PRIMARY KEY,
			name         TEXT NOT NULL,
			email        TEXT NOT NULL,
			address      TEXT NOT NULL,
			phone_number TEXT NOT NULL DEFAULT '',
			date_joined  DATE NOT NULL DEFAULT CURRENT_DATE
		)`,
	)
	if err != nil {
		return fmt.Errorf("failed to create accounts table: %w", err)
	}
	return nil
}

func (store *PostgresStore) Create(ctx context.Context, account *Account) error {
	if account.DateJoined.IsZero() {
		account.DateJoined = Today()
	}

	err := store.pool.
		QueryRow(
			ctx,
			`INSERT INTO accounts (name, email, address, phone_number, date_joined)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			account.Name, account.Email, account.Address, account.PhoneNumber, account.DateJoined.Time,
		).
		Scan(&account.ID)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (store *PostgresStore) List(ctx context.Context) ([]Account, error) {
	rows, err := store.pool.Query(
		ctx,
		`SELECT id, name, email, address, phone_number, date_joined FROM accounts ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}

	return accounts, rows.Err()
}

func (store *PostgresStore) Get(ctx context.Context, id int64) (*Account, error) {
	row := store.pool.QueryRow(
		ctx,
		`SELECT id, name, email, address, phone_number, date_joined FROM accounts WHERE id = $1`,
		id,
	)

	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return account, err
}

func (store *PostgresStore) Update(ctx context.Context, account *Account) error {
	tag, err := store.pool.Exec(
		ctx,
		`UPDATE accounts SET name = $1, email = $2, address = $3, phone_number = $4 WHERE id = $5`,
		account.Name, account.Email, account.Address, account.PhoneNumber, account.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (store *PostgresStore) Delete(ctx context.Context, id int64) error {
	if _, err := store.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

func scanAccount(row pgx.Row) (*Account, error) {
	var (
		account Account
		joined  time.Time
	)
	if err := row.Scan(&account.ID, &account.Name, &account.Email, &account.Address, &account.PhoneNumber, &joined); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	account.DateJoined = DateOf(joined)
	return &account, nil
}
