package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrAccountNotFound signals that the account does not exist.
	ErrAccountNotFound = errors.New("auth: account not found")
	// ErrDuplicateEmail signals that the email is already registered.
	ErrDuplicateEmail = errors.New("auth: email already exists")
)

// Repository handles data access for accounts.
type Repository interface {
	CreateAccount(ctx context.Context, params CreateAccountParams) (Account, error)
	GetAccountByEmail(ctx context.Context, email string) (Account, error)
	GetAccountByID(ctx context.Context, accountID string) (Account, error)
	UpdateAccount(ctx context.Context, accountID string, params UpdateAccountParams) (Account, error)
	UpdatePasswordHash(ctx context.Context, accountID, passwordHash string) error
}

// CreateAccountParams contains write parameters for creating accounts.
type CreateAccountParams struct {
	Name         string
	Email        string
	PhoneNumber  string
	PasswordHash string
	Role         Role
}

// UpdateAccountParams carries partial profile fields; nil fields keep the
// stored value.
type UpdateAccountParams struct {
	Name        *string
	Email       *string
	PhoneNumber *string
	Location    *string
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed account repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const accountColumns = "id, name, email, phone_number, location, password_hash, role, created_at, updated_at"

// CreateAccount inserts a new account with hashed password.
func (r *PGRepository) CreateAccount(ctx context.Context, params CreateAccountParams) (Account, error) {
	const insertSQL = `
		INSERT INTO accounts (name, email, phone_number, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + accountColumns

	account, err := scanAccount(r.pool.QueryRow(ctx, insertSQL, params.Name, params.Email, params.PhoneNumber, params.PasswordHash, params.Role))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Account{}, ErrDuplicateEmail
		}
		return Account{}, fmt.Errorf("auth: create account: %w", err)
	}

	return account, nil
}

// GetAccountByEmail retrieves an account by email address.
func (r *PGRepository) GetAccountByEmail(ctx context.Context, email string) (Account, error) {
	const selectSQL = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = $1
	`

	account, err := scanAccount(r.pool.QueryRow(ctx, selectSQL, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("auth: get account by email: %w", err)
	}

	return account, nil
}

// GetAccountByID retrieves an account by ID.
func (r *PGRepository) GetAccountByID(ctx context.Context, accountID string) (Account, error) {
	const selectSQL = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1
	`

	account, err := scanAccount(r.pool.QueryRow(ctx, selectSQL, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("auth: get account by id: %w", err)
	}

	return account, nil
}

// UpdateAccount applies the supplied profile fields and returns the stored row.
// Nil fields are left untouched via COALESCE.
func (r *PGRepository) UpdateAccount(ctx context.Context, accountID string, params UpdateAccountParams) (Account, error) {
	const updateSQL = `
		UPDATE accounts
		SET name = COALESCE($2, name),
		    email = COALESCE($3, email),
		    phone_number = COALESCE($4, phone_number),
		    location = COALESCE($5, location),
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + accountColumns

	account, err := scanAccount(r.pool.QueryRow(ctx, updateSQL, accountID, params.Name, params.Email, params.PhoneNumber, params.Location))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Account{}, ErrDuplicateEmail
		}
		return Account{}, fmt.Errorf("auth: update account: %w", err)
	}

	return account, nil
}

// UpdatePasswordHash replaces the stored password hash.
func (r *PGRepository) UpdatePasswordHash(ctx context.Context, accountID, passwordHash string) error {
	const updateSQL = `
		UPDATE accounts
		SET password_hash = $2, updated_at = now()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, updateSQL, accountID, passwordHash)
	if err != nil {
		return fmt.Errorf("auth: update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (Account, error) {
	var (
		account  Account
		location *string
	)
	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PhoneNumber,
		&location,
		&account.PasswordHash,
		&account.Role,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return Account{}, err
	}

	account.Location = location
	return account, nil
}
