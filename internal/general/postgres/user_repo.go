package postgres

import (
	"context"
	"errors"
	"fmt"

	"kids-carpool/internal/domain/carpool"
	"kids-carpool/internal/domain/user"
	"kids-carpool/internal/ports"

	"github.com/jackc/pgx/v5"
)

// UserRepo persists user accounts using pgx and plain SQL.
type UserRepo struct{}

// NewUserRepo constructs a new UserRepo.
func NewUserRepo() ports.UserRepository {
	return &UserRepo{}
}

const userColumns = `
	id, created_at, updated_at, email, password_hash, full_name, phone,
	role, verification_status, background_check_completed`

// Create inserts a new user row.
func (repo *UserRepo) Create(ctx context.Context, u *user.User) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	return tx.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, full_name, phone, role, verification_status, background_check_completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`,
		u.Email,
		u.PasswordHash,
		u.FullName,
		u.Phone,
		u.Role.String(),
		u.VerificationStatus.String(),
		u.BackgroundCheckCompleted,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

// GetByID fetches a user by primary key.
func (repo *UserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	return repo.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail fetches a user by email address.
func (repo *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return repo.get(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// Exists reports whether a user row with the given id exists.
func (repo *UserRepo) Exists(ctx context.Context, id string) (bool, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return false, err
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

func (repo *UserRepo) get(ctx context.Context, query string, arg any) (*user.User, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var u user.User
	var role, verification string
	err = tx.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Email, &u.PasswordHash,
		&u.FullName, &u.Phone, &role, &verification, &u.BackgroundCheckCompleted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user", carpool.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.Role = user.Role(role)
	u.VerificationStatus = user.VerificationStatus(verification)
	return &u, nil
}
