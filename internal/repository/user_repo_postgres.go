package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxIface is the subset of *pgxpool.Pool used by the postgres repository.
type PgxIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

type postgresUserRepository struct {
	db PgxIface
}

// NewPostgresUserRepository creates a UserRepository backed by PostgreSQL
func NewPostgresUserRepository(db PgxIface) UserRepository {
	return &postgresUserRepository{db: db}
}

const selectUserColumns = `SELECT id::text, name, phone, password_hash, created_at, updated_at FROM users`

// Create inserts a new user into the database
func (r *postgresUserRepository) Create(ctx context.Context, user *model.User) error {
	id := uuid.New()
	sql := `INSERT INTO users (id, name, phone, password_hash, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, sql, id, user.Name, user.Phone, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicatePhone
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id.String()
	return nil
}

// FindByPhone retrieves a user by their phone number
func (r *postgresUserRepository) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	user, err := r.scanUser(r.db.QueryRow(ctx, selectUserColumns+` WHERE phone = $1`, phone))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find user by phone: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID
func (r *postgresUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	user, err := r.scanUser(r.db.QueryRow(ctx, selectUserColumns+` WHERE id = $1`, parsed))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *postgresUserRepository) scanUser(row pgx.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Phone, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
