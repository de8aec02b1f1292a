package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/contactbook/internal/domain/user"
	"github.com/geocoder89/contactbook/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *UsersRepo) Create(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
	var u user.User

	err := r.observe("users.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO users (name, gender, phone, email, password_hash, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			 RETURNING id, name, gender, phone, email, password_hash, created_at, updated_at`,
			req.Name, req.Gender, req.Phone, req.Email, req.PasswordHash,
		).Scan(
			&u.ID,
			&u.Name,
			&u.Gender,
			&u.Phone,
			&u.Email,
			&u.PasswordHash,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.User{}, user.ErrEmailTaken
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_email", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, name, gender, phone, email, password_hash, created_at, updated_at
			 FROM users
			 WHERE email = $1`,
			email,
		).Scan(
			&u.ID,
			&u.Name,
			&u.Gender,
			&u.Phone,
			&u.Email,
			&u.PasswordHash,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_id", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, name, gender, phone, email, password_hash, created_at, updated_at
			 FROM users
			 WHERE id = $1`,
			id,
		).Scan(
			&u.ID,
			&u.Name,
			&u.Gender,
			&u.Phone,
			&u.Email,
			&u.PasswordHash,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

// UpdatePassword overwrites the stored hash for the account with the given
// email. The caller has already hashed the new password.
func (r *UsersRepo) UpdatePassword(ctx context.Context, email, newHash string) error {
	var tag pgconn.CommandTag

	err := r.observe("users.update_password", func() error {
		var execErr error
		tag, execErr = r.pool.Exec(ctx,
			`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE email = $2`,
			newHash, email,
		)
		return execErr
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}

	return nil
}

func (r *UsersRepo) UpdateProfile(ctx context.Context, id int64, req user.UpdateProfileRequest) (user.User, error) {
	var u user.User

	err := r.observe("users.update_profile", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE users
				SET name = $2,
					gender = $3,
					phone = $4,
					email = $5,
					updated_at = NOW()
			 WHERE id = $1
			 RETURNING id, name, gender, phone, email, password_hash, created_at, updated_at`,
			id,
			req.Name,
			req.Gender,
			req.Phone,
			req.Email,
		).Scan(
			&u.ID,
			&u.Name,
			&u.Gender,
			&u.Phone,
			&u.Email,
			&u.PasswordHash,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.User{}, user.ErrEmailTaken
		}

		return user.User{}, err
	}

	return u, nil
}

// Profile returns the user row plus the number of contacts it owns.
func (r *UsersRepo) Profile(ctx context.Context, id int64) (user.Profile, error) {
	var p user.Profile

	err := r.observe("users.profile", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id,
				name,
				gender,
				phone,
				email,
				created_at,
				updated_at,
				(SELECT COUNT(*) FROM contacts WHERE user_id = users.id) AS contacts
			 FROM users
			 WHERE id = $1`,
			id,
		).Scan(
			&p.ID,
			&p.Name,
			&p.Gender,
			&p.Phone,
			&p.Email,
			&p.CreatedAt,
			&p.UpdatedAt,
			&p.Contacts,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Profile{}, user.ErrNotFound
		}

		return user.Profile{}, err
	}

	return p, nil
}
