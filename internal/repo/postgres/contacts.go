package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/contactbook/internal/domain/contact"
	"github.com/geocoder89/contactbook/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ContactsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewContactsRepo(pool *pgxpool.Pool, prom *observability.Prom) *ContactsRepo {
	return &ContactsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *ContactsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// optional text columns come back as '' rather than NULL
const contactColumns = `id,
	contact_name,
	contact_phone,
	COALESCE(contact_email, ''),
	COALESCE(contact_address, ''),
	contact_gender,
	contact_favorite,
	user_id,
	created_at,
	updated_at`

func scanContact(row pgx.Row) (contact.Contact, error) {
	var c contact.Contact

	err := row.Scan(
		&c.ID,
		&c.ContactName,
		&c.ContactPhone,
		&c.ContactEmail,
		&c.ContactAddress,
		&c.ContactGender,
		&c.ContactFavorite,
		&c.UserID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	return c, err
}

// Create inserts the contact and returns the stored row. RETURNING means the
// caller gets the generated id and timestamps without a follow-up read.
func (r *ContactsRepo) Create(ctx context.Context, req contact.CreateContactRequest) (contact.Contact, error) {
	var c contact.Contact

	err := r.observe("contacts.create", func() error {
		var scanErr error
		c, scanErr = scanContact(r.pool.QueryRow(ctx,
			`INSERT INTO contacts
				(contact_name, contact_phone, contact_email, contact_address, contact_gender, contact_favorite, user_id, created_at, updated_at)
			 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, NOW(), NOW())
			 RETURNING `+contactColumns,
			req.ContactName,
			req.ContactPhone,
			req.ContactEmail,
			req.ContactAddress,
			req.ContactGender,
			req.ContactFavorite,
			req.UserID,
		))
		return scanErr
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "contacts_user_phone_uniq" {
			return contact.Contact{}, contact.ErrDuplicatePhone
		}

		return contact.Contact{}, err
	}

	return c, nil
}

// ListByUser returns every contact owned by the user. A user with no
// contacts gets an empty slice, not an error.
func (r *ContactsRepo) ListByUser(ctx context.Context, userID int64) ([]contact.Contact, error) {
	var rows pgx.Rows

	err := r.observe("contacts.list_by_user", func() error {
		var qerr error
		rows, qerr = r.pool.Query(ctx,
			`SELECT `+contactColumns+`
			 FROM contacts
			 WHERE user_id = $1
			 ORDER BY contact_name ASC, id ASC`,
			userID,
		)
		return qerr
	})

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	out := make([]contact.Contact, 0)

	for rows.Next() {
		c, scanErr := scanContact(rows)

		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, c)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return out, nil
}

// GetByPhoneAndUser is the duplicate pre-check for add-contact.
func (r *ContactsRepo) GetByPhoneAndUser(ctx context.Context, phone string, userID int64) (contact.Contact, error) {
	var c contact.Contact

	err := r.observe("contacts.get_by_phone_and_user", func() error {
		var scanErr error
		c, scanErr = scanContact(r.pool.QueryRow(ctx,
			`SELECT `+contactColumns+`
			 FROM contacts
			 WHERE contact_phone = $1 AND user_id = $2`,
			phone, userID,
		))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return contact.Contact{}, contact.ErrNotFound
		}

		return contact.Contact{}, err
	}

	return c, nil
}

func (r *ContactsRepo) GetByID(ctx context.Context, id, userID int64) (contact.Contact, error) {
	var c contact.Contact

	err := r.observe("contacts.get_by_id", func() error {
		var scanErr error
		c, scanErr = scanContact(r.pool.QueryRow(ctx,
			`SELECT `+contactColumns+`
			 FROM contacts
			 WHERE id = $1 AND user_id = $2`,
			id, userID,
		))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return contact.Contact{}, contact.ErrNotFound
		}

		return contact.Contact{}, err
	}

	return c, nil
}

// Update applies the set fields of the patch to the row matching (id,
// user_id). Zero rows matched collapses "missing" and "owned by someone
// else" into ErrNotFound, which is all the handler needs.
func (r *ContactsRepo) Update(ctx context.Context, id, userID int64, req contact.UpdateContactRequest) (contact.Contact, error) {
	if !req.HasChanges() {
		return contact.Contact{}, fmt.Errorf("no fields to update")
	}

	var sets []string
	var args []interface{}

	pos := 1

	add := func(column string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, pos))
		args = append(args, val)
		pos++
	}

	if req.ContactName != nil {
		add("contact_name", *req.ContactName)
	}
	if req.ContactPhone != nil {
		add("contact_phone", *req.ContactPhone)
	}
	if req.ContactEmail != nil {
		add("contact_email", *req.ContactEmail)
	}
	if req.ContactAddress != nil {
		add("contact_address", *req.ContactAddress)
	}
	if req.ContactGender != nil {
		add("contact_gender", *req.ContactGender)
	}
	if req.ContactFavorite != nil {
		add("contact_favorite", *req.ContactFavorite)
	}

	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(
		`UPDATE contacts SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), pos, pos+1, contactColumns,
	)

	args = append(args, id, userID)

	var c contact.Contact

	err := r.observe("contacts.update", func() error {
		var scanErr error
		c, scanErr = scanContact(r.pool.QueryRow(ctx, query, args...))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return contact.Contact{}, contact.ErrNotFound
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "contacts_user_phone_uniq" {
			return contact.Contact{}, contact.ErrDuplicatePhone
		}

		return contact.Contact{}, err
	}

	return c, nil
}

func (r *ContactsRepo) Delete(ctx context.Context, id, userID int64) error {
	var tag pgconn.CommandTag

	err := r.observe("contacts.delete", func() error {
		var execErr error
		tag, execErr = r.pool.Exec(ctx,
			`DELETE FROM contacts WHERE id = $1 AND user_id = $2`,
			id, userID,
		)
		return execErr
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return contact.ErrNotFound
	}

	return nil
}
