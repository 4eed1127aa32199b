package psql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/duynhne/contact-service/internal/core/domain"
)

// DBTX is the subset of *pgxpool.Pool the repository needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const contactColumns = `contact_id, name, email, phone, line1, line2, city, state, zip_code`

const createContactsTable = `
CREATE TABLE IF NOT EXISTS contacts (
	contact_id SERIAL PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL DEFAULT '',
	phone      TEXT NOT NULL DEFAULT '',
	line1      TEXT,
	line2      TEXT,
	city       TEXT,
	state      TEXT,
	zip_code   TEXT
)`

// filterColumns lists the columns a ContactFilter may constrain.
var filterColumns = map[string]bool{
	domain.ColumnContactID: true,
	domain.ColumnName:      true,
	domain.ColumnEmail:     true,
	domain.ColumnPhone:     true,
}

// ContactRepository implements domain.ContactRepository using PostgreSQL
type ContactRepository struct {
	db DBTX
}

// NewContactRepository creates a new PostgreSQL contact repository
func NewContactRepository(db DBTX) *ContactRepository {
	return &ContactRepository{db: db}
}

// EnsureSchema creates the contacts table when it does not exist yet
func (r *ContactRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createContactsTable); err != nil {
		return fmt.Errorf("create contacts table: %w", err)
	}
	return nil
}

// Add inserts a contact and stores the generated identity on it
func (r *ContactRepository) Add(ctx context.Context, contact *domain.Contact) error {
	line1, line2, city, state, zip := addressColumns(contact.Address)

	query := `INSERT INTO contacts (name, email, phone, line1, line2, city, state, zip_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING contact_id`
	err := r.db.QueryRow(ctx, query,
		contact.Name, contact.Email, contact.Phone, line1, line2, city, state, zip,
	).Scan(&contact.ContactID)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// Find retrieves a contact by identity
func (r *ContactRepository) Find(ctx context.Context, id int) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE contact_id = $1`

	contact, err := scanContact(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("find contact %d: %w", id, domain.ErrContactNotFound)
		}
		return nil, fmt.Errorf("find contact %d: %w", id, err)
	}
	return contact, nil
}

// Update overwrites every mutable column of the contact with the given identity
func (r *ContactRepository) Update(ctx context.Context, id int, contact *domain.Contact) error {
	line1, line2, city, state, zip := addressColumns(contact.Address)

	query := `UPDATE contacts
		SET name = $1, email = $2, phone = $3, line1 = $4, line2 = $5, city = $6, state = $7, zip_code = $8
		WHERE contact_id = $9`
	tag, err := r.db.Exec(ctx, query,
		contact.Name, contact.Email, contact.Phone, line1, line2, city, state, zip, id,
	)
	if err != nil {
		return fmt.Errorf("update contact %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update contact %d: %w", id, domain.ErrContactNotFound)
	}
	return nil
}

// Remove deletes a contact by identity
func (r *ContactRepository) Remove(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contacts WHERE contact_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete contact %d: %w", id, domain.ErrContactNotFound)
	}
	return nil
}

// Count returns the number of contacts matching filter
func (r *ContactRepository) Count(ctx context.Context, filter domain.ContactFilter) (int, error) {
	where, args, err := buildWhere(filter)
	if err != nil {
		return 0, err
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contacts`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return total, nil
}

// List returns at most limit contacts matching filter, ordered by identity, starting at offset
func (r *ContactRepository) List(ctx context.Context, filter domain.ContactFilter, offset, limit int) ([]*domain.Contact, error) {
	where, args, err := buildWhere(filter)
	if err != nil {
		return nil, err
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM contacts%s ORDER BY contact_id LIMIT $%d OFFSET $%d`,
		contactColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	// limit comes from the caller's page size, so it is not a safe capacity hint
	var contacts []*domain.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact row: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contact rows: %w", err)
	}
	return contacts, nil
}

// buildWhere renders filter as " WHERE col = $1 AND ..." with positional args.
// An empty filter renders nothing.
func buildWhere(filter domain.ContactFilter) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}

	clauses := make([]string, 0, len(filter))
	args := make([]any, 0, len(filter))
	for _, p := range filter {
		if !filterColumns[p.Column] {
			return "", nil, fmt.Errorf("filter on unknown column %q", p.Column)
		}
		args = append(args, p.Value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", p.Column, len(args)))
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func scanContact(row pgx.Row) (*domain.Contact, error) {
	var (
		contact                        domain.Contact
		line1, line2, city, state, zip *string
	)
	if err := row.Scan(
		&contact.ContactID,
		&contact.Name,
		&contact.Email,
		&contact.Phone,
		&line1, &line2, &city, &state, &zip,
	); err != nil {
		return nil, err
	}
	contact.Address = addressFromColumns(line1, line2, city, state, zip)
	return &contact, nil
}

// addressColumns flattens an address into nullable columns; a nil address is all NULLs.
func addressColumns(a *domain.Address) (line1, line2, city, state, zip *string) {
	if a == nil {
		return nil, nil, nil, nil, nil
	}
	return &a.Line1, &a.Line2, &a.City, &a.State, &a.ZipCode
}

// addressFromColumns is the inverse of addressColumns.
func addressFromColumns(line1, line2, city, state, zip *string) *domain.Address {
	if line1 == nil && line2 == nil && city == nil && state == nil && zip == nil {
		return nil
	}
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return &domain.Address{
		Line1:   deref(line1),
		Line2:   deref(line2),
		City:    deref(city),
		State:   deref(state),
		ZipCode: deref(zip),
	}
}
