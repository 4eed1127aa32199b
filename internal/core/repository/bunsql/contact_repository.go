// Package bunsql stores contacts through bun, serving the SQLite and MySQL drivers.
package bunsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/duynhne/contact-service/internal/core/domain"
)

// contactRow is the contacts table. The address columns are all NULL when a contact has no address.
type contactRow struct {
	bun.BaseModel `bun:"table:contacts,alias:c"`

	ContactID int     `bun:"contact_id,pk,autoincrement"`
	Name      string  `bun:"name,notnull"`
	Email     string  `bun:"email,notnull"`
	Phone     string  `bun:"phone,notnull"`
	Line1     *string `bun:"line1"`
	Line2     *string `bun:"line2"`
	City      *string `bun:"city"`
	State     *string `bun:"state"`
	ZipCode   *string `bun:"zip_code"`
}

var schemas = map[dialect.Name]string{
	dialect.SQLite: `CREATE TABLE IF NOT EXISTS contacts (
	contact_id INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL DEFAULT '',
	phone      TEXT NOT NULL DEFAULT '',
	line1      TEXT,
	line2      TEXT,
	city       TEXT,
	state      TEXT,
	zip_code   TEXT
)`,
	dialect.MySQL: `CREATE TABLE IF NOT EXISTS contacts (
	contact_id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
	name       VARCHAR(255) NOT NULL,
	email      VARCHAR(255) NOT NULL DEFAULT '',
	phone      VARCHAR(32) NOT NULL DEFAULT '',
	line1      VARCHAR(255),
	line2      VARCHAR(255),
	city       VARCHAR(255),
	state      VARCHAR(2),
	zip_code   VARCHAR(16)
)`,
}

var filterColumns = map[string]bool{
	domain.ColumnContactID: true,
	domain.ColumnName:      true,
	domain.ColumnEmail:     true,
	domain.ColumnPhone:     true,
}

// ContactRepository implements domain.ContactRepository on a bun database.
type ContactRepository struct {
	db *bun.DB
}

func NewContactRepository(db *bun.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// EnsureSchema creates the contacts table when it does not exist yet.
func (r *ContactRepository) EnsureSchema(ctx context.Context) error {
	ddl, ok := schemas[r.db.Dialect().Name()]
	if !ok {
		return fmt.Errorf("no contacts schema for dialect %s", r.db.Dialect().Name())
	}
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create contacts table: %w", err)
	}
	return nil
}

func (r *ContactRepository) Add(ctx context.Context, contact *domain.Contact) error {
	row := toRow(0, contact)
	if _, err := r.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	contact.ContactID = row.ContactID
	return nil
}

func (r *ContactRepository) Find(ctx context.Context, id int) (*domain.Contact, error) {
	row := new(contactRow)
	err := r.db.NewSelect().Model(row).Where("? = ?", bun.Ident(domain.ColumnContactID), id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("find contact %d: %w", id, domain.ErrContactNotFound)
		}
		return nil, fmt.Errorf("find contact %d: %w", id, err)
	}
	return row.toEntity(), nil
}

func (r *ContactRepository) Update(ctx context.Context, id int, contact *domain.Contact) error {
	res, err := r.db.NewUpdate().Model(toRow(id, contact)).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update contact %d: %w", id, err)
	}
	return expectRow(res, fmt.Sprintf("update contact %d", id))
}

func (r *ContactRepository) Remove(ctx context.Context, id int) error {
	res, err := r.db.NewDelete().
		Model((*contactRow)(nil)).
		Where("? = ?", bun.Ident(domain.ColumnContactID), id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete contact %d: %w", id, err)
	}
	return expectRow(res, fmt.Sprintf("delete contact %d", id))
}

func (r *ContactRepository) Count(ctx context.Context, filter domain.ContactFilter) (int, error) {
	q, err := applyFilter(r.db.NewSelect().Model((*contactRow)(nil)), filter)
	if err != nil {
		return 0, err
	}
	total, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return total, nil
}

func (r *ContactRepository) List(ctx context.Context, filter domain.ContactFilter, offset, limit int) ([]*domain.Contact, error) {
	var rows []contactRow
	q, err := applyFilter(r.db.NewSelect().Model(&rows), filter)
	if err != nil {
		return nil, err
	}
	err = q.
		OrderExpr("? ASC", bun.Ident(domain.ColumnContactID)).
		Offset(offset).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}

	contacts := make([]*domain.Contact, 0, len(rows))
	for i := range rows {
		contacts = append(contacts, rows[i].toEntity())
	}
	return contacts, nil
}

// applyFilter ANDs every predicate onto q, threading the returned query through each step.
func applyFilter(q *bun.SelectQuery, filter domain.ContactFilter) (*bun.SelectQuery, error) {
	for _, p := range filter {
		if !filterColumns[p.Column] {
			return nil, fmt.Errorf("filter on unknown column %q", p.Column)
		}
		q = q.Where("? = ?", bun.Ident(p.Column), p.Value)
	}
	return q, nil
}

func expectRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrContactNotFound)
	}
	return nil
}

func toRow(id int, c *domain.Contact) *contactRow {
	row := &contactRow{
		ContactID: id,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
	}
	if a := c.Address; a != nil {
		row.Line1 = &a.Line1
		row.Line2 = &a.Line2
		row.City = &a.City
		row.State = &a.State
		row.ZipCode = &a.ZipCode
	}
	return row
}

func (row *contactRow) toEntity() *domain.Contact {
	contact := &domain.Contact{
		ContactID: row.ContactID,
		Name:      row.Name,
		Email:     row.Email,
		Phone:     row.Phone,
	}
	if row.Line1 != nil || row.Line2 != nil || row.City != nil || row.State != nil || row.ZipCode != nil {
		contact.Address = &domain.Address{
			Line1:   deref(row.Line1),
			Line2:   deref(row.Line2),
			City:    deref(row.City),
			State:   deref(row.State),
			ZipCode: deref(row.ZipCode),
		}
	}
	return contact
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
