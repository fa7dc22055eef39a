package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"whatsapp_crm/internal/entities"
)

type SQLiteTenantRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteTenantRepository(db *sql.DB) *SQLiteTenantRepository {
	return &SQLiteTenantRepository{db: db, now: time.Now}
}

func (r *SQLiteTenantRepository) Create(ctx context.Context, t *entities.Tenant) error {
	t.CreatedAt = r.now().UTC().Truncate(time.Second)
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tenants (name, username, password_hash, phone_number_id, created_at)
		VALUES (?, ?, ?, NULLIF(?, ''), ?)
	`, t.Name, t.Username, t.PasswordHash, t.PhoneNumberID, t.CreatedAt.Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return entities.ErrConflict
		}
		return persistErr("insert tenant", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return persistErr("insert tenant id", err)
	}
	t.ID = id
	return nil
}

func (r *SQLiteTenantRepository) GetByUsername(ctx context.Context, username string) (*entities.Tenant, error) {
	return r.getOne(ctx, "SELECT "+tenantColumns+" FROM tenants WHERE username = ?", username)
}

func (r *SQLiteTenantRepository) GetByID(ctx context.Context, id int64) (*entities.Tenant, error) {
	return r.getOne(ctx, "SELECT "+tenantColumns+" FROM tenants WHERE id = ?", id)
}

func (r *SQLiteTenantRepository) GetByPhoneNumberID(ctx context.Context, phoneNumberID string) (*entities.Tenant, error) {
	return r.getOne(ctx, "SELECT "+tenantColumns+" FROM tenants WHERE phone_number_id = ?", phoneNumberID)
}

func (r *SQLiteTenantRepository) getOne(ctx context.Context, query string, arg interface{}) (*entities.Tenant, error) {
	var t entities.Tenant
	var created int64
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&t.ID, &t.Name, &t.Username, &t.PasswordHash, &t.PhoneNumberID, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, persistErr("get tenant", err)
	}
	t.CreatedAt = time.Unix(created, 0).UTC()
	return &t, nil
}
