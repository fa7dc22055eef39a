package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"whatsapp_crm/internal/entities"
)

type TenantRepository struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewTenantRepository(db *pgxpool.Pool) *TenantRepository {
	return &TenantRepository{db: db, now: time.Now}
}

func (r *TenantRepository) Create(ctx context.Context, t *entities.Tenant) error {
	t.CreatedAt = r.now().UTC()
	err := r.db.QueryRow(ctx, `
		INSERT INTO tenants (name, username, password_hash, phone_number_id, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		RETURNING id
	`, t.Name, t.Username, t.PasswordHash, t.PhoneNumberID, t.CreatedAt).Scan(&t.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return entities.ErrConflict
		}
		return persistErr("insert tenant", err)
	}
	return nil
}

const tenantColumns = "id, name, username, password_hash, COALESCE(phone_number_id, ''), created_at"

func (r *TenantRepository) GetByUsername(ctx context.Context, username string) (*entities.Tenant, error) {
	return r.getOne(ctx, "SELECT "+tenantColumns+" FROM tenants WHERE username = $1", username)
}

func (r *TenantRepository) GetByID(ctx context.Context, id int64) (*entities.Tenant, error) {
	return r.getOne(ctx, "SELECT "+tenantColumns+" FROM tenants WHERE id = $1", id)
}

func (r *TenantRepository) GetByPhoneNumberID(ctx context.Context, phoneNumberID string) (*entities.Tenant, error) {
	return r.getOne(ctx, "SELECT "+tenantColumns+" FROM tenants WHERE phone_number_id = $1", phoneNumberID)
}

func (r *TenantRepository) getOne(ctx context.Context, query string, arg interface{}) (*entities.Tenant, error) {
	var t entities.Tenant
	err := r.db.QueryRow(ctx, query, arg).Scan(&t.ID, &t.Name, &t.Username, &t.PasswordHash, &t.PhoneNumberID, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, persistErr("get tenant", err)
	}
	return &t, nil
}
