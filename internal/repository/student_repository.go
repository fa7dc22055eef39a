package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"whatsapp_crm/internal/entities"
)

type StudentRepository struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db, now: time.Now}
}

func (r *StudentRepository) Create(ctx context.Context, s *entities.Student) error {
	s.CreatedAt = r.now().UTC()
	err := r.db.QueryRow(ctx, `
		INSERT INTO students (tenant_id, name, phone, admission_date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, s.TenantID, s.Name, s.Phone, s.AdmissionDate, s.Notes, s.CreatedAt).Scan(&s.ID)
	if err != nil {
		return persistErr("insert student", err)
	}
	return nil
}

func (r *StudentRepository) ListByTenant(ctx context.Context, tenantID int64) ([]entities.Student, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, tenant_id, name, phone, admission_date, notes, created_at
		FROM students WHERE tenant_id = $1
		ORDER BY created_at DESC, id DESC
	`, tenantID)
	if err != nil {
		return nil, persistErr("list students", err)
	}
	defer rows.Close()

	students := []entities.Student{}
	for rows.Next() {
		var s entities.Student
		if err := rows.Scan(&s.ID, &s.TenantID, &s.Name, &s.Phone, &s.AdmissionDate, &s.Notes, &s.CreatedAt); err != nil {
			return nil, persistErr("scan student", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate students", err)
	}
	return students, nil
}

func (r *StudentRepository) CountByTenant(ctx context.Context, tenantID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM students WHERE tenant_id = $1", tenantID).Scan(&n); err != nil {
		return 0, persistErr("count students", err)
	}
	return n, nil
}
