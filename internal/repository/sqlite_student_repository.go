package repository

import (
	"context"
	"database/sql"
	"time"

	"whatsapp_crm/internal/entities"
)

type SQLiteStudentRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStudentRepository(db *sql.DB) *SQLiteStudentRepository {
	return &SQLiteStudentRepository{db: db, now: time.Now}
}

func (r *SQLiteStudentRepository) WithClock(now func() time.Time) *SQLiteStudentRepository {
	r.now = now
	return r
}

func (r *SQLiteStudentRepository) Create(ctx context.Context, s *entities.Student) error {
	s.CreatedAt = r.now().UTC().Truncate(time.Second)
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO students (tenant_id, name, phone, admission_date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.TenantID, s.Name, s.Phone, s.AdmissionDate, s.Notes, s.CreatedAt.Unix())
	if err != nil {
		return persistErr("insert student", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return persistErr("insert student id", err)
	}
	s.ID = id
	return nil
}

func (r *SQLiteStudentRepository) ListByTenant(ctx context.Context, tenantID int64) ([]entities.Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tenant_id, name, phone, admission_date, notes, created_at
		FROM students WHERE tenant_id = ?
		ORDER BY created_at DESC, id DESC
	`, tenantID)
	if err != nil {
		return nil, persistErr("list students", err)
	}
	defer rows.Close()

	students := []entities.Student{}
	for rows.Next() {
		var s entities.Student
		var created int64
		if err := rows.Scan(&s.ID, &s.TenantID, &s.Name, &s.Phone, &s.AdmissionDate, &s.Notes, &created); err != nil {
			return nil, persistErr("scan student", err)
		}
		s.CreatedAt = time.Unix(created, 0).UTC()
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate students", err)
	}
	return students, nil
}

func (r *SQLiteStudentRepository) CountByTenant(ctx context.Context, tenantID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM students WHERE tenant_id = ?", tenantID).Scan(&n); err != nil {
		return 0, persistErr("count students", err)
	}
	return n, nil
}
