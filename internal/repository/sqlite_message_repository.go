package repository

import (
	"context"
	"database/sql"
	"time"

	"whatsapp_crm/internal/entities"
)

// SQLiteMessageRepository is the SQLite-backed lead log.
// created_at is stored as unix milliseconds so follow-up cutoffs compare exactly.
type SQLiteMessageRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteMessageRepository(db *sql.DB) *SQLiteMessageRepository {
	return &SQLiteMessageRepository{db: db, now: time.Now}
}

// WithClock overrides the time source used for created_at.
func (r *SQLiteMessageRepository) WithClock(now func() time.Time) *SQLiteMessageRepository {
	r.now = now
	return r
}

func (r *SQLiteMessageRepository) Insert(ctx context.Context, msg *entities.Message) error {
	if msg.Interest == "" {
		msg.Interest = entities.InterestOther
	}
	msg.FollowupSent = false
	msg.CreatedAt = r.now().UTC().Truncate(time.Millisecond)

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (tenant_id, phone, message, interest_type, followup_sent, created_at)
		VALUES (?, ?, ?, ?, 0, ?)
	`, msg.TenantID, msg.Phone, msg.Body, string(msg.Interest), msg.CreatedAt.UnixMilli())
	if err != nil {
		return persistErr("insert message", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return persistErr("insert message id", err)
	}
	msg.ID = id
	return nil
}

func (r *SQLiteMessageRepository) DueForFollowup(ctx context.Context, cutoff time.Time) ([]entities.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tenant_id, phone, message, interest_type, followup_sent, created_at
		FROM messages
		WHERE interest_type = ? AND followup_sent = 0 AND created_at <= ?
		ORDER BY created_at ASC, id ASC
	`, string(entities.InterestFees), cutoff.UnixMilli())
	if err != nil {
		return nil, persistErr("query due followups", err)
	}
	return scanSQLiteMessages(rows)
}

func (r *SQLiteMessageRepository) MarkFollowupSent(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE messages SET followup_sent = 1 WHERE id = ? AND followup_sent = 0", id)
	if err != nil {
		return persistErr("mark followup sent", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return persistErr("mark followup sent", err)
	}
	if n == 0 {
		return entities.ErrNotFound
	}
	return nil
}

func (r *SQLiteMessageRepository) ListByTenant(ctx context.Context, tenantID int64, interest entities.Interest) ([]entities.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tenant_id, phone, message, interest_type, followup_sent, created_at
		FROM messages
		WHERE tenant_id = ? AND (? = '' OR interest_type = ?)
		ORDER BY created_at DESC, id DESC
	`, tenantID, string(interest), string(interest))
	if err != nil {
		return nil, persistErr("list messages", err)
	}
	return scanSQLiteMessages(rows)
}

func (r *SQLiteMessageRepository) CountByTenant(ctx context.Context, tenantID int64, interest entities.Interest) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM messages
		WHERE tenant_id = ? AND (? = '' OR interest_type = ?)
	`, tenantID, string(interest), string(interest)).Scan(&n)
	if err != nil {
		return 0, persistErr("count messages", err)
	}
	return n, nil
}

func scanSQLiteMessages(rows *sql.Rows) ([]entities.Message, error) {
	defer rows.Close()

	messages := []entities.Message{}
	for rows.Next() {
		var m entities.Message
		var interest string
		var sent int64
		var created int64
		if err := rows.Scan(&m.ID, &m.TenantID, &m.Phone, &m.Body, &interest, &sent, &created); err != nil {
			return nil, persistErr("scan message", err)
		}
		m.Interest = entities.Interest(interest)
		m.FollowupSent = sent != 0
		m.CreatedAt = time.UnixMilli(created).UTC()
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate messages", err)
	}
	return messages, nil
}
