package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"whatsapp_crm/internal/entities"
)

// MessageRepository is the Postgres-backed lead log.
type MessageRepository struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db, now: time.Now}
}

// Insert appends a message; ID, CreatedAt and FollowupSent are assigned here.
func (r *MessageRepository) Insert(ctx context.Context, msg *entities.Message) error {
	if msg.Interest == "" {
		msg.Interest = entities.InterestOther
	}
	msg.FollowupSent = false
	msg.CreatedAt = r.now().UTC()

	err := r.db.QueryRow(ctx, `
		INSERT INTO messages (tenant_id, phone, message, interest_type, followup_sent, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
		RETURNING id
	`, msg.TenantID, msg.Phone, msg.Body, string(msg.Interest), msg.CreatedAt).Scan(&msg.ID)
	if err != nil {
		return persistErr("insert message", err)
	}
	return nil
}

func (r *MessageRepository) DueForFollowup(ctx context.Context, cutoff time.Time) ([]entities.Message, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, tenant_id, phone, message, interest_type, followup_sent, created_at
		FROM messages
		WHERE interest_type = $1 AND followup_sent = FALSE AND created_at <= $2
		ORDER BY created_at ASC, id ASC
	`, string(entities.InterestFees), cutoff.UTC())
	if err != nil {
		return nil, persistErr("query due followups", err)
	}
	return collectMessages(rows)
}

// MarkFollowupSent flips the flag once; a second call reports ErrNotFound.
func (r *MessageRepository) MarkFollowupSent(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "UPDATE messages SET followup_sent = TRUE WHERE id = $1 AND followup_sent = FALSE", id)
	if err != nil {
		return persistErr("mark followup sent", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}

func (r *MessageRepository) ListByTenant(ctx context.Context, tenantID int64, interest entities.Interest) ([]entities.Message, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, tenant_id, phone, message, interest_type, followup_sent, created_at
		FROM messages
		WHERE tenant_id = $1 AND ($2::text = '' OR interest_type = $2::text)
		ORDER BY created_at DESC, id DESC
	`, tenantID, string(interest))
	if err != nil {
		return nil, persistErr("list messages", err)
	}
	return collectMessages(rows)
}

func (r *MessageRepository) CountByTenant(ctx context.Context, tenantID int64, interest entities.Interest) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM messages
		WHERE tenant_id = $1 AND ($2::text = '' OR interest_type = $2::text)
	`, tenantID, string(interest)).Scan(&n)
	if err != nil {
		return 0, persistErr("count messages", err)
	}
	return n, nil
}

func collectMessages(rows pgx.Rows) ([]entities.Message, error) {
	defer rows.Close()

	messages := []entities.Message{}
	for rows.Next() {
		var m entities.Message
		var interest string
		if err := rows.Scan(&m.ID, &m.TenantID, &m.Phone, &m.Body, &interest, &m.FollowupSent, &m.CreatedAt); err != nil {
			return nil, persistErr("scan message", err)
		}
		m.Interest = entities.Interest(interest)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate messages", err)
	}
	return messages, nil
}
