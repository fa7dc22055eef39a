package interfaces

import (
	"context"
	"time"

	"whatsapp_crm/internal/entities"
)

// Messenger delivers a text message to a chat recipient.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
}

// FallbackGenerator produces a reply when no canned rule matches.
// Implementations may do network I/O and may fail.
type FallbackGenerator interface {
	GenerateFallback(ctx context.Context, text string) (string, error)
}

// LeadNotifier forwards interesting leads to staff.
type LeadNotifier interface {
	NotifyLead(ctx context.Context, msg entities.Message) error
}

// TenantDirectory maps the business number a message was sent to onto a tenant.
type TenantDirectory interface {
	ResolveTenant(ctx context.Context, phoneNumberID string) (int64, error)
}

// MessageStore is the append-only lead log shared by the webhook and the follow-up sweep.
type MessageStore interface {
	Insert(ctx context.Context, msg *entities.Message) error
	// DueForFollowup returns fees leads not yet followed up and created at or before cutoff.
	DueForFollowup(ctx context.Context, cutoff time.Time) ([]entities.Message, error)
	MarkFollowupSent(ctx context.Context, id int64) error
	// An empty interest matches every category.
	ListByTenant(ctx context.Context, tenantID int64, interest entities.Interest) ([]entities.Message, error)
	CountByTenant(ctx context.Context, tenantID int64, interest entities.Interest) (int64, error)
}

type StudentStore interface {
	Create(ctx context.Context, s *entities.Student) error
	ListByTenant(ctx context.Context, tenantID int64) ([]entities.Student, error)
	CountByTenant(ctx context.Context, tenantID int64) (int64, error)
}

type TenantStore interface {
	Create(ctx context.Context, t *entities.Tenant) error
	GetByUsername(ctx context.Context, username string) (*entities.Tenant, error)
	GetByID(ctx context.Context, id int64) (*entities.Tenant, error)
	GetByPhoneNumberID(ctx context.Context, phoneNumberID string) (*entities.Tenant, error)
}

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
