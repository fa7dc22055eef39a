package entities

import "time"

type Student struct {
	ID            int64     `json:"id"`
	TenantID      int64     `json:"tenant_id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	AdmissionDate string    `json:"admission_date"` // YYYY-MM-DD, may be empty
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

// DashboardStats is the per-tenant summary shown on the dashboard.
type DashboardStats struct {
	Students   int64 `json:"students"`
	TotalLeads int64 `json:"total_leads"`
	FeesLeads  int64 `json:"fees_leads"`
}
