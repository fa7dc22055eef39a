package entities

import "time"

type Tenant struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Username      string    `json:"username"`
	PasswordHash  string    `json:"-"`
	PhoneNumberID string    `json:"phone_number_id"` // WhatsApp business number owned by this tenant
	CreatedAt     time.Time `json:"created_at"`
}
