package entities

import "time"

// Interest is the coarse intent tag assigned to an inbound message.
type Interest string

const (
	InterestFees      Interest = "fees"
	InterestAdmission Interest = "admission"
	InterestSyllabus  Interest = "syllabus"
	InterestBatch     Interest = "batch"
	InterestOther     Interest = "other"
)

// Interests lists every category in classification order, with the catch-all last.
var Interests = []Interest{InterestFees, InterestAdmission, InterestSyllabus, InterestBatch, InterestOther}

// ParseInterest maps a raw string onto the enumeration.
func ParseInterest(s string) (Interest, bool) {
	for _, i := range Interests {
		if string(i) == s {
			return i, true
		}
	}
	return "", false
}

// Message is one logged inbound chat message (a "lead").
type Message struct {
	ID           int64     `json:"id"`
	TenantID     int64     `json:"tenant_id"`
	Phone        string    `json:"phone"`
	Body         string    `json:"message"`
	Interest     Interest  `json:"interest_type"`
	FollowupSent bool      `json:"followup_sent"`
	CreatedAt    time.Time `json:"created_at"`
}

// InboundMessage is the part of a webhook delivery the pipeline acts on.
type InboundMessage struct {
	From          string // sender's WhatsApp id
	Body          string // empty for non-text message types
	PhoneNumberID string // business number the message was sent to
}
