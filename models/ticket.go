package models

import (
	"time"
)

type TicketState string

const (
	TicketStateAwaitingFirstMessage TicketState = "AWAITING_FIRST_MESSAGE"
	TicketStateAwaitingEvidence     TicketState = "AWAITING_EVIDENCE"
	TicketStateCompleted            TicketState = "COMPLETED"
	TicketStateClosureScheduled     TicketState = "CLOSURE_SCHEDULED"
	TicketStateClosed               TicketState = "CLOSED"
)

// Ticket tracks the intake progress of a single channel.
type Ticket struct {
	ID           string      `json:"id"`
	ChannelID    string      `json:"channel_id"`
	RequesterTag string      `json:"requester_tag"`
	State        TicketState `json:"state"`

	// Evidence flags only ever transition false -> true while the ticket is active
	HasAddress bool `json:"has_address"`
	HasImage   bool `json:"has_image"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// IDs of messages the bot itself sent, kept for diagnostics only
	GreetingMessageID string `json:"greeting_message_id,omitempty"`
	NoticeMessageID   string `json:"notice_message_id,omitempty"`
}

// HasAllEvidence reports whether both required evidence flags are set.
func (t *Ticket) HasAllEvidence() bool {
	return t.HasAddress && t.HasImage
}

// TicketInfo is the read-only per-ticket introspection record exposed to monitoring.
type TicketInfo struct {
	ChannelID    string        `json:"channel_id"`
	RequesterTag string        `json:"requester_tag"`
	State        TicketState   `json:"state"`
	Age          time.Duration `json:"age_ns"`
	HasAddress   bool          `json:"has_address"`
	HasImage     bool          `json:"has_image"`
}
