package models

import (
	"time"
)

// IntakeStats is a point-in-time snapshot of the bot's lifecycle counters.
type IntakeStats struct {
	TicketsCreated   int64         `json:"tickets_created"`
	TicketsCompleted int64         `json:"tickets_completed"`
	TicketsClosed    int64         `json:"tickets_closed"`
	Errors           int64         `json:"errors"`
	Uptime           time.Duration `json:"uptime_ns"`
	ActiveTickets    int           `json:"active_tickets"`
}
