package services

import (
	"context"
	"time"

	"github.com/samber/mo"

	"github.com/noname9006/form2100/models"
)

// TicketsService defines the interface for the in-memory ticket registry.
// Mutations for one channel are serialized; different channels never block
// each other.
type TicketsService interface {
	CreateTicket(ctx context.Context, ticket *models.Ticket) error
	GetTicketByChannelID(ctx context.Context, channelID string) (mo.Option[*models.Ticket], error)
	UpdateTicket(
		ctx context.Context,
		channelID string,
		mutate func(*models.Ticket),
	) (mo.Option[*models.Ticket], error)
	RemoveTicket(ctx context.Context, channelID string) error
	ListTickets(ctx context.Context) ([]*models.Ticket, error)
}

// SchedulerService defines the interface for one-shot delayed actions keyed
// by channel ID
type SchedulerService interface {
	Schedule(channelID string, delay time.Duration, action func())
	Cancel(channelID string) bool
	PendingCount() int
	Stop()
}

// StatsService defines the interface for process-lifetime intake counters
type StatsService interface {
	IncrTicketsCreated()
	IncrTicketsCompleted()
	IncrTicketsClosed()
	IncrErrors()
	Snapshot(activeTickets int) models.IntakeStats
}
