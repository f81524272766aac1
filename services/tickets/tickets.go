// Package tickets holds the in-memory ticket registry. It is the only shared
// mutable structure in the bot: one record per channel, with mutations for a
// single channel serialized by a per-entry lock so unrelated channels never
// contend.
package tickets

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/samber/mo"

	"github.com/noname9006/form2100/core"
	"github.com/noname9006/form2100/models"
)

type ticketEntry struct {
	mu      sync.Mutex
	ticket  *models.Ticket
	removed bool
}

type TicketsService struct {
	mu      sync.RWMutex
	entries map[string]*ticketEntry
}

func NewTicketsService() *TicketsService {
	return &TicketsService{
		entries: make(map[string]*ticketEntry),
	}
}

// CreateTicket registers a new ticket, failing with core.ErrAlreadyExists when
// a live record is already present for the channel
func (s *TicketsService) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	if ticket == nil || ticket.ChannelID == "" {
		return fmt.Errorf("ticket must have a channel ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[ticket.ChannelID]; exists {
		return core.ErrAlreadyExists
	}

	s.entries[ticket.ChannelID] = &ticketEntry{ticket: copyTicket(ticket)}
	log.Printf("📋 Registered ticket %s for channel %s", ticket.ID, ticket.ChannelID)
	return nil
}

// GetTicketByChannelID returns a copy of the ticket record, or None when the
// channel is not tracked
func (s *TicketsService) GetTicketByChannelID(
	ctx context.Context,
	channelID string,
) (mo.Option[*models.Ticket], error) {
	if channelID == "" {
		return mo.None[*models.Ticket](), fmt.Errorf("channel ID must not be empty")
	}

	entry := s.lookup(channelID)
	if entry == nil {
		return mo.None[*models.Ticket](), nil
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.removed {
		return mo.None[*models.Ticket](), nil
	}
	return mo.Some(copyTicket(entry.ticket)), nil
}

// UpdateTicket applies the mutator under the entry lock, serializing it with
// any concurrent event handling for the same channel. Returns a copy of the
// updated record, or None when the channel is not tracked.
func (s *TicketsService) UpdateTicket(
	ctx context.Context,
	channelID string,
	mutate func(*models.Ticket),
) (mo.Option[*models.Ticket], error) {
	if channelID == "" {
		return mo.None[*models.Ticket](), fmt.Errorf("channel ID must not be empty")
	}

	entry := s.lookup(channelID)
	if entry == nil {
		return mo.None[*models.Ticket](), nil
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.removed {
		return mo.None[*models.Ticket](), nil
	}

	mutate(entry.ticket)
	return mo.Some(copyTicket(entry.ticket)), nil
}

// RemoveTicket deletes the record for a channel; removing an untracked channel
// is a no-op
func (s *TicketsService) RemoveTicket(ctx context.Context, channelID string) error {
	if channelID == "" {
		return fmt.Errorf("channel ID must not be empty")
	}

	s.mu.Lock()
	entry, exists := s.entries[channelID]
	if exists {
		delete(s.entries, channelID)
	}
	s.mu.Unlock()

	if !exists {
		return nil
	}

	// Mark the entry dead under its own lock so an in-flight update for the
	// same channel observes the removal
	entry.mu.Lock()
	entry.removed = true
	entry.mu.Unlock()

	log.Printf("📋 Removed ticket for channel %s", channelID)
	return nil
}

// ListTickets returns copies of every live record, for the status reporter
func (s *TicketsService) ListTickets(ctx context.Context) ([]*models.Ticket, error) {
	s.mu.RLock()
	entries := make([]*ticketEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	tickets := make([]*models.Ticket, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		if !entry.removed {
			tickets = append(tickets, copyTicket(entry.ticket))
		}
		entry.mu.Unlock()
	}
	return tickets, nil
}

func (s *TicketsService) lookup(channelID string) *ticketEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[channelID]
}

func copyTicket(ticket *models.Ticket) *models.Ticket {
	clone := *ticket
	if ticket.CompletedAt != nil {
		completedAt := *ticket.CompletedAt
		clone.CompletedAt = &completedAt
	}
	return &clone
}
