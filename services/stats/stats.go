// Package stats holds the process-lifetime intake counters consumed by the
// status reporter.
package stats

import (
	"sync/atomic"
	"time"

	"github.com/noname9006/form2100/models"
)

type StatsService struct {
	startedAt        time.Time
	ticketsCreated   atomic.Int64
	ticketsCompleted atomic.Int64
	ticketsClosed    atomic.Int64
	errors           atomic.Int64
}

func NewStatsService() *StatsService {
	return &StatsService{startedAt: time.Now()}
}

func (s *StatsService) IncrTicketsCreated()   { s.ticketsCreated.Add(1) }
func (s *StatsService) IncrTicketsCompleted() { s.ticketsCompleted.Add(1) }
func (s *StatsService) IncrTicketsClosed()    { s.ticketsClosed.Add(1) }
func (s *StatsService) IncrErrors()           { s.errors.Add(1) }

// Snapshot returns a point-in-time copy of all counters
func (s *StatsService) Snapshot(activeTickets int) models.IntakeStats {
	return models.IntakeStats{
		TicketsCreated:   s.ticketsCreated.Load(),
		TicketsCompleted: s.ticketsCompleted.Load(),
		TicketsClosed:    s.ticketsClosed.Load(),
		Errors:           s.errors.Load(),
		Uptime:           time.Since(s.startedAt),
		ActiveTickets:    activeTickets,
	}
}
