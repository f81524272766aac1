package intake

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/noname9006/form2100/models"
)

// StatusSnapshot returns the current counters plus a per-ticket introspection
// list. It is a pure read of registry and stats state.
func (u *IntakeUseCase) StatusSnapshot(
	ctx context.Context,
) (models.IntakeStats, []models.TicketInfo, error) {
	tickets, err := u.ticketsService.ListTickets(ctx)
	if err != nil {
		return models.IntakeStats{}, nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	infos := make([]models.TicketInfo, 0, len(tickets))
	now := time.Now()
	for _, ticket := range tickets {
		infos = append(infos, models.TicketInfo{
			ChannelID:    ticket.ChannelID,
			RequesterTag: ticket.RequesterTag,
			State:        ticket.State,
			Age:          now.Sub(ticket.CreatedAt),
			HasAddress:   ticket.HasAddress,
			HasImage:     ticket.HasImage,
		})
	}

	return u.statsService.Snapshot(len(tickets)), infos, nil
}

// ReportStatus logs the periodic status snapshot. Failures here never affect
// the lifecycle controller; the caller just logs and moves on.
func (u *IntakeUseCase) ReportStatus(ctx context.Context) error {
	snapshot, infos, err := u.StatusSnapshot(ctx)
	if err != nil {
		return err
	}

	log.Printf("📊 Status: created=%d completed=%d closed=%d errors=%d active=%d uptime=%s",
		snapshot.TicketsCreated, snapshot.TicketsCompleted, snapshot.TicketsClosed,
		snapshot.Errors, snapshot.ActiveTickets, snapshot.Uptime.Round(time.Second))

	for _, info := range infos {
		log.Printf("📊   channel=%s requester=%s state=%s age=%s address=%t image=%t",
			info.ChannelID, info.RequesterTag, info.State,
			info.Age.Round(time.Second), info.HasAddress, info.HasImage)
	}

	return nil
}
