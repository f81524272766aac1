package tickets

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noname9006/form2100/core"
	"github.com/noname9006/form2100/models"
)

func newTestTicket(channelID string) *models.Ticket {
	return &models.Ticket{
		ID:           core.NewID("tk"),
		ChannelID:    channelID,
		RequesterTag: "<@user-1>",
		State:        models.TicketStateAwaitingEvidence,
		CreatedAt:    time.Now(),
	}
}

func TestCreateTicket(t *testing.T) {
	ctx := context.Background()
	service := NewTicketsService()

	err := service.CreateTicket(ctx, newTestTicket("channel-1"))
	require.NoError(t, err)

	maybeTicket, err := service.GetTicketByChannelID(ctx, "channel-1")
	require.NoError(t, err)
	require.True(t, maybeTicket.IsPresent())
	assert.Equal(t, "channel-1", maybeTicket.MustGet().ChannelID)
}

func TestCreateTicket_DuplicateChannel(t *testing.T) {
	ctx := context.Background()
	service := NewTicketsService()

	require.NoError(t, service.CreateTicket(ctx, newTestTicket("channel-1")))

	err := service.CreateTicket(ctx, newTestTicket("channel-1"))
	assert.True(t, core.IsAlreadyExistsError(err))
}

func TestCreateTicket_MissingChannelID(t *testing.T) {
	service := NewTicketsService()
	err := service.CreateTicket(context.Background(), &models.Ticket{})
	assert.Error(t, err)
}

func TestGetTicketByChannelID_NotTracked(t *testing.T) {
	service := NewTicketsService()

	maybeTicket, err := service.GetTicketByChannelID(context.Background(), "unknown")
	require.NoError(t, err)
	assert.False(t, maybeTicket.IsPresent())
}

func TestUpdateTicket_MutatesUnderLock(t *testing.T) {
	ctx := context.Background()
	service := NewTicketsService()
	require.NoError(t, service.CreateTicket(ctx, newTestTicket("channel-1")))

	maybeUpdated, err := service.UpdateTicket(ctx, "channel-1", func(ticket *models.Ticket) {
		ticket.HasAddress = true
	})
	require.NoError(t, err)
	require.True(t, maybeUpdated.IsPresent())
	assert.True(t, maybeUpdated.MustGet().HasAddress)
	assert.False(t, maybeUpdated.MustGet().HasImage)
}

func TestUpdateTicket_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	service := NewTicketsService()
	require.NoError(t, service.CreateTicket(ctx, newTestTicket("channel-1")))

	maybeUpdated, err := service.UpdateTicket(ctx, "channel-1", func(ticket *models.Ticket) {})
	require.NoError(t, err)

	// Mutating the returned record must not leak into the registry
	maybeUpdated.MustGet().HasImage = true

	maybeTicket, err := service.GetTicketByChannelID(ctx, "channel-1")
	require.NoError(t, err)
	assert.False(t, maybeTicket.MustGet().HasImage)
}

func TestUpdateTicket_NotTracked(t *testing.T) {
	service := NewTicketsService()

	maybeUpdated, err := service.UpdateTicket(context.Background(), "unknown", func(ticket *models.Ticket) {
		t.Fatal("mutator must not run for untracked channels")
	})
	require.NoError(t, err)
	assert.False(t, maybeUpdated.IsPresent())
}

func TestRemoveTicket(t *testing.T) {
	ctx := context.Background()
	service := NewTicketsService()
	require.NoError(t, service.CreateTicket(ctx, newTestTicket("channel-1")))

	require.NoError(t, service.RemoveTicket(ctx, "channel-1"))

	maybeTicket, err := service.GetTicketByChannelID(ctx, "channel-1")
	require.NoError(t, err)
	assert.False(t, maybeTicket.IsPresent())

	// Removing an untracked channel is a no-op
	assert.NoError(t, service.RemoveTicket(ctx, "channel-1"))
}

func TestRemoveTicket_AllowsRecreation(t *testing.T) {
	ctx := context.Background()
	service := NewTicketsService()
	require.NoError(t, service.CreateTicket(ctx, newTestTicket("channel-1")))
	require.NoError(t, service.RemoveTicket(ctx, "channel-1"))

	assert.NoError(t, service.CreateTicket(ctx, newTestTicket("channel-1")))
}

func TestListTickets(t *testing.T) {
	ctx := context.Background()
	service := NewTicketsService()
	require.NoError(t, service.CreateTicket(ctx, newTestTicket("channel-1")))
	require.NoError(t, service.CreateTicket(ctx, newTestTicket("channel-2")))

	all, err := service.ListTickets(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateTicket_ConcurrentFlagsAreMonotone(t *testing.T) {
	ctx := context.Background()
	service := NewTicketsService()
	require.NoError(t, service.CreateTicket(ctx, newTestTicket("channel-1")))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(setAddress bool) {
			defer wg.Done()
			_, err := service.UpdateTicket(ctx, "channel-1", func(ticket *models.Ticket) {
				if setAddress {
					ticket.HasAddress = true
				} else {
					ticket.HasImage = true
				}
			})
			assert.NoError(t, err)
		}(i%2 == 0)
	}
	wg.Wait()

	maybeTicket, err := service.GetTicketByChannelID(ctx, "channel-1")
	require.NoError(t, err)
	ticket := maybeTicket.MustGet()
	assert.True(t, ticket.HasAddress)
	assert.True(t, ticket.HasImage)
}
