package intake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStatusSnapshot(t *testing.T) {
	f := setupIntakeTest(t, time.Minute, time.Hour)
	f.startTicket(t)

	require.NoError(t, f.useCase.ProcessMessageEvent(f.ctx, userMessage("wallet: "+testAddress)))

	snapshot, infos, err := f.useCase.StatusSnapshot(f.ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1), snapshot.TicketsCreated)
	assert.Equal(t, int64(0), snapshot.TicketsCompleted)
	assert.Equal(t, 1, snapshot.ActiveTickets)

	require.Len(t, infos, 1)
	info := infos[0]
	assert.Equal(t, testChannelID, info.ChannelID)
	assert.Equal(t, "<@"+testUserID+">", info.RequesterTag)
	assert.True(t, info.HasAddress)
	assert.False(t, info.HasImage)
	assert.GreaterOrEqual(t, info.Age.Nanoseconds(), int64(0))
}

func TestReportStatus_EmptyRegistry(t *testing.T) {
	f := setupIntakeTest(t, time.Minute, time.Hour)

	// A pure read: no sends, no mutations
	require.NoError(t, f.useCase.ReportStatus(f.ctx))
	f.discordClient.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}
