package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	discordclient "github.com/noname9006/form2100/clients/discord"
	"github.com/noname9006/form2100/models"
	"github.com/noname9006/form2100/services/scheduler"
	"github.com/noname9006/form2100/services/stats"
	"github.com/noname9006/form2100/services/tickets"
	"github.com/noname9006/form2100/usecases/intake"
)

func setupStatusAPITest(t *testing.T) (*mux.Router, *intake.IntakeUseCase, *discordclient.MockDiscordClient) {
	t.Helper()

	discordClient := new(discordclient.MockDiscordClient)
	waitScheduler := scheduler.NewScheduler("first-message")
	closeScheduler := scheduler.NewScheduler("closure")
	t.Cleanup(waitScheduler.Stop)
	t.Cleanup(closeScheduler.Stop)

	useCase := intake.NewIntakeUseCase(
		discordClient,
		tickets.NewTicketsService(),
		stats.NewStatsService(),
		waitScheduler,
		closeScheduler,
		"category-456",
		time.Minute,
		time.Hour,
	)
	t.Cleanup(useCase.Shutdown)

	router := mux.NewRouter()
	NewStatusAPIHandler(useCase).SetupEndpoints(router)
	return router, useCase, discordClient
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := setupStatusAPITest(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStatusEndpoint_Empty(t *testing.T) {
	router, _, _ := setupStatusAPITest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Stats   models.IntakeStats  `json:"stats"`
		Tickets []models.TicketInfo `json:"tickets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(0), resp.Stats.TicketsCreated)
	assert.Empty(t, resp.Tickets)
}

func TestStatusEndpoint_WithActiveTicket(t *testing.T) {
	router, useCase, discordClient := setupStatusAPITest(t)

	discordClient.On("SendMessage", "channel-123", mock.Anything).
		Return("msg-1", nil).Once()

	require.NoError(t, useCase.ProcessChannelCreatedEvent(context.Background(), models.ChannelCreatedEvent{
		ChannelID:   "channel-123",
		ParentID:    "category-456",
		ChannelName: "ticket-0001",
	}))
	require.NoError(t, useCase.ProcessMessageEvent(context.Background(), models.MessageEvent{
		MessageID: "m1",
		ChannelID: "channel-123",
		AuthorID:  "user-789",
		Content:   "hello, I need help",
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Stats   models.IntakeStats  `json:"stats"`
		Tickets []models.TicketInfo `json:"tickets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Stats.TicketsCreated)
	assert.Equal(t, 1, resp.Stats.ActiveTickets)
	require.Len(t, resp.Tickets, 1)
	assert.Equal(t, "channel-123", resp.Tickets[0].ChannelID)

	discordClient.AssertExpectations(t)
}
