package tickets

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"github.com/noname9006/form2100/models"
)

// MockTicketsService is a mock implementation of the TicketsService interface
type MockTicketsService struct {
	mock.Mock
}

func (m *MockTicketsService) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketsService) GetTicketByChannelID(
	ctx context.Context,
	channelID string,
) (mo.Option[*models.Ticket], error) {
	args := m.Called(ctx, channelID)
	return args.Get(0).(mo.Option[*models.Ticket]), args.Error(1)
}

func (m *MockTicketsService) UpdateTicket(
	ctx context.Context,
	channelID string,
	mutate func(*models.Ticket),
) (mo.Option[*models.Ticket], error) {
	args := m.Called(ctx, channelID, mutate)
	return args.Get(0).(mo.Option[*models.Ticket]), args.Error(1)
}

func (m *MockTicketsService) RemoveTicket(ctx context.Context, channelID string) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

func (m *MockTicketsService) ListTickets(ctx context.Context) ([]*models.Ticket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Ticket), args.Error(1)
}
