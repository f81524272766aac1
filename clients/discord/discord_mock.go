package discord

import (
	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"github.com/noname9006/form2100/clients"
)

// MockDiscordClient implements the clients.DiscordClient interface for testing
type MockDiscordClient struct {
	mock.Mock
}

// GetBotUser mocks fetching the bot's own user identity
func (m *MockDiscordClient) GetBotUser() (*clients.DiscordUser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.DiscordUser), args.Error(1)
}

// SendMessage mocks posting a message into a channel
func (m *MockDiscordClient) SendMessage(channelID, content string) (string, error) {
	args := m.Called(channelID, content)
	return args.String(0), args.Error(1)
}

// GetChannel mocks resolving a channel by ID
func (m *MockDiscordClient) GetChannel(channelID string) (mo.Option[*clients.DiscordChannel], error) {
	args := m.Called(channelID)
	return args.Get(0).(mo.Option[*clients.DiscordChannel]), args.Error(1)
}
