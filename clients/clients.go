package clients

import (
	"github.com/samber/mo"
)

type DiscordUser struct {
	ID       string
	Username string
}

type DiscordChannel struct {
	ID       string
	Name     string
	ParentID string
}

// DiscordClient defines the interface for Discord API operations used by the
// intake use case
type DiscordClient interface {
	// GetBotUser returns the identity the bot is logged in as
	GetBotUser() (*DiscordUser, error)

	// SendMessage posts a message into a channel and returns the sent message ID
	SendMessage(channelID, content string) (string, error)

	// GetChannel resolves a channel by ID, returning None when it does not exist
	GetChannel(channelID string) (mo.Option[*DiscordChannel], error)
}
