package discord

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/mo"

	"github.com/noname9006/form2100/clients"
)

// DiscordClient implements the clients.DiscordClient interface on top of a
// shared discordgo session
type DiscordClient struct {
	session *discordgo.Session
}

// NewDiscordClient wraps an already-configured discordgo session
func NewDiscordClient(session *discordgo.Session) clients.DiscordClient {
	return &DiscordClient{session: session}
}

// GetBotUser returns the bot's own user identity
func (c *DiscordClient) GetBotUser() (*clients.DiscordUser, error) {
	// The gateway session caches the bot identity after READY
	if c.session.State != nil && c.session.State.User != nil {
		return &clients.DiscordUser{
			ID:       c.session.State.User.ID,
			Username: c.session.State.User.Username,
		}, nil
	}

	user, err := c.session.User("@me")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bot user: %w", err)
	}

	return &clients.DiscordUser{
		ID:       user.ID,
		Username: user.Username,
	}, nil
}

// SendMessage posts a plain text message into the given channel
func (c *DiscordClient) SendMessage(channelID, content string) (string, error) {
	message, err := c.session.ChannelMessageSend(channelID, content)
	if err != nil {
		return "", fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}
	return message.ID, nil
}

// GetChannel resolves a channel, consulting the session state cache first and
// falling back to the REST API on a cache miss
func (c *DiscordClient) GetChannel(channelID string) (mo.Option[*clients.DiscordChannel], error) {
	if channel, err := c.session.State.Channel(channelID); err == nil {
		return mo.Some(mapChannel(channel)), nil
	}

	channel, err := c.session.Channel(channelID)
	if err != nil {
		if isNotFoundRESTError(err) {
			return mo.None[*clients.DiscordChannel](), nil
		}
		return mo.None[*clients.DiscordChannel](), fmt.Errorf("failed to fetch channel %s: %w", channelID, err)
	}

	return mo.Some(mapChannel(channel)), nil
}

func mapChannel(channel *discordgo.Channel) *clients.DiscordChannel {
	return &clients.DiscordChannel{
		ID:       channel.ID,
		Name:     channel.Name,
		ParentID: channel.ParentID,
	}
}

func isNotFoundRESTError(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		return restErr.Response.StatusCode == http.StatusNotFound
	}
	return false
}
