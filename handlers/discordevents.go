package handlers

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/noname9006/form2100/models"
	"github.com/noname9006/form2100/usecases/intake"
)

type DiscordEventsHandler struct {
	discordSDKClient *discordgo.Session
	intakeUseCase    *intake.IntakeUseCase
}

// NewDiscordEventsHandler registers the intake event handlers on a shared
// discordgo session (the same session backs the API client)
func NewDiscordEventsHandler(
	session *discordgo.Session,
	intakeUseCase *intake.IntakeUseCase,
) *DiscordEventsHandler {
	handler := &DiscordEventsHandler{
		discordSDKClient: session,
		intakeUseCase:    intakeUseCase,
	}

	// Register event handlers
	session.AddHandler(handler.handleChannelCreatedEvent)
	session.AddHandler(handler.handleMessageCreatedEvent)

	// Set intents to receive channel lifecycle and message events, including
	// message content and attachments
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	return handler
}

// StartBot opens the Discord connection and starts listening for events
func (h *DiscordEventsHandler) StartBot() error {
	// Open a websocket connection to Discord and begin listening
	err := h.discordSDKClient.Open()
	if err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	log.Printf("🤖 Discord intake bot is now running and listening for events")
	return nil
}

// StopBot gracefully closes the Discord connection
func (h *DiscordEventsHandler) StopBot() {
	h.discordSDKClient.Close()
}

// handleChannelCreatedEvent handles newly created channels
func (h *DiscordEventsHandler) handleChannelCreatedEvent(s *discordgo.Session, c *discordgo.ChannelCreate) {
	if c.Type != discordgo.ChannelTypeGuildText {
		return
	}

	log.Printf("📨 Discord channel created: %s (%s) under parent %s", c.Name, c.ID, c.ParentID)

	h.intakeUseCase.DispatchChannelCreatedEvent(models.ChannelCreatedEvent{
		ChannelID:   c.ID,
		ParentID:    c.ParentID,
		ChannelName: c.Name,
	})
}

// handleMessageCreatedEvent handles incoming Discord messages
func (h *DiscordEventsHandler) handleMessageCreatedEvent(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		log.Printf("⚠️ Discord message %s has no author - ignoring", m.ID)
		return
	}

	h.intakeUseCase.DispatchMessageEvent(mapToMessageEvent(m))
}

// mapToMessageEvent maps a Discord SDK message event to our domain model
func mapToMessageEvent(m *discordgo.MessageCreate) models.MessageEvent {
	attachments := make([]models.Attachment, len(m.Attachments))
	for i, attachment := range m.Attachments {
		attachments[i] = models.Attachment{
			ID:          attachment.ID,
			ContentType: attachment.ContentType,
		}
	}

	// Extract mentioned user IDs
	mentions := make([]string, len(m.Mentions))
	for i, mentionedUser := range m.Mentions {
		mentions[i] = mentionedUser.ID
	}

	return models.MessageEvent{
		MessageID:   m.ID,
		ChannelID:   m.ChannelID,
		AuthorID:    m.Author.ID,
		AuthorIsBot: m.Author.Bot,
		Content:     m.Content,
		Attachments: attachments,
		Mentions:    mentions,
	}
}
