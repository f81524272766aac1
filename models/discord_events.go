package models

type ChannelCreatedEvent struct {
	ChannelID   string
	ParentID    string
	ChannelName string
}

type Attachment struct {
	ID          string
	ContentType string
}

type MessageEvent struct {
	MessageID string
	ChannelID string
	AuthorID  string
	// AuthorIsBot is true for messages authored by automated participants,
	// including this bot's own messages
	AuthorIsBot bool
	Content     string
	Attachments []Attachment
	// Mentions contains the user IDs of all users explicitly mentioned in this message
	Mentions []string
}

// EvidenceResult is the outcome of classifying one message against the
// two intake requirements.
type EvidenceResult struct {
	HasAddress bool
	HasImage   bool
	// Addresses holds every address match found in the text, for audit logging;
	// only presence matters for state transitions
	Addresses []string
}
