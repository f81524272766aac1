package intake

import (
	"fmt"
	"time"
)

const (
	// closureCommand is the command message understood by the channel
	// management bot. This is the single supported closure strategy.
	closureCommand = "$close"

	greetingTemplate = "Hello %s! 👋\n" +
		"To process your request we need two things from you:\n" +
		"1. Your wallet address (starts with `0x`, 42 characters)\n" +
		"2. A screenshot of your submission (image attachment)\n" +
		"Post both in this channel and we will take it from there."

	followUpTemplate = "✅ Thanks %s, we received your wallet address and screenshot.\n" +
		"Your submission is complete. This channel will close automatically in %s."

	manualCloseInstructions = "⚠️ Automatic closure failed. " +
		"A team member can close this channel manually with `" + closureCommand + "`."
)

func greetingMessage(requesterTag string) string {
	return fmt.Sprintf(greetingTemplate, requesterTag)
}

func followUpMessage(requesterTag string, closeDelay time.Duration) string {
	return fmt.Sprintf(followUpTemplate, requesterTag, closeDelay)
}
