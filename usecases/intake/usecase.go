// Package intake implements the ticket lifecycle state machine: it reacts to
// channel-created and message-created events, tracks evidence, and drives
// each channel from greeting to automatic closure.
package intake

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gammazero/workerpool"

	"github.com/noname9006/form2100/clients"
	"github.com/noname9006/form2100/core"
	"github.com/noname9006/form2100/models"
	"github.com/noname9006/form2100/services"
	"github.com/noname9006/form2100/services/evidence"
)

// IntakeUseCase handles all intake lifecycle operations
type IntakeUseCase struct {
	discordClient  clients.DiscordClient
	ticketsService services.TicketsService
	statsService   services.StatsService
	waitScheduler  services.SchedulerService
	closeScheduler services.SchedulerService

	targetCategoryID    string
	firstMessageTimeout time.Duration
	closeDelay          time.Duration

	// mu guards pendingWaits and pools
	mu sync.Mutex
	// pendingWaits tracks channels between creation and their first message
	pendingWaits map[string]bool
	// pools holds one single-worker pool per active channel so events for one
	// channel run strictly in arrival order while channels never block each other
	pools map[string]*workerpool.WorkerPool

	errorHook func(taskName string, err error)
}

// NewIntakeUseCase creates a new instance of IntakeUseCase
func NewIntakeUseCase(
	discordClient clients.DiscordClient,
	ticketsService services.TicketsService,
	statsService services.StatsService,
	waitScheduler services.SchedulerService,
	closeScheduler services.SchedulerService,
	targetCategoryID string,
	firstMessageTimeout time.Duration,
	closeDelay time.Duration,
) *IntakeUseCase {
	return &IntakeUseCase{
		discordClient:       discordClient,
		ticketsService:      ticketsService,
		statsService:        statsService,
		waitScheduler:       waitScheduler,
		closeScheduler:      closeScheduler,
		targetCategoryID:    targetCategoryID,
		firstMessageTimeout: firstMessageTimeout,
		closeDelay:          closeDelay,
		pendingWaits:        make(map[string]bool),
		pools:               make(map[string]*workerpool.WorkerPool),
	}
}

// SetErrorHook registers a callback invoked whenever asynchronously dispatched
// event processing fails, in addition to logging and the error counter
func (u *IntakeUseCase) SetErrorHook(hook func(taskName string, err error)) {
	u.errorHook = hook
}

// DispatchChannelCreatedEvent enqueues a channel-created event onto the
// channel's worker pool. Channels outside the target category are dropped
// before a pool is ever allocated for them.
func (u *IntakeUseCase) DispatchChannelCreatedEvent(event models.ChannelCreatedEvent) {
	if event.ParentID != u.targetCategoryID {
		log.Printf("🔍 Channel %s (%s) created outside target category - ignoring",
			event.ChannelID, event.ChannelName)
		return
	}

	u.dispatch(event.ChannelID, "ProcessChannelCreatedEvent", func(ctx context.Context) error {
		return u.ProcessChannelCreatedEvent(ctx, event)
	})
}

// DispatchMessageEvent enqueues a message-created event onto the channel's
// worker pool. Messages for channels the bot is not tracking are dropped
// without allocating a pool.
func (u *IntakeUseCase) DispatchMessageEvent(event models.MessageEvent) {
	if event.AuthorIsBot {
		return
	}
	if !u.isChannelActive(event.ChannelID) {
		return
	}

	u.dispatch(event.ChannelID, "ProcessMessageEvent", func(ctx context.Context) error {
		return u.ProcessMessageEvent(ctx, event)
	})
}

// ProcessChannelCreatedEvent starts the intake for a qualifying new channel:
// a bounded wait for the channel's first message begins, and only a message
// arriving inside that window creates a ticket.
func (u *IntakeUseCase) ProcessChannelCreatedEvent(
	ctx context.Context,
	event models.ChannelCreatedEvent,
) error {
	log.Printf("📋 Starting to process channel-created event for %s (%s)",
		event.ChannelID, event.ChannelName)

	if event.ParentID != u.targetCategoryID {
		log.Printf("🔍 Channel %s is not under target category %s - ignoring",
			event.ChannelID, u.targetCategoryID)
		return nil
	}

	maybeTicket, err := u.ticketsService.GetTicketByChannelID(ctx, event.ChannelID)
	if err != nil {
		return fmt.Errorf("failed to check for existing ticket: %w", err)
	}
	if maybeTicket.IsPresent() {
		log.Printf("🔍 Channel %s already has a live ticket - duplicate create is a no-op", event.ChannelID)
		return nil
	}

	u.mu.Lock()
	if u.pendingWaits[event.ChannelID] {
		u.mu.Unlock()
		log.Printf("🔍 Channel %s already has a pending first-message wait - duplicate create is a no-op",
			event.ChannelID)
		return nil
	}
	u.pendingWaits[event.ChannelID] = true
	u.mu.Unlock()

	channelID := event.ChannelID
	u.waitScheduler.Schedule(channelID, u.firstMessageTimeout, func() {
		u.expireFirstMessageWait(channelID)
	})

	log.Printf("📋 Completed successfully - awaiting first message in channel %s for up to %s",
		channelID, u.firstMessageTimeout)
	return nil
}

// ProcessMessageEvent advances a channel's intake on an incoming message:
// the first message triggers the greeting and ticket creation, subsequent
// messages are classified for evidence.
func (u *IntakeUseCase) ProcessMessageEvent(ctx context.Context, event models.MessageEvent) error {
	// The bot's own messages and other automated participants never trigger
	// transitions or count as evidence
	if event.AuthorIsBot {
		return nil
	}

	u.mu.Lock()
	isFirstMessage := u.pendingWaits[event.ChannelID]
	if isFirstMessage {
		delete(u.pendingWaits, event.ChannelID)
	}
	u.mu.Unlock()

	if isFirstMessage {
		u.waitScheduler.Cancel(event.ChannelID)
		return u.handleFirstMessage(ctx, event)
	}

	return u.handleEvidenceMessage(ctx, event)
}

// handleFirstMessage greets the requester and registers the ticket record
func (u *IntakeUseCase) handleFirstMessage(ctx context.Context, event models.MessageEvent) error {
	log.Printf("📋 Starting to process first message %s in channel %s", event.MessageID, event.ChannelID)

	requesterTag := deriveRequesterTag(event)

	ticket := &models.Ticket{
		ID:           core.NewID("tk"),
		ChannelID:    event.ChannelID,
		RequesterTag: requesterTag,
		State:        models.TicketStateAwaitingEvidence,
		CreatedAt:    time.Now(),
	}
	if err := u.ticketsService.CreateTicket(ctx, ticket); err != nil {
		return fmt.Errorf("failed to register ticket for channel %s: %w", event.ChannelID, err)
	}
	u.statsService.IncrTicketsCreated()

	greetingID, err := u.discordClient.SendMessage(event.ChannelID, greetingMessage(requesterTag))
	if err != nil {
		// The ticket stays registered; evidence in later messages is still processed
		return fmt.Errorf("failed to send greeting to channel %s: %w", event.ChannelID, err)
	}

	if _, err := u.ticketsService.UpdateTicket(ctx, event.ChannelID, func(t *models.Ticket) {
		t.GreetingMessageID = greetingID
	}); err != nil {
		return fmt.Errorf("failed to record greeting message ID: %w", err)
	}

	log.Printf("📋 Completed successfully - greeted %s in channel %s, awaiting evidence",
		requesterTag, event.ChannelID)
	return nil
}

// handleEvidenceMessage classifies a message and merges newly-true evidence
// flags; when both requirements are met it completes the ticket and schedules
// closure.
func (u *IntakeUseCase) handleEvidenceMessage(ctx context.Context, event models.MessageEvent) error {
	result := evidence.DetectEvidence(event.Content, event.Attachments)
	if len(result.Addresses) > 0 {
		log.Printf("🔍 Message %s in channel %s contains address match(es): %v",
			event.MessageID, event.ChannelID, result.Addresses)
	}

	var completed bool
	maybeTicket, err := u.ticketsService.UpdateTicket(ctx, event.ChannelID, func(t *models.Ticket) {
		if t.State != models.TicketStateAwaitingEvidence {
			return
		}
		// Flags only ever move false -> true
		if result.HasAddress {
			t.HasAddress = true
		}
		if result.HasImage {
			t.HasImage = true
		}
		if t.HasAllEvidence() {
			now := time.Now()
			t.State = models.TicketStateCompleted
			t.CompletedAt = &now
			completed = true
		}
	})
	if err != nil {
		return fmt.Errorf("failed to merge evidence for channel %s: %w", event.ChannelID, err)
	}
	if !maybeTicket.IsPresent() {
		// Channel is not tracked (wait expired or ticket already closed)
		return nil
	}

	if !completed {
		return nil
	}

	return u.completeTicket(ctx, maybeTicket.MustGet())
}

// completeTicket sends the follow-up notice and schedules the delayed closure.
// The completion transition fires at most once per ticket, so exactly one
// notice send and one closure timer result.
func (u *IntakeUseCase) completeTicket(ctx context.Context, ticket *models.Ticket) error {
	log.Printf("✅ Ticket %s for channel %s has both evidence pieces - completing",
		ticket.ID, ticket.ChannelID)
	u.statsService.IncrTicketsCompleted()

	noticeID, sendErr := u.discordClient.SendMessage(
		ticket.ChannelID,
		followUpMessage(ticket.RequesterTag, u.closeDelay),
	)
	if sendErr != nil {
		log.Printf("⚠️ Failed to send follow-up notice to channel %s: %v", ticket.ChannelID, sendErr)
	}

	if _, err := u.ticketsService.UpdateTicket(ctx, ticket.ChannelID, func(t *models.Ticket) {
		t.State = models.TicketStateClosureScheduled
		t.NoticeMessageID = noticeID
	}); err != nil {
		return fmt.Errorf("failed to mark closure scheduled for channel %s: %w", ticket.ChannelID, err)
	}

	channelID := ticket.ChannelID
	u.closeScheduler.Schedule(channelID, u.closeDelay, func() {
		u.dispatch(channelID, "ExecuteClosure", func(ctx context.Context) error {
			return u.executeClosure(ctx, channelID)
		})
	})

	log.Printf("📋 Completed successfully - closure of channel %s scheduled in %s", channelID, u.closeDelay)
	if sendErr != nil {
		return fmt.Errorf("failed to send follow-up notice: %w", sendErr)
	}
	return nil
}

// executeClosure performs the best-effort closure of a completed ticket's
// channel. Whatever the outcome, the ticket is retired from the registry so
// no timers or records leak.
func (u *IntakeUseCase) executeClosure(ctx context.Context, channelID string) error {
	log.Printf("📋 Starting to execute closure for channel %s", channelID)

	var closureErr error
	maybeChannel, err := u.discordClient.GetChannel(channelID)
	switch {
	case err != nil:
		closureErr = fmt.Errorf("failed to resolve channel %s at closure time: %w", channelID, err)
	case !maybeChannel.IsPresent():
		closureErr = fmt.Errorf("channel %s not found at closure time", channelID)
	default:
		if _, err := u.discordClient.SendMessage(channelID, closureCommand); err != nil {
			closureErr = fmt.Errorf("failed to send closure command to channel %s: %w", channelID, err)
			// The channel resolved, so fall back to posting manual instructions
			if _, fallbackErr := u.discordClient.SendMessage(channelID, manualCloseInstructions); fallbackErr != nil {
				log.Printf("⚠️ Fallback manual-close instructions also failed for channel %s: %v",
					channelID, fallbackErr)
			}
		}
	}

	// Closure is best-effort and never retried: the ticket is retired either way
	if _, err := u.ticketsService.UpdateTicket(ctx, channelID, func(t *models.Ticket) {
		t.State = models.TicketStateClosed
	}); err != nil {
		log.Printf("⚠️ Failed to mark ticket closed for channel %s: %v", channelID, err)
	}
	if err := u.ticketsService.RemoveTicket(ctx, channelID); err != nil {
		log.Printf("⚠️ Failed to remove ticket for channel %s: %v", channelID, err)
	}
	u.releasePool(channelID)

	if closureErr != nil {
		return closureErr
	}

	u.statsService.IncrTicketsClosed()
	log.Printf("📋 Completed successfully - closed channel %s and retired its ticket", channelID)
	return nil
}

// Shutdown stops all schedulers and drains the per-channel worker pools
func (u *IntakeUseCase) Shutdown() {
	u.waitScheduler.Stop()
	u.closeScheduler.Stop()

	u.mu.Lock()
	pools := make([]*workerpool.WorkerPool, 0, len(u.pools))
	for channelID, pool := range u.pools {
		pools = append(pools, pool)
		delete(u.pools, channelID)
	}
	u.mu.Unlock()

	for _, pool := range pools {
		pool.StopWait()
	}
}

// expireFirstMessageWait discards a pending intake whose channel stayed silent
// past the timeout. This is a normal outcome, not an error; no ticket was ever
// registered.
func (u *IntakeUseCase) expireFirstMessageWait(channelID string) {
	u.mu.Lock()
	wasPending := u.pendingWaits[channelID]
	delete(u.pendingWaits, channelID)
	u.mu.Unlock()

	if !wasPending {
		return
	}

	log.Printf("⌛ No first message in channel %s within %s - discarding pending intake",
		channelID, u.firstMessageTimeout)
	u.releasePool(channelID)
}

// isChannelActive reports whether the bot currently cares about a channel:
// it has a pending first-message wait, a live pool, or a registered ticket
func (u *IntakeUseCase) isChannelActive(channelID string) bool {
	u.mu.Lock()
	if u.pendingWaits[channelID] || u.pools[channelID] != nil {
		u.mu.Unlock()
		return true
	}
	u.mu.Unlock()

	maybeTicket, err := u.ticketsService.GetTicketByChannelID(context.Background(), channelID)
	if err != nil {
		return false
	}
	return maybeTicket.IsPresent()
}

// dispatch submits a task to the channel's single-worker pool, creating the
// pool on first use. Per-channel tasks run strictly in submission order; a
// suspended send in one channel never blocks another channel's pool.
func (u *IntakeUseCase) dispatch(channelID, taskName string, task func(ctx context.Context) error) {
	u.mu.Lock()
	pool := u.pools[channelID]
	if pool == nil {
		pool = workerpool.New(1) // Sequential processing per channel
		u.pools[channelID] = pool
	}
	u.mu.Unlock()

	pool.Submit(func() {
		if err := task(context.Background()); err != nil {
			log.Printf("❌ %s failed for channel %s: %v", taskName, channelID, err)
			u.statsService.IncrErrors()
			if u.errorHook != nil {
				u.errorHook(taskName, err)
			}
		}
	})
}

// releasePool retires a channel's worker pool once the channel is no longer
// tracked, letting already-queued tasks drain first
func (u *IntakeUseCase) releasePool(channelID string) {
	u.mu.Lock()
	pool := u.pools[channelID]
	delete(u.pools, channelID)
	u.mu.Unlock()

	if pool != nil {
		go pool.StopWait()
	}
}

// deriveRequesterTag prefers the first explicitly mentioned user, falling
// back to the message author
func deriveRequesterTag(event models.MessageEvent) string {
	if len(event.Mentions) > 0 {
		return fmt.Sprintf("<@%s>", event.Mentions[0])
	}
	return fmt.Sprintf("<@%s>", event.AuthorID)
}
