package bot

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/xaenox/thread-tracker/internal/platform"
	"github.com/xaenox/thread-tracker/internal/storage"
	"github.com/xaenox/thread-tracker/internal/tracker"
	"github.com/xaenox/thread-tracker/pkg/config"
)

// Bot ties the Discord session to the tracker core. All shared state is
// constructed once here and passed into every handler; the tracked-channel
// set is a read accelerator rebuilt from the store on startup.
type Bot struct {
	session *discordgo.Session
	client  platform.Client
	store   storage.Storage
	tracker *tracker.Tracker
	logger  *zap.Logger
	cfg     config.TrackerConfig

	mu      sync.RWMutex
	tracked map[string]bool

	confirmMu sync.Mutex
	confirms  map[platform.ChannelMessage]*confirmWaiter
}

func New(
	session *discordgo.Session,
	client platform.Client,
	store storage.Storage,
	tr *tracker.Tracker,
	logger *zap.Logger,
	cfg config.TrackerConfig,
) *Bot {
	return &Bot{
		session:  session,
		client:   client,
		store:    store,
		tracker:  tr,
		logger:   logger,
		cfg:      cfg,
		tracked:  make(map[string]bool),
		confirms: make(map[platform.ChannelMessage]*confirmWaiter),
	}
}

// Run opens the gateway connection and blocks until the context is done.
func (b *Bot) Run(ctx context.Context) error {
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onInteractionCreate)
	b.session.AddHandler(b.onMessageReactionAdd)

	b.session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening gateway connection: %w", err)
	}
	defer b.session.Close()

	if err := b.rebuildTrackedSet(ctx); err != nil {
		return err
	}

	if err := b.registerSlashCommands(); err != nil {
		b.logger.Warn("Failed to register slash commands", zap.Error(err))
	}

	b.logger.Info("Bot is running",
		zap.String("user", b.session.State.User.Username),
		zap.String("user_id", b.session.State.User.ID))

	return b.runPeriodicTasks(ctx)
}

// rebuildTrackedSet reloads the fast-path channel set from the store.
func (b *Bot) rebuildTrackedSet(ctx context.Context) error {
	channelIDs, err := b.store.ListTrackedChannelIDs(ctx)
	if err != nil {
		return fmt.Errorf("error loading tracked channel ids: %w", err)
	}

	tracked := make(map[string]bool, len(channelIDs))
	for _, id := range channelIDs {
		tracked[id] = true
	}

	b.mu.Lock()
	b.tracked = tracked
	b.mu.Unlock()

	b.logger.Info("Rebuilt tracked channel set", zap.Int("channels", len(tracked)))
	return nil
}

func (b *Bot) isTrackedChannel(channelID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tracked[channelID]
}

func (b *Bot) markTracked(channelID string) {
	b.mu.Lock()
	b.tracked[channelID] = true
	b.mu.Unlock()
}

// unmarkTracked drops the channel from the fast-path set if no user tracks
// it any longer. The store is the source of truth.
func (b *Bot) unmarkTracked(ctx context.Context, guildID, channelID string) {
	trackers, err := b.store.ListThreadTrackers(ctx, guildID, channelID)
	if err != nil {
		b.logger.Warn("Failed to check remaining thread trackers",
			zap.String("channel_id", channelID),
			zap.Error(err))
		return
	}
	if len(trackers) > 0 {
		return
	}

	b.mu.Lock()
	delete(b.tracked, channelID)
	b.mu.Unlock()
}

func (b *Bot) botUserID() string {
	if b.session.State != nil && b.session.State.User != nil {
		return b.session.State.User.ID
	}
	return ""
}
