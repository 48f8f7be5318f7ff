// Package tracker implements the thread-state aggregation pipeline: resolving
// who last replied to each tracked thread, classifying which threads await the
// user's reply, and rendering the formatted thread/todo report. The same code
// paths serve on-demand list commands and the periodic watcher refresh.
package tracker

import (
	"context"

	"go.uber.org/zap"

	"github.com/xaenox/thread-tracker/internal/cache"
	"github.com/xaenox/thread-tracker/internal/models"
	"github.com/xaenox/thread-tracker/internal/platform"
	"github.com/xaenox/thread-tracker/internal/storage"
)

// Options tunes watcher refresh behaviour.
type Options struct {
	// SelfHealWatchers deletes watcher records whose bound message can no
	// longer be found. Disabled in debug setups so a shared database isn't
	// mutated while testing against stale messages.
	SelfHealWatchers bool
	// MaxConcurrentUpdates bounds how many watcher messages are updated at
	// once within a single refresh sweep.
	MaxConcurrentUpdates int
}

// Tracker aggregates thread state from the store and the chat platform.
type Tracker struct {
	store  storage.Storage
	client platform.Client
	cache  *cache.MessageCache
	logger *zap.Logger
	opts   Options
}

func New(store storage.Storage, client platform.Client, messageCache *cache.MessageCache, logger *zap.Logger, opts Options) *Tracker {
	if opts.MaxConcurrentUpdates < 1 {
		opts.MaxConcurrentUpdates = 1
	}

	return &Tracker{
		store:  store,
		client: client,
		cache:  messageCache,
		logger: logger,
		opts:   opts,
	}
}

// Cache exposes the message cache for the inbound-event fast path.
func (t *Tracker) Cache() *cache.MessageCache {
	return t.cache
}

// ThreadsInCategories lists the user's tracked threads, restricted to the
// given categories when any are provided.
func (t *Tracker) ThreadsInCategories(ctx context.Context, guildID, userID string, categories []string) ([]models.TrackedThread, error) {
	if len(categories) == 0 {
		return t.store.ListThreads(ctx, guildID, userID, nil)
	}

	var threads []models.TrackedThread
	for _, category := range categories {
		c := category
		listed, err := t.store.ListThreads(ctx, guildID, userID, &c)
		if err != nil {
			return nil, err
		}
		threads = append(threads, listed...)
	}

	return threads, nil
}

// TodosInCategories lists the user's to do entries, restricted to the given
// categories when any are provided.
func (t *Tracker) TodosInCategories(ctx context.Context, guildID, userID string, categories []string) ([]models.Todo, error) {
	if len(categories) == 0 {
		return t.store.ListTodos(ctx, guildID, userID, nil)
	}

	var todos []models.Todo
	for _, category := range categories {
		c := category
		listed, err := t.store.ListTodos(ctx, guildID, userID, &c)
		if err != nil {
			return nil, err
		}
		todos = append(todos, listed...)
	}

	return todos, nil
}

// CacheChannelMessage stores a just-received message in the message cache so
// the next list render can skip the API round trip.
func (t *Tracker) CacheChannelMessage(message *platform.Message) {
	key := platform.ChannelMessage{ChannelID: message.ChannelID, MessageID: message.ID}
	t.cache.Store(key, message)
}
