package storage

import (
	"context"

	"github.com/xaenox/thread-tracker/internal/models"
)

// Storage is the persistent store for all tracker state. The database is the
// single source of truth; in-memory indexes and caches are read accelerators
// that are rebuilt from it.
//
// Mutating operations return a bool (or affected-row count) so callers can
// distinguish "already existed" from "newly created".
type Storage interface {
	ThreadStorage
	TodoStorage
	MuseStorage
	WatcherStorage
	SettingsStorage
	SubscriberStorage
	ScheduleStorage

	Statistics(ctx context.Context) (models.Statistics, error)
	Close() error
}

type ThreadStorage interface {
	AddThread(ctx context.Context, thread models.TrackedThread) (bool, error)
	UpdateThreadCategory(ctx context.Context, guildID, userID, channelID, category string) (bool, error)
	RemoveThread(ctx context.Context, guildID, userID, channelID string) (int64, error)
	// RemoveAllThreads removes every tracked thread for the user, or only
	// those in the given category when one is provided.
	RemoveAllThreads(ctx context.Context, guildID, userID string, category *string) (int64, error)
	ListThreads(ctx context.Context, guildID, userID string, category *string) ([]models.TrackedThread, error)
	// ListTrackedChannelIDs returns every channel tracked by any user, used
	// to rebuild the in-memory fast-path set on startup.
	ListTrackedChannelIDs(ctx context.Context) ([]string, error)
	// ListThreadTrackers returns the IDs of users tracking the channel.
	ListThreadTrackers(ctx context.Context, guildID, channelID string) ([]string, error)
}

type TodoStorage interface {
	AddTodo(ctx context.Context, todo models.Todo) (bool, error)
	RemoveTodo(ctx context.Context, guildID, userID, content string) (int64, error)
	RemoveAllTodos(ctx context.Context, guildID, userID string, category *string) (int64, error)
	ListTodos(ctx context.Context, guildID, userID string, category *string) ([]models.Todo, error)
}

type MuseStorage interface {
	AddMuse(ctx context.Context, muse models.Muse) (bool, error)
	RemoveMuse(ctx context.Context, guildID, userID, name string) (int64, error)
	ListMuses(ctx context.Context, guildID, userID string) ([]string, error)
}

type WatcherStorage interface {
	AddWatcher(ctx context.Context, watcher models.ThreadWatcher) (bool, error)
	GetWatcher(ctx context.Context, channelID, messageID string) (*models.ThreadWatcher, error)
	RemoveWatcher(ctx context.Context, watcherID int) (int64, error)
	ListWatchers(ctx context.Context) ([]models.ThreadWatcher, error)
	ListGuildWatchers(ctx context.Context, guildID, userID string) ([]models.ThreadWatcher, error)
}

type SettingsStorage interface {
	GetUserSetting(ctx context.Context, userID, name string) (string, bool, error)
	// SetUserSetting stores the value and reports whether anything changed.
	SetUserSetting(ctx context.Context, userID, name, value string) (bool, error)
}

type SubscriberStorage interface {
	AddSubscriber(ctx context.Context, userID string) (bool, error)
	RemoveSubscriber(ctx context.Context, userID string) (int64, error)
	IsSubscriber(ctx context.Context, userID string) (bool, error)
}

type ScheduleStorage interface {
	AddScheduledMessage(ctx context.Context, message models.ScheduledMessage) (int, error)
	GetScheduledMessage(ctx context.Context, id int) (*models.ScheduledMessage, error)
	// UpdateScheduledMessage updates only the provided fields.
	UpdateScheduledMessage(ctx context.Context, id int, datetime, repeat, title, message, channelID *string) (bool, error)
	DeleteScheduledMessage(ctx context.Context, id int) (bool, error)
	ListScheduledMessages(ctx context.Context, userID string) ([]models.ScheduledMessage, error)
	ListAllScheduledMessages(ctx context.Context) ([]models.ScheduledMessage, error)
	ArchiveScheduledMessage(ctx context.Context, id int) error
}
