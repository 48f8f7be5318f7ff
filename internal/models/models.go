package models

import "strings"

// TrackedThread is a conversation channel a user has registered for
// reply-status monitoring. At most one row exists per
// (user_id, guild_id, channel_id).
type TrackedThread struct {
	ID        int    `json:"id"`
	ChannelID string `json:"channel_id"`
	GuildID   string `json:"guild_id"`
	UserID    string `json:"user_id"`
	Category  string `json:"category,omitempty"`
}

// Todo is a freeform to do list entry. Content is unique per (user, guild).
type Todo struct {
	ID       int    `json:"id"`
	UserID   string `json:"user_id"`
	GuildID  string `json:"guild_id"`
	Content  string `json:"content"`
	Category string `json:"category,omitempty"`
}

// Muse is a registered persona name. Replies attributed to a muse do not
// count as awaiting the owning user's reply.
type Muse struct {
	ID      int    `json:"id"`
	UserID  string `json:"user_id"`
	GuildID string `json:"guild_id"`
	Name    string `json:"name"`
}

// ThreadWatcher binds a previously sent list message to a report
// specification that is refreshed periodically.
type ThreadWatcher struct {
	ID         int    `json:"id"`
	UserID     string `json:"user_id"`
	GuildID    string `json:"guild_id"`
	ChannelID  string `json:"channel_id"`
	MessageID  string `json:"message_id"`
	Categories string `json:"categories,omitempty"`
}

// CategoryFilter splits the watcher's stored category list. An empty list
// means the watcher covers all categories.
func (w ThreadWatcher) CategoryFilter() []string {
	return strings.Fields(w.Categories)
}

// Well-known user setting names.
const (
	SettingTimestamps = "timestamps"
	SettingTimezone   = "timezone"
)

// UserSetting is a single entry in the per-user key-value settings table.
type UserSetting struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Value  string `json:"value"`
}

// ScheduledMessage is a message queued for future delivery, optionally
// repeating. Datetime is stored as RFC3339.
type ScheduledMessage struct {
	ID        int    `json:"id"`
	UserID    string `json:"user_id"`
	ChannelID string `json:"channel_id"`
	Datetime  string `json:"datetime"`
	Repeat    string `json:"repeat"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Archived  bool   `json:"archived"`
}

// Statistics holds aggregate usage counts across the whole database.
type Statistics struct {
	Users           int64 `json:"users"`
	Servers         int64 `json:"servers"`
	ThreadsDistinct int64 `json:"threads_distinct"`
	ThreadsTotal    int64 `json:"threads_total"`
	Muses           int64 `json:"muses"`
	Todos           int64 `json:"todos"`
	Watchers        int64 `json:"watchers"`
}
