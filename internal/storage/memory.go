package storage

import (
	"context"
	"sync"

	"github.com/xaenox/thread-tracker/internal/models"
)

// MemoryStorage is an in-memory Storage implementation used for local
// development and tests.
type MemoryStorage struct {
	mu sync.RWMutex

	nextID     int
	threads    []models.TrackedThread
	todos      []models.Todo
	muses      []models.Muse
	watchers   []models.ThreadWatcher
	settings   map[string]map[string]string
	subs       map[string]bool
	schedules  []models.ScheduledMessage
}

var _ Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		nextID:   1,
		settings: make(map[string]map[string]string),
		subs:     make(map[string]bool),
	}
}

func (s *MemoryStorage) newID() int {
	id := s.nextID
	s.nextID++
	return id
}

func matchesCategory(category string, filter *string) bool {
	return filter == nil || category == *filter
}

func (s *MemoryStorage) AddThread(_ context.Context, thread models.TrackedThread) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.threads {
		if t.UserID == thread.UserID && t.GuildID == thread.GuildID && t.ChannelID == thread.ChannelID {
			return false, nil
		}
	}

	thread.ID = s.newID()
	s.threads = append(s.threads, thread)
	return true, nil
}

func (s *MemoryStorage) UpdateThreadCategory(_ context.Context, guildID, userID, channelID, category string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.threads {
		if t.UserID == userID && t.GuildID == guildID && t.ChannelID == channelID {
			s.threads[i].Category = category
			return true, nil
		}
	}

	return false, nil
}

func (s *MemoryStorage) RemoveThread(_ context.Context, guildID, userID, channelID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	kept := s.threads[:0]
	for _, t := range s.threads {
		if t.UserID == userID && t.GuildID == guildID && t.ChannelID == channelID {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	s.threads = kept

	return removed, nil
}

func (s *MemoryStorage) RemoveAllThreads(_ context.Context, guildID, userID string, category *string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	kept := s.threads[:0]
	for _, t := range s.threads {
		if t.UserID == userID && t.GuildID == guildID && matchesCategory(t.Category, category) {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	s.threads = kept

	return removed, nil
}

func (s *MemoryStorage) ListThreads(_ context.Context, guildID, userID string, category *string) ([]models.TrackedThread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var threads []models.TrackedThread
	for _, t := range s.threads {
		if t.UserID == userID && t.GuildID == guildID && matchesCategory(t.Category, category) {
			threads = append(threads, t)
		}
	}

	return threads, nil
}

func (s *MemoryStorage) ListTrackedChannelIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var ids []string
	for _, t := range s.threads {
		if !seen[t.ChannelID] {
			seen[t.ChannelID] = true
			ids = append(ids, t.ChannelID)
		}
	}

	return ids, nil
}

func (s *MemoryStorage) ListThreadTrackers(_ context.Context, guildID, channelID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var users []string
	for _, t := range s.threads {
		if t.GuildID == guildID && t.ChannelID == channelID {
			users = append(users, t.UserID)
		}
	}

	return users, nil
}

func (s *MemoryStorage) AddTodo(_ context.Context, todo models.Todo) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.todos {
		if t.UserID == todo.UserID && t.GuildID == todo.GuildID && t.Content == todo.Content {
			if t.Category == todo.Category {
				return false, nil
			}
			s.todos[i].Category = todo.Category
			return true, nil
		}
	}

	todo.ID = s.newID()
	s.todos = append(s.todos, todo)
	return true, nil
}

func (s *MemoryStorage) RemoveTodo(_ context.Context, guildID, userID, content string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	kept := s.todos[:0]
	for _, t := range s.todos {
		if t.UserID == userID && t.GuildID == guildID && t.Content == content {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	s.todos = kept

	return removed, nil
}

func (s *MemoryStorage) RemoveAllTodos(_ context.Context, guildID, userID string, category *string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	kept := s.todos[:0]
	for _, t := range s.todos {
		if t.UserID == userID && t.GuildID == guildID && matchesCategory(t.Category, category) {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	s.todos = kept

	return removed, nil
}

func (s *MemoryStorage) ListTodos(_ context.Context, guildID, userID string, category *string) ([]models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var todos []models.Todo
	for _, t := range s.todos {
		if t.UserID == userID && t.GuildID == guildID && matchesCategory(t.Category, category) {
			todos = append(todos, t)
		}
	}

	return todos, nil
}

func (s *MemoryStorage) AddMuse(_ context.Context, muse models.Muse) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.muses {
		if m.UserID == muse.UserID && m.GuildID == muse.GuildID && m.Name == muse.Name {
			return false, nil
		}
	}

	muse.ID = s.newID()
	s.muses = append(s.muses, muse)
	return true, nil
}

func (s *MemoryStorage) RemoveMuse(_ context.Context, guildID, userID, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	kept := s.muses[:0]
	for _, m := range s.muses {
		if m.UserID == userID && m.GuildID == guildID && m.Name == name {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	s.muses = kept

	return removed, nil
}

func (s *MemoryStorage) ListMuses(_ context.Context, guildID, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []string
	for _, m := range s.muses {
		if m.UserID == userID && m.GuildID == guildID {
			names = append(names, m.Name)
		}
	}

	return names, nil
}

func (s *MemoryStorage) AddWatcher(_ context.Context, watcher models.ThreadWatcher) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.watchers {
		if w.ChannelID == watcher.ChannelID && w.MessageID == watcher.MessageID {
			return false, nil
		}
	}

	watcher.ID = s.newID()
	s.watchers = append(s.watchers, watcher)
	return true, nil
}

func (s *MemoryStorage) GetWatcher(_ context.Context, channelID, messageID string) (*models.ThreadWatcher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, w := range s.watchers {
		if w.ChannelID == channelID && w.MessageID == messageID {
			watcher := w
			return &watcher, nil
		}
	}

	return nil, nil
}

func (s *MemoryStorage) RemoveWatcher(_ context.Context, watcherID int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	kept := s.watchers[:0]
	for _, w := range s.watchers {
		if w.ID == watcherID {
			removed++
			continue
		}
		kept = append(kept, w)
	}
	s.watchers = kept

	return removed, nil
}

func (s *MemoryStorage) ListWatchers(_ context.Context) ([]models.ThreadWatcher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.ThreadWatcher(nil), s.watchers...), nil
}

func (s *MemoryStorage) ListGuildWatchers(_ context.Context, guildID, userID string) ([]models.ThreadWatcher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var watchers []models.ThreadWatcher
	for _, w := range s.watchers {
		if w.GuildID == guildID && w.UserID == userID {
			watchers = append(watchers, w)
		}
	}

	return watchers, nil
}

func (s *MemoryStorage) GetUserSetting(_ context.Context, userID, name string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.settings[userID][name]
	return value, ok, nil
}

func (s *MemoryStorage) SetUserSetting(_ context.Context, userID, name, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settings[userID] == nil {
		s.settings[userID] = make(map[string]string)
	}
	if s.settings[userID][name] == value {
		return false, nil
	}

	s.settings[userID][name] = value
	return true, nil
}

func (s *MemoryStorage) AddSubscriber(_ context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs[userID] {
		return false, nil
	}

	s.subs[userID] = true
	return true, nil
}

func (s *MemoryStorage) RemoveSubscriber(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.subs[userID] {
		return 0, nil
	}

	delete(s.subs, userID)
	return 1, nil
}

func (s *MemoryStorage) IsSubscriber(_ context.Context, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.subs[userID], nil
}

func (s *MemoryStorage) AddScheduledMessage(_ context.Context, message models.ScheduledMessage) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	message.ID = s.newID()
	s.schedules = append(s.schedules, message)
	return message.ID, nil
}

func (s *MemoryStorage) GetScheduledMessage(_ context.Context, id int) (*models.ScheduledMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.schedules {
		if m.ID == id {
			message := m
			return &message, nil
		}
	}

	return nil, nil
}

func (s *MemoryStorage) UpdateScheduledMessage(_ context.Context, id int, datetime, repeat, title, message, channelID *string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.schedules {
		if m.ID != id {
			continue
		}

		if datetime != nil {
			s.schedules[i].Datetime = *datetime
		}
		if repeat != nil {
			s.schedules[i].Repeat = *repeat
		}
		if title != nil {
			s.schedules[i].Title = *title
		}
		if message != nil {
			s.schedules[i].Message = *message
		}
		if channelID != nil {
			s.schedules[i].ChannelID = *channelID
		}
		s.schedules[i].Archived = false

		return true, nil
	}

	return false, nil
}

func (s *MemoryStorage) DeleteScheduledMessage(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.schedules[:0]
	var removed bool
	for _, m := range s.schedules {
		if m.ID == id {
			removed = true
			continue
		}
		kept = append(kept, m)
	}
	s.schedules = kept

	return removed, nil
}

func (s *MemoryStorage) ListScheduledMessages(_ context.Context, userID string) ([]models.ScheduledMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var messages []models.ScheduledMessage
	for _, m := range s.schedules {
		if m.UserID == userID && !m.Archived {
			messages = append(messages, m)
		}
	}

	return messages, nil
}

func (s *MemoryStorage) ListAllScheduledMessages(_ context.Context) ([]models.ScheduledMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.ScheduledMessage(nil), s.schedules...), nil
}

func (s *MemoryStorage) ArchiveScheduledMessage(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.schedules {
		if m.ID == id {
			s.schedules[i].Archived = true
			break
		}
	}

	return nil
}

func (s *MemoryStorage) Statistics(_ context.Context) (models.Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make(map[string]bool)
	servers := make(map[string]bool)
	channels := make(map[string]bool)
	for _, t := range s.threads {
		users[t.UserID] = true
		servers[t.GuildID] = true
		channels[t.ChannelID] = true
	}

	return models.Statistics{
		Users:           int64(len(users)),
		Servers:         int64(len(servers)),
		ThreadsDistinct: int64(len(channels)),
		ThreadsTotal:    int64(len(s.threads)),
		Muses:           int64(len(s.muses)),
		Todos:           int64(len(s.todos)),
		Watchers:        int64(len(s.watchers)),
	}, nil
}

func (s *MemoryStorage) Close() error {
	return nil
}
