package tracker

import (
	"context"
	"math/rand"

	"github.com/xaenox/thread-tracker/internal/models"
)

// PendingThreads returns the tracked threads whose most recent message was
// written by someone other than the user or one of the user's muses. Threads
// with no resolvable messages are not pending.
func (t *Tracker) PendingThreads(ctx context.Context, guildID, userID string, categories []string) ([]PendingThread, error) {
	threads, err := t.ThreadsInCategories(ctx, guildID, userID, categories)
	if err != nil {
		return nil, err
	}

	muses, err := t.store.ListMuses(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}

	museSet := make(map[string]bool, len(muses))
	for _, muse := range muses {
		museSet[muse] = true
	}

	var pending []PendingThread
	for _, thread := range threads {
		reply := t.LastResponder(ctx, thread)
		if reply == nil {
			continue
		}
		if reply.Author.ID == userID || museSet[reply.Name] {
			continue
		}
		pending = append(pending, PendingThread{Thread: thread, LastReply: *reply})
	}

	return pending, nil
}

// PendingThread pairs a tracked thread with the reply that made it pending.
type PendingThread struct {
	Thread    models.TrackedThread
	LastReply LastReply
}

// RandomPendingThread picks one pending thread uniformly at random. Returns
// nil when nothing awaits a reply.
func (t *Tracker) RandomPendingThread(ctx context.Context, guildID, userID string, categories []string) (*PendingThread, error) {
	pending, err := t.PendingThreads(ctx, guildID, userID, categories)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, nil
	}

	return &pending[rand.Intn(len(pending))], nil
}
