package tracker

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xaenox/thread-tracker/internal/models"
	"github.com/xaenox/thread-tracker/internal/platform"
)

// SortOrder controls how threads are ordered within each category.
type SortOrder int

const (
	SortNone SortOrder = iota
	SortOldestFirst
	SortNewestFirst
)

// ListOptions tunes a single formatted list render.
type ListOptions struct {
	Sort           SortOrder
	ShowTimestamps bool
}

const (
	threadNameMaxLength = 32
	emptyListMessage    = "No threads are currently being tracked."
)

type threadEntry struct {
	thread models.TrackedThread
	reply  *LastReply
}

// FormattedList renders the user's tracked threads and to do entries as a
// single report. Threads and todos are grouped by category with uncategorised
// threads first and uncategorised todos deferred to a trailing "To Do"
// section. The output is plain structured text that callers may split on line
// boundaries.
func (t *Tracker) FormattedList(
	ctx context.Context,
	guildID, userID string,
	threads []models.TrackedThread,
	todos []models.Todo,
	muses []string,
	opts ListOptions,
) (string, error) {
	threadNames, err := t.activeThreadNames(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("error listing active threads: %w", err)
	}

	museSet := make(map[string]bool, len(muses))
	for _, muse := range muses {
		museSet[muse] = true
	}

	threadBuckets := Partition(threads, func(th models.TrackedThread) string { return th.Category })
	todoBuckets := Partition(todos, func(td models.Todo) string { return td.Category })

	var b strings.Builder
	for _, category := range CategoryOrder(Keys(threadBuckets), Keys(todoBuckets)) {
		if category != "" {
			b.WriteString("### ")
			b.WriteString(category)
			b.WriteString("\n\n")
		}

		entries := make([]threadEntry, 0, len(threadBuckets[category]))
		for _, thread := range threadBuckets[category] {
			entries = append(entries, threadEntry{thread: thread, reply: t.LastResponder(ctx, thread)})
		}
		sortEntries(entries, opts.Sort)

		for _, entry := range entries {
			t.writeThreadLine(ctx, &b, entry, threadNames, userID, museSet, opts.ShowTimestamps)
		}

		// Uncategorised todos are deferred to the end of the report.
		if category != "" {
			for _, todo := range todoBuckets[category] {
				b.WriteString("- ")
				b.WriteString(todo.Content)
				b.WriteString("\n")
			}
		}

		b.WriteString("\n")
	}

	if uncategorised := todoBuckets[""]; len(uncategorised) > 0 {
		b.WriteString("## To Do\n\n")
		for _, todo := range uncategorised {
			b.WriteString("- ")
			b.WriteString(todo.Content)
			b.WriteString("\n")
		}
	}

	if strings.TrimSpace(b.String()) == "" {
		return emptyListMessage + "\n", nil
	}

	return b.String(), nil
}

// activeThreadNames enumerates the guild's active threads, warming the
// message cache for each and returning a channel id to name map used for
// link text.
func (t *Tracker) activeThreadNames(ctx context.Context, guildID string) (map[string]string, error) {
	active, err := t.client.ListActiveThreads(ctx, guildID)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(active))
	for _, info := range active {
		t.WarmChannelCache(ctx, info.ID, info.LastMessageID)
		names[info.ID] = info.Name
	}

	return names, nil
}

func sortEntries(entries []threadEntry, order SortOrder) {
	if order == SortNone {
		return
	}

	// Entries with no resolvable reply carry the zero time, which sorts
	// first under OldestFirst and last under NewestFirst.
	sort.SliceStable(entries, func(i, j int) bool {
		ti, tj := replyTime(entries[i].reply), replyTime(entries[j].reply)
		if order == SortNewestFirst {
			return ti.After(tj)
		}
		return ti.Before(tj)
	})
}

func replyTime(reply *LastReply) time.Time {
	if reply == nil {
		return time.Time{}
	}
	return reply.Timestamp
}

func (t *Tracker) writeThreadLine(
	ctx context.Context,
	b *strings.Builder,
	entry threadEntry,
	threadNames map[string]string,
	userID string,
	museSet map[string]bool,
	showTimestamps bool,
) {
	b.WriteString("- ")
	b.WriteString(t.threadLink(ctx, entry.thread, threadNames))
	b.WriteString(" — ")

	switch {
	case entry.reply == nil:
		b.WriteString("**No replies yet**")
	case entry.reply.Author.ID == userID || museSet[entry.reply.Name]:
		b.WriteString(entry.reply.Name)
	default:
		b.WriteString("**")
		b.WriteString(entry.reply.Name)
		b.WriteString("**")
	}

	if showTimestamps && entry.reply != nil {
		fmt.Fprintf(b, " (<t:%d:R>)", entry.reply.Timestamp.Unix())
	}

	b.WriteString("\n")
}

// threadLink builds a named link to the thread, falling back to a bare
// channel mention when the name cannot be resolved.
func (t *Tracker) threadLink(ctx context.Context, thread models.TrackedThread, threadNames map[string]string) string {
	name, ok := threadNames[thread.ChannelID]
	if !ok {
		if channel, err := t.client.FetchChannel(ctx, thread.ChannelID); err == nil {
			name = channel.Name
		}
	}

	if name == "" {
		return fmt.Sprintf("<#%s>", thread.ChannelID)
	}

	return fmt.Sprintf("[**#%s**](%s)", truncateName(name, threadNameMaxLength), platform.ChannelLink(thread.GuildID, thread.ChannelID))
}

// truncateName trims the name to at most maxLength runes, appending an
// ellipsis when anything was cut.
func truncateName(name string, maxLength int) string {
	runes := []rune(name)
	if len(runes) <= maxLength {
		return name
	}

	trimmed := strings.TrimSpace(string(runes[:maxLength-1]))
	return trimmed + "…"
}
