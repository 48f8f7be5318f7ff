package bot

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xaenox/thread-tracker/internal/models"
	"github.com/xaenox/thread-tracker/internal/platform"
)

const scheduleDatetimeLayout = "2006-01-02 15:04:05"

var repeatTokenPattern = regexp.MustCompile(`^([0-9]+)([a-zA-Z]+)$`)

// applyRepeatDuration advances from by the parsed repeat specification until
// the result is in the future. Repeat specs are whitespace-separated tokens
// like "1w", "3 days" is invalid but "3d 12h" works. Calendar units (days,
// weeks, months, years) respect month lengths and leap years.
func applyRepeatDuration(repeat string, from, now time.Time) (time.Time, error) {
	repeat = strings.TrimSpace(repeat)
	if repeat == "" {
		return time.Time{}, fmt.Errorf("the repeat duration is empty")
	}

	var delta time.Duration
	var days, months, years int
	var unrecognised []string

	for _, token := range strings.Fields(repeat) {
		m := repeatTokenPattern.FindStringSubmatch(token)
		if m == nil {
			unrecognised = append(unrecognised, token)
			continue
		}

		n, err := strconv.Atoi(m[1])
		if err != nil {
			unrecognised = append(unrecognised, token)
			continue
		}

		switch m[2] {
		case "s", "sec", "secs", "second", "seconds":
			delta += time.Duration(n) * time.Second
		case "m", "min", "mins", "minute", "minutes":
			delta += time.Duration(n) * time.Minute
		case "h", "hr", "hrs", "hour", "hours":
			delta += time.Duration(n) * time.Hour
		case "d", "dy", "dys", "day", "days":
			days += n
		case "w", "wk", "wks", "week", "weeks":
			days += n * 7
		case "M", "mo", "mos", "month", "months":
			months += n
		case "y", "yr", "yrs", "year", "years":
			years += n
		default:
			unrecognised = append(unrecognised, token)
		}
	}

	if len(unrecognised) > 0 {
		return time.Time{}, fmt.Errorf("unrecognised tokens in repeat duration: %s", strings.Join(unrecognised, ", "))
	}

	if delta == 0 && days == 0 && months == 0 && years == 0 {
		return time.Time{}, fmt.Errorf("the repeat duration %q advances time by nothing", repeat)
	}

	// Keep applying the offset until the result is in the future, so a
	// repeating message missed during downtime is not sent repeatedly to
	// catch up. The iteration cap guards against degenerate specs.
	next := from
	for i := 0; !next.After(now); i++ {
		if i >= 10000 {
			return time.Time{}, fmt.Errorf("repeat duration %q could not produce a future datetime from %s", repeat, from)
		}
		next = next.AddDate(years, months, days).Add(delta)
	}

	return next, nil
}

func isRepeatNone(repeat string) bool {
	return repeat == "" || strings.EqualFold(repeat, "none")
}

// userLocation resolves the user's configured timezone, defaulting to UTC.
func (b *Bot) userLocation(ctx context.Context, userID string) *time.Location {
	name, ok, err := b.store.GetUserSetting(ctx, userID, models.SettingTimezone)
	if err != nil || !ok {
		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		b.logger.Warn("Stored timezone no longer loads",
			zap.String("user_id", userID),
			zap.String("timezone", name),
			zap.Error(err))
		return time.UTC
	}

	return loc
}

func (b *Bot) handleTimezone(ctx context.Context, inv invocation, args []string) {
	if len(args) != 1 {
		b.replyError(ctx, inv.channelID, "Missing arguments",
			fmt.Sprintf("Please provide an IANA timezone name, for example: `%stimezone Australia/Sydney`.", commandPrefix))
		return
	}

	if _, err := time.LoadLocation(args[0]); err != nil {
		b.replyError(ctx, inv.channelID, "Unknown timezone",
			fmt.Sprintf("`%s` is not a recognised timezone name.", args[0]))
		return
	}

	if _, err := b.store.SetUserSetting(ctx, inv.userID, models.SettingTimezone, args[0]); err != nil {
		b.logger.Error("Failed to store timezone setting", zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error saving setting", "Could not save your timezone.")
		return
	}

	b.replySuccess(ctx, inv.channelID, "Timezone saved",
		fmt.Sprintf("Scheduled message times are now interpreted in `%s`.", args[0]))
}

func (b *Bot) handleSchedule(ctx context.Context, inv invocation, args []string) {
	if len(args) == 0 {
		b.scheduleUsage(ctx, inv.channelID)
		return
	}

	switch strings.ToLower(args[0]) {
	case "add":
		b.handleScheduleAdd(ctx, inv, args[1:])
	case "list":
		b.handleScheduleList(ctx, inv)
	case "get":
		b.handleScheduleGet(ctx, inv, args[1:])
	case "remove":
		b.handleScheduleRemove(ctx, inv, args[1:])
	case "update":
		b.handleScheduleUpdate(ctx, inv, args[1:])
	default:
		b.scheduleUsage(ctx, inv.channelID)
	}
}

func (b *Bot) scheduleUsage(ctx context.Context, channelID string) {
	b.replyError(ctx, channelID, "Missing arguments", fmt.Sprintf(
		"Usage:\n"+
			"- `%sschedule add <yyyy-mm-dd> <hh:mm:ss> <repeat|none> <title> | <message>`\n"+
			"- `%sschedule list`\n"+
			"- `%sschedule get <id>`\n"+
			"- `%sschedule update <id> <datetime|repeat|title|message> <value>`\n"+
			"- `%sschedule remove <id>`",
		commandPrefix, commandPrefix, commandPrefix, commandPrefix, commandPrefix))
}

func (b *Bot) handleScheduleAdd(ctx context.Context, inv invocation, args []string) {
	joined := strings.Join(args, " ")
	parts := strings.SplitN(joined, "|", 2)
	if len(parts) != 2 {
		b.scheduleUsage(ctx, inv.channelID)
		return
	}

	head := strings.Fields(parts[0])
	body := strings.TrimSpace(parts[1])
	if len(head) < 4 || body == "" {
		b.scheduleUsage(ctx, inv.channelID)
		return
	}

	datetime, repeat := head[0]+" "+head[1], head[2]
	title := strings.Join(head[3:], " ")

	loc := b.userLocation(ctx, inv.userID)
	scheduled, err := time.ParseInLocation(scheduleDatetimeLayout, datetime, loc)
	if err != nil {
		b.replyError(ctx, inv.channelID, "Invalid datetime",
			fmt.Sprintf("Could not parse `%s`; expected `yyyy-mm-dd hh:mm:ss`.", datetime))
		return
	}

	now := time.Now()
	if !scheduled.After(now) {
		b.replyError(ctx, inv.channelID, "Invalid datetime", "The scheduled time must be in the future.")
		return
	}

	if !isRepeatNone(repeat) {
		if _, err := applyRepeatDuration(repeat, scheduled.UTC(), now.UTC()); err != nil {
			b.replyError(ctx, inv.channelID, "Invalid repeat", err.Error())
			return
		}
	} else {
		repeat = "None"
	}

	id, err := b.store.AddScheduledMessage(ctx, models.ScheduledMessage{
		UserID:    inv.userID,
		ChannelID: inv.channelID,
		Datetime:  scheduled.UTC().Format(time.RFC3339),
		Repeat:    repeat,
		Title:     title,
		Message:   body,
	})
	if err != nil {
		b.logger.Error("Failed to add scheduled message", zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error scheduling message", "Could not save the scheduled message.")
		return
	}

	b.replySuccess(ctx, inv.channelID, "Message scheduled",
		b.formatScheduledMessage(ctx, inv.userID, models.ScheduledMessage{
			ID: id, ChannelID: inv.channelID,
			Datetime: scheduled.UTC().Format(time.RFC3339),
			Repeat:   repeat, Title: title, Message: body,
		}))
}

func (b *Bot) handleScheduleList(ctx context.Context, inv invocation) {
	messages, err := b.store.ListScheduledMessages(ctx, inv.userID)
	if err != nil {
		b.logger.Error("Failed to list scheduled messages", zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error listing scheduled messages", "Could not load your scheduled messages.")
		return
	}

	if len(messages) == 0 {
		b.replySuccess(ctx, inv.channelID, "Scheduled messages", "You have no scheduled messages.")
		return
	}

	var list strings.Builder
	for _, msg := range messages {
		fmt.Fprintf(&list, "- **%d**: %s at %s", msg.ID, msg.Title, b.displayLocalTime(ctx, inv.userID, msg.Datetime))
		if !isRepeatNone(msg.Repeat) {
			fmt.Fprintf(&list, " (every %s)", msg.Repeat)
		}
		list.WriteString("\n")
	}

	b.replySuccess(ctx, inv.channelID, "Scheduled messages", list.String())
}

func (b *Bot) handleScheduleGet(ctx context.Context, inv invocation, args []string) {
	message, ok := b.lookupOwnScheduledMessage(ctx, inv, args)
	if !ok {
		return
	}

	b.replySuccess(ctx, inv.channelID, "Scheduled message",
		b.formatScheduledMessage(ctx, inv.userID, *message))
}

func (b *Bot) handleScheduleRemove(ctx context.Context, inv invocation, args []string) {
	message, ok := b.lookupOwnScheduledMessage(ctx, inv, args)
	if !ok {
		return
	}

	deleted, err := b.store.DeleteScheduledMessage(ctx, message.ID)
	if err != nil || !deleted {
		b.logger.Error("Failed to delete scheduled message", zap.Int("id", message.ID), zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error removing scheduled message", "Could not remove the scheduled message.")
		return
	}

	b.replySuccess(ctx, inv.channelID, "Scheduled message removed",
		fmt.Sprintf("Scheduled message %d (`%s`) removed.", message.ID, message.Title))
}

func (b *Bot) handleScheduleUpdate(ctx context.Context, inv invocation, args []string) {
	if len(args) < 3 {
		b.scheduleUsage(ctx, inv.channelID)
		return
	}

	message, ok := b.lookupOwnScheduledMessage(ctx, inv, args[:1])
	if !ok {
		return
	}

	field := strings.ToLower(args[1])
	value := strings.Join(args[2:], " ")

	var datetime, repeat, title, body *string
	switch field {
	case "datetime":
		loc := b.userLocation(ctx, inv.userID)
		parsed, err := time.ParseInLocation(scheduleDatetimeLayout, value, loc)
		if err != nil {
			b.replyError(ctx, inv.channelID, "Invalid datetime",
				fmt.Sprintf("Could not parse `%s`; expected `yyyy-mm-dd hh:mm:ss`.", value))
			return
		}
		if !parsed.After(time.Now()) {
			b.replyError(ctx, inv.channelID, "Invalid datetime", "The scheduled time must be in the future.")
			return
		}
		v := parsed.UTC().Format(time.RFC3339)
		datetime = &v
	case "repeat":
		if !isRepeatNone(value) {
			existing, err := time.Parse(time.RFC3339, message.Datetime)
			if err != nil {
				existing = time.Now()
			}
			if _, err := applyRepeatDuration(value, existing.UTC(), time.Now().UTC()); err != nil {
				b.replyError(ctx, inv.channelID, "Invalid repeat", err.Error())
				return
			}
		} else {
			value = "None"
		}
		repeat = &value
	case "title":
		title = &value
	case "message":
		body = &value
	default:
		b.scheduleUsage(ctx, inv.channelID)
		return
	}

	updated, err := b.store.UpdateScheduledMessage(ctx, message.ID, datetime, repeat, title, body, nil)
	if err != nil || !updated {
		b.logger.Error("Failed to update scheduled message", zap.Int("id", message.ID), zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error updating scheduled message", "Could not update the scheduled message.")
		return
	}

	b.replySuccess(ctx, inv.channelID, "Scheduled message updated",
		fmt.Sprintf("Updated %s of scheduled message %d.", field, message.ID))
}

func (b *Bot) lookupOwnScheduledMessage(ctx context.Context, inv invocation, args []string) (*models.ScheduledMessage, bool) {
	if len(args) < 1 {
		b.scheduleUsage(ctx, inv.channelID)
		return nil, false
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		b.replyError(ctx, inv.channelID, "Invalid id",
			fmt.Sprintf("Could not parse `%s` as a scheduled message id.", args[0]))
		return nil, false
	}

	message, err := b.store.GetScheduledMessage(ctx, id)
	if err != nil {
		b.logger.Error("Failed to look up scheduled message", zap.Int("id", id), zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error loading scheduled message", "Could not look up the scheduled message.")
		return nil, false
	}
	if message == nil || message.UserID != inv.userID {
		b.replyError(ctx, inv.channelID, "Not found",
			fmt.Sprintf("You have no scheduled message with id %d.", id))
		return nil, false
	}

	return message, true
}

func (b *Bot) formatScheduledMessage(ctx context.Context, userID string, msg models.ScheduledMessage) string {
	var out strings.Builder
	fmt.Fprintf(&out, "**Id:** %d\n", msg.ID)
	fmt.Fprintf(&out, "**Title:** %s\n", msg.Title)
	fmt.Fprintf(&out, "**Datetime:** %s\n", b.displayLocalTime(ctx, userID, msg.Datetime))
	repeat := msg.Repeat
	if isRepeatNone(repeat) {
		repeat = "None"
	}
	fmt.Fprintf(&out, "**Repeat:** %s\n", repeat)
	fmt.Fprintf(&out, "**Channel:** <#%s>\n\n", msg.ChannelID)
	out.WriteString(msg.Message)

	return out.String()
}

func (b *Bot) displayLocalTime(ctx context.Context, userID, datetime string) string {
	parsed, err := time.Parse(time.RFC3339, datetime)
	if err != nil {
		return datetime
	}

	return parsed.In(b.userLocation(ctx, userID)).Format(scheduleDatetimeLayout)
}

// SendScheduledMessages delivers every due scheduled message, archiving
// one-shot messages and rescheduling repeating ones. A single message's
// failure is logged and does not abort the batch.
func (b *Bot) SendScheduledMessages(ctx context.Context) error {
	messages, err := b.store.ListAllScheduledMessages(ctx)
	if err != nil {
		return fmt.Errorf("error listing scheduled messages: %w", err)
	}

	now := time.Now().UTC()
	for _, message := range messages {
		if message.Archived {
			continue
		}

		scheduled, err := time.Parse(time.RFC3339, message.Datetime)
		if err != nil {
			b.logger.Error("Scheduled message has unparseable datetime",
				zap.Int("id", message.ID),
				zap.String("datetime", message.Datetime),
				zap.Error(err))
			continue
		}

		if scheduled.After(now) {
			continue
		}

		b.logger.Info("Sending scheduled message",
			zap.Int("id", message.ID),
			zap.String("title", message.Title),
			zap.String("scheduled_for", message.Datetime))

		if isRepeatNone(message.Repeat) {
			if err := b.store.ArchiveScheduledMessage(ctx, message.ID); err != nil {
				b.logger.Error("Failed to archive scheduled message", zap.Int("id", message.ID), zap.Error(err))
			}
		} else {
			b.rescheduleMessage(ctx, message, scheduled, now)
		}

		if _, err := b.client.SendEmbed(ctx, message.ChannelID, platform.Embed{
			Title:       message.Title,
			Description: message.Message,
			Color:       colorPink,
		}); err != nil {
			b.logger.Error("Failed to send scheduled message",
				zap.Int("id", message.ID),
				zap.String("channel_id", message.ChannelID),
				zap.Error(err))
		}
	}

	return nil
}

func (b *Bot) rescheduleMessage(ctx context.Context, message models.ScheduledMessage, scheduled, now time.Time) {
	next, err := applyRepeatDuration(message.Repeat, scheduled, now)
	if err == nil {
		v := next.UTC().Format(time.RFC3339)
		if _, updateErr := b.store.UpdateScheduledMessage(ctx, message.ID, &v, nil, nil, nil, nil); updateErr == nil {
			return
		}
		err = fmt.Errorf("error storing new schedule time")
	}

	b.logger.Error("Unable to re-schedule repeating message, archiving as a fallback",
		zap.Int("id", message.ID),
		zap.Error(err))
	if archiveErr := b.store.ArchiveScheduledMessage(ctx, message.ID); archiveErr != nil {
		b.logger.Error("Failed to archive scheduled message", zap.Int("id", message.ID), zap.Error(archiveErr))
	}
}
