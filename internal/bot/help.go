package bot

import (
	"context"
	"strings"
)

const helpMainTitle = "Help"
const helpMain = `Thanks for using Thread Tracker!

**` + "`tt!help`" + `** - Shows this help message. Use ` + "`tt?threads`" + `, ` + "`tt?muses`" + `, ` + "`tt?todos`" + ` or ` + "`tt?scheduling`" + ` for details on each command group.

__**Thread Commands**__
> ` + "`tt!threads`, `tt!track`, `tt!untrack`, `tt!category`, `tt!random`, `tt!watch`, `tt!unwatch`" + `
> Track your threads and see who last responded to them.

__**Muse Commands**__
> ` + "`tt!muses`, `tt!addmuse`, `tt!removemuse`" + `
> Register muse names so replies sent under those names count as yours.

__**To Do Commands**__
> ` + "`tt!todos`, `tt!todo`, `tt!done`" + `
> A personal to do list that you can update as needed.

__**Scheduling Commands**__
> ` + "`tt!schedule`, `tt!timezone`" + `
> Schedule one-shot or repeating messages.`

const helpThreadsTitle = "View or change tracked threads"
const helpThreads = `Tracked threads show who last responded to each one. If the last reply isn't from you or one of your muses (` + "`tt?muses`" + `), the name is shown in bold to indicate the thread awaits your reply.

Thread URLs can be found under ` + "`Copy Link`" + ` when you right click or long-press on the channel or thread. If a command takes multiple URLs, separate the links with spaces.

__**Add/Remove**__
> **` + "`tt!track`" + `** _` + "`category`" + `_ ` + "`URLs`" + ` - Track new threads, optionally with a category.
> **` + "`tt!untrack`" + `** ` + "`URLs`" + ` - Remove tracked threads from your list.
> **` + "`tt!untrack`" + `** ` + "`categories`" + ` - Remove all tracked threads in the given categories.
> **` + "`tt!untrack all`" + `** - Remove all tracked threads.

__**Change Categories**__
> **` + "`tt!category`" + `** ` + "`category` `URLs`" + ` - Change the category of already-tracked threads. Use ` + "`unset`" + ` or ` + "`none`" + ` as the category to remove the category.

__**List**__
> **` + "`tt!threads`" + `** _` + "`categories`" + `_ - List tracked threads and to do entries. Add ` + "`sort:newest`" + ` or ` + "`sort:oldest`" + ` to sort by the last reply time, and ` + "`tt!timestamps on`" + ` to include reply timestamps.
> **` + "`tt!pending`" + `** _` + "`categories`" + `_ - List only the threads awaiting your reply.
> **` + "`tt!random`" + `** _` + "`category`" + `_ - Pick a random thread that you don't have the last reply in.
> **` + "`tt!watch`" + `** _` + "`categories`" + `_ - Same as ` + "`tt!threads`" + `, but the message is periodically edited to keep the list up to date.
> **` + "`tt!unwatch`" + `** ` + "`URL`" + ` - Link a watched message to delete it and stop watching.
> **` + "`tt!watchers`" + `** - List your active watchers.

__**Maintenance**__
> **` + "`tt!cleanup`" + `** - Find tracked threads that can no longer be fetched and offer to untrack them.
> **` + "`tt!notify on/off`" + `** - Receive a DM when someone replies to one of your tracked threads.`

const helpMusesTitle = "View or change registered muses"
const helpMuses = `When using a proxying bot that sends responses under specific names, the tracker can't normally tell which responses are from you. Registering a muse name marks those responses as yours.

When listing threads, the person who last responded is shown in bold unless it's you or one of your muses. Muse replies also keep a thread out of ` + "`tt!random`" + ` and ` + "`tt!pending`" + ` results.

> **` + "`tt!muses`" + `** - List the currently registered muses
> **` + "`tt!addmuse`" + `** ` + "`name`" + ` - Register a muse name
> **` + "`tt!removemuse`" + `** ` + "`name`" + ` - Remove a registered muse name`

const helpTodosTitle = "View or change to do entries"
const helpTodos = `To do entries are shown alongside your threads when listing, and can occupy the same categories as your tracked threads.

Note that using categories with to do entries requires you prefix the category with ` + "`!`" + `, for example ` + "`!Bob`" + `.

> **` + "`tt!todos`" + `** - List all to do entries.
> **` + "`tt!todo`" + `** _` + "`!category`" + `_ ` + "`todo text`" + ` - Add a to do entry, optionally with a category.
> **` + "`tt!done`" + `** ` + "`todo text`" + ` - Remove a to do entry.
> **` + "`tt!done`" + `** ` + "`!category`" + ` - Remove all to do entries from the given category.
> **` + "`tt!done !all`" + `** - Remove all to do entries.`

const helpSchedulingTitle = "Schedule messages"
const helpScheduling = `Messages can be scheduled for future delivery in the current channel, optionally repeating. Times are interpreted in your configured timezone (` + "`tt!timezone`" + `), defaulting to UTC.

Repeat specifications combine numbers with units, for example ` + "`1w`" + `, ` + "`3d 12h`" + ` or ` + "`2 months`" + ` written as ` + "`2M`" + `.

> **` + "`tt!schedule add`" + `** ` + "`yyyy-mm-dd hh:mm:ss repeat title | message`" + ` - Schedule a message. Use ` + "`none`" + ` for no repeat.
> **` + "`tt!schedule list`" + `** - List your scheduled messages.
> **` + "`tt!schedule get`" + `** ` + "`id`" + ` - Show one scheduled message in full.
> **` + "`tt!schedule update`" + `** ` + "`id field value`" + ` - Change the datetime, repeat, title, or message.
> **` + "`tt!schedule remove`" + `** ` + "`id`" + ` - Remove a scheduled message.
> **` + "`tt!timezone`" + `** ` + "`name`" + ` - Set your timezone, for example ` + "`Australia/Sydney`" + `.`

func helpTopic(topic string) (title, text string) {
	switch strings.ToLower(topic) {
	case "threads", "thread", "tracking":
		return helpThreadsTitle, helpThreads
	case "muses", "muse":
		return helpMusesTitle, helpMuses
	case "todos", "todo":
		return helpTodosTitle, helpTodos
	case "scheduling", "schedule":
		return helpSchedulingTitle, helpScheduling
	default:
		return helpMainTitle, helpMain
	}
}

func (b *Bot) handleHelp(ctx context.Context, inv invocation, args []string) {
	topic := ""
	if len(args) > 0 {
		topic = args[0]
	}

	title, text := helpTopic(topic)
	b.replySuccess(ctx, inv.channelID, title, text)
}
