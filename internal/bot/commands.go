// Package bot wires the Discord gateway to the tracker: it parses prefix and
// slash commands, renders replies, and runs the background refresh loops.
package bot

import "strings"

const (
	commandPrefix = "tt!"
	helpPrefix    = "tt?"
)

// commandKind is the closed set of recognised commands. Unrecognised input
// parses to cmdUnknown rather than falling through silently.
type commandKind int

const (
	cmdUnknown commandKind = iota
	cmdTrack
	cmdUntrack
	cmdCategory
	cmdThreads
	cmdPending
	cmdRandom
	cmdWatch
	cmdUnwatch
	cmdWatchers
	cmdTodoAdd
	cmdTodoDone
	cmdTodos
	cmdMuseAdd
	cmdMuseRemove
	cmdMuses
	cmdTimestamps
	cmdNotify
	cmdSchedule
	cmdTimezone
	cmdStats
	cmdCleanup
	cmdHelp
)

var commandNames = map[string]commandKind{
	"track":      cmdTrack,
	"add":        cmdTrack,
	"untrack":    cmdUntrack,
	"remove":     cmdUntrack,
	"category":   cmdCategory,
	"cat":        cmdCategory,
	"threads":    cmdThreads,
	"replies":    cmdThreads,
	"pending":    cmdPending,
	"random":     cmdRandom,
	"watch":      cmdWatch,
	"unwatch":    cmdUnwatch,
	"watchers":   cmdWatchers,
	"watching":   cmdWatchers,
	"todo":       cmdTodoAdd,
	"done":       cmdTodoDone,
	"todos":      cmdTodos,
	"addmuse":    cmdMuseAdd,
	"removemuse": cmdMuseRemove,
	"muses":      cmdMuses,
	"timestamps": cmdTimestamps,
	"notify":     cmdNotify,
	"schedule":   cmdSchedule,
	"timezone":   cmdTimezone,
	"stats":      cmdStats,
	"cleanup":    cmdCleanup,
	"help":       cmdHelp,
}

// command is a parsed prefix command invocation.
type command struct {
	kind commandKind
	name string
	args []string
}

// parseCommand recognises "tt!name args..." invocations and "tt?topic" help
// shortcuts. The second return is false when the content is not addressed to
// the bot at all.
func parseCommand(content string) (command, bool) {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, helpPrefix) {
		topic := strings.TrimPrefix(content, helpPrefix)
		return command{kind: cmdHelp, name: "help", args: strings.Fields(topic)}, true
	}

	if !strings.HasPrefix(content, commandPrefix) {
		return command{}, false
	}

	fields := strings.Fields(strings.TrimPrefix(content, commandPrefix))
	if len(fields) == 0 {
		return command{kind: cmdUnknown}, true
	}

	name := strings.ToLower(fields[0])
	kind, ok := commandNames[name]
	if !ok {
		return command{kind: cmdUnknown, name: name, args: fields[1:]}, true
	}

	return command{kind: kind, name: name, args: fields[1:]}, true
}
