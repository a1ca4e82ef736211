// Package handlers contains the Telegram command and message handlers and
// their registration table.
package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a command handler with its middleware.
type RegisteredHandler struct {
	Command    string
	Match      tgbot.MatchFunc
	Handler    tgbot.HandlerFunc
	Middleware []tgbot.Middleware
}

// RegisterAllCommands returns every slash command keyed by its name. Plain
// messages go to NewChatHandler, installed as the bot's default handler.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	commands := map[string]tgbot.HandlerFunc{
		"start":        NewStartHandler(deps),
		"help":         NewHelpHandler(deps),
		"careers":      NewCareersHandler(deps),
		"courses":      NewCoursesHandler(deps),
		"universities": NewUniversitiesHandler(deps),
		"reset":        NewResetHandler(deps),
	}

	handlers := make(map[string]RegisteredHandler, len(commands))
	for name, h := range commands {
		handlers["/"+name] = RegisteredHandler{
			Command: name,
			Match:   MatchCommand(deps.Config, name),
			Handler: h,
		}
	}
	return handlers
}
