package domain

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type CommandResponder interface {
	// Respond handles a message within the given timeout and replies to the originating chat.
	Respond(ctx context.Context, timeout time.Duration, message *Message) error
	// GetCommand returns the command the responder is registered under.
	GetCommand() string
}

var ErrCommandNotFound = errors.New("command not found")

type CommandRegistry struct {
	commands map[string]CommandResponder
}

func (c *CommandRegistry) Register(handler CommandResponder) {
	if c.commands == nil {
		c.commands = make(map[string]CommandResponder)
	}

	log.Info().Str("handler", handler.GetCommand()).Msg("adding command handler to registry")
	c.commands[handler.GetCommand()] = handler
}

func (c *CommandRegistry) Get(command string) (CommandResponder, error) {
	log.Debug().Str("command", command).Msg("fetching command handler from registry")

	if c.commands == nil {
		return nil, errors.New("can't fetch commands, registry not initialized")
	}

	handler, ok := c.commands[command]
	if !ok {
		return nil, ErrCommandNotFound
	}

	return handler, nil
}

func (c *CommandRegistry) ListCommands() []string {
	keys := make([]string, 0, len(c.commands))
	for k := range c.commands {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// ParseCommand returns the lowercased first word of a message if it is a bot command, dropping
// an "@botname" suffix. Plain text yields an empty string.
func ParseCommand(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}

	command, _, _ := strings.Cut(fields[0], "@")

	return strings.ToLower(command)
}
