package commands

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"runtime/metrics"
	"strings"
	"time"
	"webpbot/internal/core/domain"
	"webpbot/internal/core/port"

	"github.com/rs/zerolog/log"
)

// DebugHandler replies with memory and build statistics of the running process.
type DebugHandler struct {
	textSender port.TextSender
	command    string
	started    time.Time
}

func NewDebugHandler(sender port.TextSender, command string) *DebugHandler {
	return &DebugHandler{textSender: sender, command: command, started: time.Now()}
}

func (h *DebugHandler) GetCommand() string {
	return h.command
}

const kb = 1024

var debugSamples = []string{
	"/memory/classes/total:bytes",
	"/memory/classes/heap/objects:bytes",
	"/memory/classes/heap/stacks:bytes",
}

func (h *DebugHandler) Respond(ctx context.Context, _ time.Duration, message *domain.Message) error {
	log.Info().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", h.GetCommand()).
		Msg("handling request")

	data := make([]metrics.Sample, len(debugSamples))
	for i, name := range debugSamples {
		data[i].Name = name
	}

	metrics.Read(data)

	sb := &strings.Builder{}
	fmt.Fprintf(sb, "uptime: %s\n", time.Since(h.started).Truncate(time.Second))
	fmt.Fprintf(sb, "goroutines: %d\n", runtime.NumGoroutine())

	labels := []string{"allocated mem", "heap", "stack"}
	for i, sample := range data {
		if sample.Value.Kind() != metrics.KindUint64 {
			continue
		}
		fmt.Fprintf(sb, "%s: %d KB\n", labels[i], sample.Value.Uint64()/kb)
	}

	goos, goarch := runtime.GOOS, runtime.GOARCH
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "GOOS":
				goos = setting.Value
			case "GOARCH":
				goarch = setting.Value
			}
		}
	}

	fmt.Fprintf(sb, "compiled with %s for %s-%s", runtime.Version(), goos, goarch)

	if _, err := h.textSender.SendMessageReply(ctx, message, sb.String()); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSendingReplyFailed, err)
	}

	return nil
}
