/*
Package bot answers the Telegram commands users send to unicabot.
*/
package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/shanehull/unicabot/internal/history"
	applog "github.com/shanehull/unicabot/internal/log"
	"github.com/shanehull/unicabot/internal/metrics"
	"github.com/shanehull/unicabot/internal/subs"
	"github.com/shanehull/unicabot/internal/types"
)

// API is the subset of *tgbotapi.BotAPI used by the bot.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot dispatches commands against the registry and the catalog.
type Bot struct {
	api      API
	registry *subs.Registry
	catalog  *history.Catalog
	commands []command
}

// maxMessageLen is the Telegram limit on a message's text.
const maxMessageLen = 4096

type command struct {
	name        string
	description string
	handle      func(b *Bot, chatID types.ChatID) string
}

func New(api API, registry *subs.Registry, catalog *history.Catalog) *Bot {
	return &Bot{
		api:      api,
		registry: registry,
		catalog:  catalog,
		commands: []command{
			{"start", "Start this bot and display a welcome message.", (*Bot).start},
			{"help", "Display this help text.", (*Bot).help},
			{"subscribe", "Subscribe to event notifications.", (*Bot).subscribe},
			{"unsubscribe", "Unsubscribe from notifications.", (*Bot).unsubscribe},
			{"events", "List known events.", (*Bot).events},
			{"amisubscribed", "Check if you are subscribed.", (*Bot).amISubscribed},
		},
	}
}

// Run polls for updates until ctx is cancelled. Each command is handled in
// its own goroutine; Run waits for them before returning.
func (b *Bot) Run(ctx context.Context) error {
	logger := applog.WithComponent("bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	var wg sync.WaitGroup
	defer wg.Wait()

	logger.Info().Msg("Listening for commands")
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			logger.Info().Msg("Stopped listening for commands")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			msg := update.Message
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.reply(msg.Chat.ID, msg.Command())
			}()
		}
	}
}

func (b *Bot) reply(chatID types.ChatID, name string) {
	text := b.Handle(chatID, name)

	for _, chunk := range splitMessage(text, maxMessageLen) {
		out := tgbotapi.NewMessage(chatID, chunk)
		out.ParseMode = tgbotapi.ModeHTML
		if _, err := b.api.Send(out); err != nil {
			logger := applog.WithChatID(chatID)
			logger.Warn().Err(err).Str("command", name).Msg("Failed to send reply")
			return
		}
	}
}

// splitMessage cuts text into chunks of at most limit runes, breaking at
// line ends so that no HTML anchor is split. A single line longer than
// limit is cut at the rune boundary.
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder
	curLen := 0
	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, line := range strings.Split(text, "\n") {
		r := []rune(line)
		for len(r) > limit {
			flush()
			chunks = append(chunks, string(r[:limit]))
			r = r[limit:]
		}
		n := len(r)
		if curLen > 0 && curLen+1+n > limit {
			flush()
		}
		if curLen > 0 {
			cur.WriteByte('\n')
			curLen++
		}
		cur.WriteString(string(r))
		curLen += n
	}
	flush()
	return chunks
}

// Handle runs the named command for chatID and returns the reply text.
// Command names are matched case-insensitively.
func (b *Bot) Handle(chatID types.ChatID, name string) string {
	name = strings.ToLower(strings.TrimPrefix(name, "/"))
	for _, c := range b.commands {
		if c.name == name {
			metrics.CommandsTotal.WithLabelValues(c.name).Inc()
			return c.handle(b, chatID)
		}
	}
	metrics.CommandsTotal.WithLabelValues("unknown").Inc()
	return UnknownCommandMsg
}

func (b *Bot) start(types.ChatID) string {
	return WelcomeMsg
}

func (b *Bot) help(types.ChatID) string {
	var sb strings.Builder
	sb.WriteString("These commands are supported:\n")
	for _, c := range b.commands {
		sb.WriteString(fmt.Sprintf("/%s - %s\n", c.name, c.description))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (b *Bot) subscribe(chatID types.ChatID) string {
	if b.registry.Subscribe(chatID) {
		logger := applog.WithChatID(chatID)
		logger.Debug().Msg("Subscribed")
	}
	metrics.Subscribers.Set(float64(b.registry.Len()))
	return SubMsg
}

func (b *Bot) unsubscribe(chatID types.ChatID) string {
	if b.registry.Unsubscribe(chatID) {
		logger := applog.WithChatID(chatID)
		logger.Debug().Msg("Unsubscribed")
	}
	metrics.Subscribers.Set(float64(b.registry.Len()))
	return UnsubMsg
}

func (b *Bot) events(types.ChatID) string {
	return FormatEvents(b.catalog.All())
}

func (b *Bot) amISubscribed(chatID types.ChatID) string {
	if b.registry.IsSubscribed(chatID) {
		return IAmSubMsg
	}
	return IAmNotSubMsg
}

// FormatEvents renders the event list reply.
func FormatEvents(events []types.Event) string {
	if len(events) == 0 {
		return NoEventsMsg
	}
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, "• "+e.HTML())
	}
	return "Current events:\n" + strings.Join(lines, "\n")
}
