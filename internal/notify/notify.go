/*
Package notify delivers new-event notifications to subscribed chats, with an
optional email copy for the operator.
*/
package notify

import (
	"context"
	"fmt"

	"golang.org/x/net/html"

	applog "github.com/shanehull/unicabot/internal/log"
	"github.com/shanehull/unicabot/internal/metrics"
	"github.com/shanehull/unicabot/internal/types"
)

// Channel delivers one message to one chat.
type Channel interface {
	Deliver(ctx context.Context, chatID types.ChatID, text string) error
}

// Mailer sends a rendered email.
type Mailer interface {
	Send(msg *RenderedMessage) error
}

// Annotator produces a short description of an event.
type Annotator interface {
	Describe(ctx context.Context, e types.Event) (string, error)
}

// RenderedMessage is a notification ready to be sent by email.
type RenderedMessage struct {
	Subject string
	Text    string
	HTML    string
}

// NotificationData is the input to the email renderer.
type NotificationData struct {
	Event types.Event
	Blurb string
}

// Report counts deliveries for one event.
type Report struct {
	Sent   int
	Failed int
}

// Notifier fans one event out to every recipient.
type Notifier struct {
	channel   Channel
	mailer    Mailer
	renderer  *HTMLEmailRenderer
	annotator Annotator
}

type Option func(*Notifier)

// WithMailer mirrors each notified event to the operator by email.
func WithMailer(m Mailer) Option {
	return func(n *Notifier) {
		n.mailer = m
		n.renderer = NewHTMLEmailRenderer()
	}
}

// WithAnnotator attaches a generated description to each notification.
func WithAnnotator(a Annotator) Option {
	return func(n *Notifier) { n.annotator = a }
}

func NewNotifier(channel Channel, opts ...Option) *Notifier {
	n := &Notifier{channel: channel}
	for _, o := range opts {
		o(n)
	}
	return n
}

// NotifyEvent sends e to every recipient. A failed delivery is logged and
// counted and does not stop the remaining deliveries.
func (n *Notifier) NotifyEvent(ctx context.Context, e types.Event, recipients []types.ChatID) Report {
	logger := applog.WithComponent("notify")
	blurb := n.describe(ctx, e)
	text := FormatNotification(e, blurb)

	var report Report
	for _, id := range recipients {
		if ctx.Err() != nil {
			report.Failed += len(recipients) - report.Sent - report.Failed
			logger.Warn().Str("title", e.Title).Msg("Delivery cancelled")
			break
		}
		if err := n.channel.Deliver(ctx, id, text); err != nil {
			report.Failed++
			metrics.NotificationsTotal.WithLabelValues("failed").Inc()
			logger.Warn().Err(err).Int64("chat_id", id).Str("title", e.Title).Msg("Failed to deliver notification")
			continue
		}
		report.Sent++
		metrics.NotificationsTotal.WithLabelValues("sent").Inc()
	}

	n.mail(NotificationData{Event: e, Blurb: blurb})

	logger.Info().
		Str("title", e.Title).
		Int("sent", report.Sent).
		Int("failed", report.Failed).
		Msg("Event notified")
	return report
}

func (n *Notifier) describe(ctx context.Context, e types.Event) string {
	if n.annotator == nil {
		return ""
	}
	blurb, err := n.annotator.Describe(ctx, e)
	if err != nil {
		logger := applog.WithComponent("notify")
		logger.Warn().Err(err).Str("title", e.Title).Msg("AI description failed")
		return ""
	}
	return blurb
}

func (n *Notifier) mail(data NotificationData) {
	if n.mailer == nil {
		return
	}
	logger := applog.WithComponent("notify")

	msg, err := n.renderer.Render(data)
	if err != nil {
		logger.Error().Err(err).Str("title", data.Event.Title).Msg("Failed to render email")
		return
	}
	if err := n.mailer.Send(msg); err != nil {
		logger.Error().Err(err).Str("subject", msg.Subject).Msg("Failed to send email")
	}
}

// FormatNotification is the Telegram HTML text announcing a new event.
func FormatNotification(e types.Event, blurb string) string {
	text := fmt.Sprintf("New event: %s", e.HTML())
	if blurb != "" {
		text += "\n<i>" + html.EscapeString(blurb) + "</i>"
	}
	return text
}
