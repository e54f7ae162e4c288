package types

import (
	"fmt"

	"golang.org/x/net/html"
)

// Event is one entry scraped from the sport events page. Two events are the
// same event only when all three fields match exactly.
type Event struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Link  string `json:"link"`
}

// Equal reports structural equality.
func (e Event) Equal(o Event) bool {
	return e == o
}

// HTML renders the event as a Telegram HTML anchor followed by its date.
func (e Event) HTML() string {
	return fmt.Sprintf("<a href='%s'>%s</a> (%s)",
		html.EscapeString(e.Link),
		html.EscapeString(e.Title),
		html.EscapeString(e.Date),
	)
}

func (e Event) String() string {
	return fmt.Sprintf("%s (%s) %s", e.Title, e.Date, e.Link)
}

// Contains reports whether events holds a record equal to e.
func Contains(events []Event, e Event) bool {
	for _, x := range events {
		if x.Equal(e) {
			return true
		}
	}
	return false
}

// ChatID identifies a Telegram chat that receives notifications.
type ChatID = int64
