package ai

import (
	"fmt"
	"strings"

	"github.com/shanehull/unicabot/internal/types"
)

const systemInstruction = `
You write notification copy for a Telegram bot that announces sport events
organised by the Université Côte d'Azur sports service (SUAPS).

Given an event title, date and link, identify the sport or activity and write a
single short sentence in French inviting students to take part.

Rules:
- Never invent prices, places or times that are not in the input.
- No emojis, no hashtags, no markdown.
- At most 200 characters.
`

var userPromptTemplate = `
Event title: %s
Event date: %s
Event page: %s
`

func buildUserPrompt(e types.Event) string {
	link := e.Link
	if link == "" {
		link = "(none)"
	}
	return strings.TrimSpace(fmt.Sprintf(userPromptTemplate, e.Title, e.Date, link))
}
