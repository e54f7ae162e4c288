package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// HTMLEmailRenderer renders notifications as HTML emails with a plain text fallback.
type HTMLEmailRenderer struct {
	tmpl *template.Template
}

// NewHTMLEmailRenderer creates a renderer with the default email template.
func NewHTMLEmailRenderer() *HTMLEmailRenderer {
	t := template.Must(template.New("email").Parse(emailHTMLTemplate))
	return &HTMLEmailRenderer{tmpl: t}
}

// Render produces an HTML email with plain text alternative.
func (r *HTMLEmailRenderer) Render(data NotificationData) (*RenderedMessage, error) {
	subject := fmt.Sprintf("UniCa Sport: %s (%s)", data.Event.Title, data.Event.Date)

	var htmlBuf bytes.Buffer
	if err := r.tmpl.Execute(&htmlBuf, data); err != nil {
		return nil, fmt.Errorf("failed to render HTML template: %w", err)
	}

	return &RenderedMessage{
		Subject: subject,
		Text:    renderPlainText(data),
		HTML:    htmlBuf.String(),
	}, nil
}

func renderPlainText(data NotificationData) string {
	e := data.Event
	var sb strings.Builder

	sb.WriteString(e.Title + "\n")
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")
	sb.WriteString(fmt.Sprintf("Date: %s\n", e.Date))
	if e.Link != "" {
		sb.WriteString(fmt.Sprintf("URL: %s\n", e.Link))
	}

	if data.Blurb != "" {
		sb.WriteString("\n" + data.Blurb + "\n")
	}

	return sb.String()
}
