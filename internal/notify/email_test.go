package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanehull/unicabot/internal/types"
)

func TestHTMLEmailRendererRender(t *testing.T) {
	r := NewHTMLEmailRenderer()

	msg, err := r.Render(NotificationData{
		Event: types.Event{Title: "Rugby <à 7>", Date: "3 juin", Link: "https://x/rugby"},
		Blurb: "Tournoi ouvert à tous",
	})
	require.NoError(t, err)

	assert.Equal(t, "UniCa Sport: Rugby <à 7> (3 juin)", msg.Subject)
	assert.Contains(t, msg.HTML, "Rugby &lt;à 7&gt;")
	assert.Contains(t, msg.HTML, `href="https://x/rugby"`)
	assert.Contains(t, msg.HTML, "Tournoi ouvert à tous")
	assert.Contains(t, msg.Text, "URL: https://x/rugby")
	assert.Contains(t, msg.Text, "Date: 3 juin")
}

func TestHTMLEmailRendererWithoutLink(t *testing.T) {
	msg, err := NewHTMLEmailRenderer().Render(NotificationData{Event: types.Event{Title: "Yoga", Date: "1 mai"}})
	require.NoError(t, err)

	assert.NotContains(t, msg.HTML, "See the event")
	assert.NotContains(t, msg.Text, "URL:")
}

func TestEmailConfigEnabled(t *testing.T) {
	assert.False(t, EmailConfig{}.Enabled())
	assert.True(t, EmailConfig{SMTPServer: "smtp", SMTPUser: "u", SMTPPass: "p", ToEmail: "ops@x"}.Enabled())
}

func TestEmailSenderMessage(t *testing.T) {
	s := NewEmailSender(EmailConfig{SMTPUser: "bot@x", ToEmail: "ops@x"})

	m := s.message(&RenderedMessage{Subject: "s", Text: "t", HTML: "<p>h</p>"})

	assert.Equal(t, []string{"bot@x"}, m.GetHeader("From"))
	assert.Equal(t, []string{"ops@x"}, m.GetHeader("To"))
	assert.Equal(t, []string{"s"}, m.GetHeader("Subject"))
}

func TestEmailSenderDisabledIsNoop(t *testing.T) {
	assert.NoError(t, NewEmailSender(EmailConfig{}).Send(&RenderedMessage{Subject: "x"}))
}
