package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/shanehull/unicabot/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUserPrompt(t *testing.T) {
	p := buildUserPrompt(types.Event{Title: "Futsal", Date: "12 mars"})

	assert.Contains(t, p, "Event title: Futsal")
	assert.Contains(t, p, "Event date: 12 mars")
	assert.Contains(t, p, "Event page: (none)")
}

func TestParseBlurb(t *testing.T) {
	b, err := parseBlurb(`{"sport":"Futsal","blurb":"Venez jouer au futsal !"}`)
	require.NoError(t, err)
	assert.Equal(t, "[Futsal] Venez jouer au futsal !", b.String())

	_, err = parseBlurb(`not json`)
	assert.Error(t, err)

	_, err = parseBlurb(`{"sport":"Judo","blurb":"  "}`)
	assert.Error(t, err)
}

func TestBlurbTruncates(t *testing.T) {
	b := EventBlurb{Blurb: strings.Repeat("é", 400)}

	s := b.String()
	assert.Equal(t, maxBlurbLen, len([]rune(s)))
	assert.True(t, strings.HasSuffix(s, "…"))
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), "", "")
	assert.Error(t, err)
}
