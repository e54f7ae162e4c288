/*
Package ai asks Gemini for a short description of a newly listed sport event,
attached to notifications when an API key is configured.
*/
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/shanehull/unicabot/internal/types"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.5-flash"

const maxBlurbLen = 280

type EventBlurb struct {
	Sport string `json:"sport"`
	Blurb string `json:"blurb"`
}

// Client generates event blurbs.
type Client struct {
	genai *genai.Client
	model string
}

// NewClient creates a Gemini-backed client.
func NewClient(ctx context.Context, apiKey string, modelName string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{genai: client, model: modelName}, nil
}

// Describe returns a one-line description of e.
func (c *Client) Describe(ctx context.Context, e types.Event) (string, error) {
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(buildUserPrompt(e)), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		ResponseMIMEType: "application/json",
		ResponseSchema:   getResponseSchema(),
	})
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	blurb, err := parseBlurb(resp.Text())
	if err != nil {
		return "", err
	}
	return blurb.String(), nil
}

func (b EventBlurb) String() string {
	text := strings.TrimSpace(b.Blurb)
	if sport := strings.TrimSpace(b.Sport); sport != "" {
		text = "[" + sport + "] " + text
	}
	if r := []rune(text); len(r) > maxBlurbLen {
		text = string(r[:maxBlurbLen-1]) + "…"
	}
	return text
}

func parseBlurb(respText string) (EventBlurb, error) {
	var blurb EventBlurb
	if err := json.Unmarshal([]byte(respText), &blurb); err != nil {
		return EventBlurb{}, fmt.Errorf("failed to unmarshal gemini JSON response: %w. Raw text: %s", err, respText)
	}
	if strings.TrimSpace(blurb.Blurb) == "" {
		return EventBlurb{}, fmt.Errorf("gemini returned an empty blurb")
	}
	return blurb, nil
}

func getResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"sport": {
				Type:        genai.TypeString,
				Description: "The sport or activity, in French, one or two words.",
			},
			"blurb": {
				Type:        genai.TypeString,
				Description: "One inviting sentence in French describing the event.",
			},
		},
		Required: []string{"sport", "blurb"},
	}
}
