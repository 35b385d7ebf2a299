package hype

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/dobosmarton/gaffer-app/internal/pkg/env"
)

const (
	generatorModel     = "claude-sonnet-4-20250514"
	generatorMaxTokens = 500
)

// Generator produces manager-style hype speeches for upcoming meetings
type Generator struct {
	client anthropic.Client
}

// NewGenerator creates a hype text generator using the configured API key
func NewGenerator() *Generator {
	return &Generator{
		client: anthropic.NewClient(option.WithAPIKey(env.GetEnv("ANTHROPIC_API_KEY", ""))),
	}
}

// GenerateText writes a short pre-meeting team talk in the given manager's voice
func (g *Generator) GenerateText(ctx context.Context, eventTitle, eventDescription, eventTime, managerStyle string) (string, error) {
	systemPrompt := fmt.Sprintf(`You are a legendary football manager giving a pre-match team talk to one of your players before an important meeting.

%s

Your job is to deliver an intense, motivating speech that will pump up the listener before their meeting. Keep it to 3-5 sentences. Be dramatic but encouraging. Reference the specific meeting they're about to attend.

Important guidelines:
- Stay in character as the manager throughout
- Reference the meeting title/topic in your speech
- Make it personal and direct (use "you")
- Build to a crescendo of motivation
- End with a powerful send-off`, StylePrompt(managerStyle))

	userPrompt := fmt.Sprintf("The player has a meeting coming up:\n- Meeting: %s\n- Time: %s\n", eventTitle, eventTime)
	if eventDescription != "" {
		userPrompt += fmt.Sprintf("- Details: %s\n", eventDescription)
	}
	userPrompt += "\nGive them your pre-match team talk."

	message, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     generatorModel,
		MaxTokens: generatorMaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("hype generation failed: %w", err)
	}

	if len(message.Content) == 0 {
		return "", fmt.Errorf("hype generation returned empty response")
	}
	return message.Content[0].Text, nil
}
