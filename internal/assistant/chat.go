package assistant

import (
	"context"
	"log/slog"
	"strings"

	"agent-console/internal/llm"
	"agent-console/internal/models"
)

const (
	maxChatChars = 1500

	chatInstructions = "You are an e-commerce AI agent assistant. Write short, plain English. Never ask for personal data."

	demoReply        = "Demo mode: explore the Sales, Reporting, Social and Recommendation tabs to see the agent outputs."
	unreachableReply = "I could not reach the AI service right now. The Insights screen is still available."
	emptyModelReply  = "Okay."
	promptReply      = "Ask me about sales, reports, social content or product recommendations."
)

type ChatReply struct {
	Reply string             `json:"reply"`
	Mode  models.SummaryMode `json:"mode"`
}

type Chat struct {
	llm    Completer
	logger *slog.Logger
}

// NewChat returns a chat responder. A nil Completer answers with the demo
// reply. A blank message never reaches the model.
func NewChat(c Completer, logger *slog.Logger) *Chat {
	return &Chat{llm: c, logger: logger}
}

func (c *Chat) Reply(ctx context.Context, message string) ChatReply {
	if c.llm == nil {
		return ChatReply{Reply: demoReply, Mode: models.ModeFallback}
	}

	if strings.TrimSpace(message) == "" {
		return ChatReply{Reply: promptReply, Mode: models.ModeFallback}
	}

	text, err := c.llm.Complete(ctx, llm.Request{
		Instructions: chatInstructions,
		Input:        llm.Truncate(message, maxChatChars),
	})
	if err != nil {
		c.logger.Warn("chat completion failed", "error", err)
		return ChatReply{Reply: unreachableReply, Mode: models.ModeFallback}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		text = emptyModelReply
	}
	return ChatReply{Reply: text, Mode: models.ModeAI}
}
